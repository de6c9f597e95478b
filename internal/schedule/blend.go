package schedule

// Smoothstep eases t in [0,1] with zero slope at both ends. Values outside
// the range are clamped first.
func Smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Term is one shape's share of the blended target.
type Term struct {
	Shape  int
	Weight float64
}

// Blend mixes up to three shape tables. Weights lie in [0,1] and sum to 1.
// The zero value holds shape 0.
type Blend struct {
	terms [3]Term
	n     int
}

// Hold targets a single shape.
func Hold(shape int) Blend {
	return Blend{terms: [3]Term{{Shape: shape, Weight: 1}}, n: 1}
}

// Mix moves from a (t=0) to b (t=1).
func Mix(a, b int, t float64) Blend {
	t = clamp01(t)
	switch {
	case a == b, t == 0:
		return Hold(a)
	case t == 1:
		return Hold(b)
	}
	return Blend{terms: [3]Term{{Shape: a, Weight: 1 - t}, {Shape: b, Weight: t}}, n: 2}
}

// Mix3 blends three shapes. Negative weights count as zero and the rest are
// normalized; if nothing is left the first shape is held.
func Mix3(a, b, c int, wa, wb, wc float64) Blend {
	wa, wb, wc = max(wa, 0), max(wb, 0), max(wc, 0)
	sum := wa + wb + wc
	if sum == 0 {
		return Hold(a)
	}
	var bl Blend
	for _, t := range [3]Term{{a, wa / sum}, {b, wb / sum}, {c, wc / sum}} {
		if t.Weight == 0 {
			continue
		}
		bl.terms[bl.n] = t
		bl.n++
	}
	return bl
}

// Terms returns the non-zero terms.
func (b Blend) Terms() []Term {
	if b.n == 0 {
		return []Term{{Shape: 0, Weight: 1}}
	}
	return b.terms[:b.n]
}

// Weight is the total weight given to shape.
func (b Blend) Weight(shape int) float64 {
	var w float64
	for _, t := range b.Terms() {
		if t.Shape == shape {
			w += t.Weight
		}
	}
	return w
}

// Dominant returns the heaviest term; ties go to the earlier one.
func (b Blend) Dominant() Term {
	terms := b.Terms()
	best := terms[0]
	for _, t := range terms[1:] {
		if t.Weight > best.Weight {
			best = t
		}
	}
	return best
}
