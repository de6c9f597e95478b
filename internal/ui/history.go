package ui

// history is a fixed-size ring of the most recent samples. It is only used
// from the Update goroutine.
type history struct {
	buf []float64
	w   int // write position
	len int // current fill level
}

func newHistory(size int) *history {
	return &history{buf: make([]float64, size)}
}

// push appends v, overwriting the oldest sample when full.
func (h *history) push(v float64) {
	h.buf[h.w] = v
	h.w = (h.w + 1) % len(h.buf)
	h.len = min(h.len+1, len(h.buf))
}

// last returns up to n most recent samples, oldest first.
func (h *history) last(n int) []float64 {
	n = min(n, h.len)
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	start := (h.w - n + len(h.buf)) % len(h.buf)
	for i := range n {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

func (h *history) clear() {
	h.w = 0
	h.len = 0
}
