package soundtrack

import (
	"math"
	"time"
)

// EnvelopeRate is the number of envelope windows per second.
const EnvelopeRate = 60

// Envelope is the RMS loudness of a track per 1/60 s window, normalized so
// the loudest window is 1.
type Envelope struct {
	values []float64
}

// NewEnvelope computes the envelope of interleaved samples. Channels are
// averaged into one.
func NewEnvelope(samples []int16, rate, channels int) *Envelope {
	frames := len(samples) / max(channels, 1)
	window := max(rate/EnvelopeRate, 1)
	n := (frames + window - 1) / window
	values := make([]float64, n)

	peak := 0.0
	for w := range n {
		start := w * window
		end := min(start+window, frames)
		var sum float64
		for f := start; f < end; f++ {
			var mono float64
			for ch := range channels {
				mono += float64(samples[f*channels+ch])
			}
			mono /= float64(channels) * 32768
			sum += mono * mono
		}
		values[w] = math.Sqrt(sum / float64(end-start))
		peak = max(peak, values[w])
	}
	if peak > 0 {
		for i := range values {
			values[i] /= peak
		}
	}
	return &Envelope{values: values}
}

// Len returns the number of windows.
func (e *Envelope) Len() int { return len(e.values) }

// Duration returns the covered time.
func (e *Envelope) Duration() time.Duration {
	return time.Duration(len(e.values)) * time.Second / EnvelopeRate
}

// At returns the loudness at t, interpolating between windows. Times past
// the end wrap around so a looping track stays in sync.
func (e *Envelope) At(t time.Duration) float64 {
	n := len(e.values)
	if n == 0 {
		return 0
	}
	pos := math.Max(t.Seconds(), 0) * EnvelopeRate
	pos = math.Mod(pos, float64(n))
	i := int(pos)
	frac := pos - float64(i)
	next := (i + 1) % n
	return e.values[i]*(1-frac) + e.values[next]*frac
}
