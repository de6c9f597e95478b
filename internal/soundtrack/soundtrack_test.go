package soundtrack

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV writes a mono 16-bit file: silence, then a loud square wave.
func writeWAV(t *testing.T, rate int, quiet, loud time.Duration) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pulse.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	nq := int(quiet.Seconds() * float64(rate))
	nl := int(loud.Seconds() * float64(rate))
	data := make([]int, nq+nl)
	for i := range nl {
		v := 20000
		if (i/20)%2 == 1 {
			v = -20000
		}
		data[nq+i] = v
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return path
}

func TestOpenWAVResamplesToStereo(t *testing.T) {
	path := writeWAV(t, 8000, 500*time.Millisecond, 500*time.Millisecond)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tr.Title != "pulse" {
		t.Fatalf("title = %q, want file name", tr.Title)
	}
	if d := tr.Duration(); d < 990*time.Millisecond || d > time.Second {
		t.Fatalf("duration = %s", d)
	}
	if len(tr.PCM)%2 != 0 {
		t.Fatal("PCM is not stereo interleaved")
	}
	frame := (len(tr.PCM) * 3 / 4) &^ 1
	if tr.PCM[frame] == 0 || tr.PCM[frame] != tr.PCM[frame+1] {
		t.Fatalf("frame %d = (%d, %d), want equal loud channels", frame, tr.PCM[frame], tr.PCM[frame+1])
	}
}

func TestOpenRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestEnvelopeFollowsLoudness(t *testing.T) {
	path := writeWAV(t, 8000, 500*time.Millisecond, 500*time.Millisecond)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	env := tr.Envelope
	window := 8000 / EnvelopeRate
	if want := (8000 + window - 1) / window; env.Len() != want {
		t.Fatalf("windows = %d, want %d", env.Len(), want)
	}
	if v := env.At(200 * time.Millisecond); v != 0 {
		t.Fatalf("silence = %f", v)
	}
	if v := env.At(800 * time.Millisecond); math.Abs(v-1) > 1e-9 {
		t.Fatalf("loud part = %f, want 1", v)
	}
	// wraps past the end
	if v := env.At(time.Second + 200*time.Millisecond); v != 0 {
		t.Fatalf("wrapped = %f", v)
	}
}

func TestEnvelopeOfEmptyInput(t *testing.T) {
	env := NewEnvelope(nil, 44100, 2)
	if env.Len() != 0 || env.At(time.Second) != 0 {
		t.Fatal("empty envelope should read zero")
	}
}

func TestToStereoPassthroughAndResample(t *testing.T) {
	in := pcm{samples: []int16{1, 2, 3, 4}, sampleRate: 44100, channels: 2}
	if out := toStereo(in, 44100); len(out) != 4 || out[3] != 4 {
		t.Fatalf("passthrough = %v", out)
	}

	mono := pcm{samples: []int16{0, 100}, sampleRate: 22050, channels: 1}
	out := toStereo(mono, 44100)
	if len(out) != 8 {
		t.Fatalf("resampled length = %d, want 8", len(out))
	}
	if out[0] != 0 || out[2] != 50 || out[3] != 50 || out[4] != 100 {
		t.Fatalf("resampled = %v", out)
	}
}

func TestSourceKicksOnOnset(t *testing.T) {
	path := writeWAV(t, 8000, 500*time.Millisecond, 500*time.Millisecond)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	now := time.Duration(0)
	src := NewSource(tr.Envelope, func() time.Duration { return now }, SourceConfig{})
	var kicks []float64
	kick := func(v float64) { kicks = append(kicks, v) }

	for now = 0; now < 500*time.Millisecond; now += time.Second / 60 {
		src.Poll(kick)
	}
	if len(kicks) != 0 {
		t.Fatalf("silence produced %d kicks", len(kicks))
	}

	now = 600 * time.Millisecond
	src.Poll(kick)
	if len(kicks) != 1 || kicks[0] <= 0 {
		t.Fatalf("onset kicks = %v", kicks)
	}

	// a sustained level stops kicking once the average catches up
	for range 200 {
		now = 700 * time.Millisecond
		src.Poll(kick)
	}
	n := len(kicks)
	src.Poll(kick)
	if len(kicks) != n {
		t.Fatal("steady loudness should not keep kicking")
	}
}
