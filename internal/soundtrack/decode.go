package soundtrack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

var ErrUnsupported = errors.New("soundtrack: unsupported format")

// pcm is interleaved signed 16-bit audio.
type pcm struct {
	samples    []int16
	sampleRate int
	channels   int
}

// SupportedExts lists the file extensions Open accepts.
func SupportedExts() []string { return []string{".mp3", ".wav", ".ogg", ".flac"} }

func decodeFile(path string) (pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm{}, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	var p pcm
	switch ext {
	case ".mp3":
		p, err = decodeMP3(f)
	case ".wav":
		p, err = decodeWAV(f)
	case ".ogg":
		p, err = decodeOGG(f)
	case ".flac":
		p, err = decodeFLAC(f)
	default:
		return pcm{}, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupported, ext, strings.Join(SupportedExts(), ", "))
	}
	if err != nil {
		return pcm{}, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if p.sampleRate <= 0 || p.channels < 1 {
		return pcm{}, fmt.Errorf("%s: invalid format %d Hz, %d channels", filepath.Base(path), p.sampleRate, p.channels)
	}
	return p, nil
}

// go-mp3 always yields 16-bit stereo.
func decodeMP3(r io.Reader) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, err
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return pcm{samples: samples, sampleRate: dec.SampleRate(), channels: 2}, nil
}

func decodeWAV(r io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, err
	}
	depth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		switch {
		case depth == 8:
			// 8-bit WAV is unsigned
			s = (s - 128) << 8
		case depth > 16:
			s >>= depth - 16
		}
		samples[i] = clamp16(s)
	}
	return pcm{samples: samples, sampleRate: int(dec.SampleRate), channels: int(dec.NumChans)}, nil
}

func decodeOGG(r io.Reader) (pcm, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return pcm{}, err
	}
	samples := make([]int16, len(data))
	for i, s := range data {
		samples[i] = clamp16(int(max(min(s, 1), -1) * 32767))
	}
	return pcm{samples: samples, sampleRate: format.SampleRate, channels: format.Channels}, nil
}

func decodeFLAC(r io.Reader) (pcm, error) {
	stream, err := flac.New(r)
	if err != nil {
		return pcm{}, err
	}
	defer stream.Close()

	info := stream.Info
	channels, bps := int(info.NChannels), int(info.BitsPerSample)
	samples := make([]int16, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, err
		}
		n := int(frame.Subframes[0].NSamples)
		for i := range n {
			for ch := range channels {
				s := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					s >>= bps - 16
				case bps < 16:
					s <<= 16 - bps
				}
				samples = append(samples, clamp16(s))
			}
		}
	}
	return pcm{samples: samples, sampleRate: int(info.SampleRate), channels: channels}, nil
}

func clamp16(s int) int16 {
	return int16(min(max(s, -32768), 32767))
}

// toStereo resamples p to rate Hz stereo by linear interpolation. Extra
// channels past the second are dropped and mono is duplicated.
func toStereo(p pcm, rate int) []int16 {
	frames := len(p.samples) / p.channels
	if frames == 0 {
		return nil
	}
	at := func(frame, ch int) float64 {
		frame = min(frame, frames-1)
		ch = min(ch, p.channels-1)
		return float64(p.samples[frame*p.channels+ch])
	}
	if p.sampleRate == rate && p.channels == 2 {
		return p.samples[:frames*2]
	}

	outFrames := int(int64(frames) * int64(rate) / int64(p.sampleRate))
	out := make([]int16, outFrames*2)
	step := float64(p.sampleRate) / float64(rate)
	for i := range outFrames {
		pos := float64(i) * step
		f := int(pos)
		frac := pos - float64(f)
		for ch := range 2 {
			v := at(f, ch)*(1-frac) + at(f+1, ch)*frac
			out[i*2+ch] = clamp16(int(v))
		}
	}
	return out
}
