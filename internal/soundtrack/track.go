// Package soundtrack turns an audio file into a loudness envelope that kicks
// the animation's turbulence, and optionally plays it.
package soundtrack

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	bytesPerSec  = sampleRate * channelCount * bitDepth
)

// Track is a decoded soundtrack: 44.1 kHz stereo PCM and its envelope.
type Track struct {
	Title    string
	PCM      []int16
	Envelope *Envelope
}

// Open decodes the file at path and computes its envelope.
func Open(path string) (*Track, error) {
	p, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return &Track{
		Title:    readTitle(path),
		PCM:      toStereo(p, sampleRate),
		Envelope: NewEnvelope(p.samples, p.sampleRate, p.channels),
	}, nil
}

// Duration returns the playback length.
func (t *Track) Duration() time.Duration {
	frames := len(t.PCM) / channelCount
	return time.Duration(frames) * time.Second / sampleRate
}

// readTitle reads the ID3v2 title of mp3 files, falling back to the file
// name without extension.
func readTitle(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err == nil {
			defer tag.Close()
			if title := strings.TrimSpace(tag.Title()); title != "" {
				if artist := strings.TrimSpace(tag.Artist()); artist != "" {
					return artist + " - " + title
				}
				return title
			}
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
