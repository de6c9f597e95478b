package soundtrack

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.ReadSeeker
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

// loopReader restarts src at EOF.
type loopReader struct {
	src io.ReadSeeker
}

func (l *loopReader) Read(p []byte) (int, error) {
	n, err := l.src.Read(p)
	if err == io.EOF {
		if _, serr := l.src.Seek(0, io.SeekStart); serr != nil {
			return n, serr
		}
		if n == 0 {
			return l.src.Read(p)
		}
		return n, nil
	}
	return n, err
}

func (l *loopReader) Seek(offset int64, whence int) (int64, error) {
	return l.src.Seek(offset, whence)
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Player loops a track on the default audio device.
type Player struct {
	counter   *countingReader
	otoPlayer *oto.Player
	length    int64
	mu        sync.Mutex
	closed    bool
}

// Play starts looping t.
func Play(t *Track, volume float64) (*Player, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, err
	}

	raw := make([]byte, len(t.PCM)*bitDepth)
	for i, s := range t.PCM {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	cr := &countingReader{reader: &loopReader{src: bytes.NewReader(raw)}}

	p := &Player{counter: cr, length: int64(len(raw))}
	p.otoPlayer = ctx.NewPlayer(cr)
	p.otoPlayer.SetVolume(min(max(volume, 0), 1))
	p.otoPlayer.Play()
	return p, nil
}

// Position returns the audible playback position within the track. Bytes
// still queued in the device buffer are not counted.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.length == 0 {
		return 0
	}
	pos := p.counter.Pos() - int64(p.otoPlayer.BufferedSize())
	pos = max(pos, 0) % p.length
	secs := float64(pos) / float64(bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.otoPlayer.Pause()
	p.otoPlayer.Close()
}
