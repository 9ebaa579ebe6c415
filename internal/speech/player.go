package speech

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Playback plays a complete WAV clip. Play blocks until the clip ends, ctx
// is cancelled or Stop is called.
type Playback interface {
	Play(ctx context.Context, wav []byte) error
	Stop()
}

// Compile-time interface check.
var _ Playback = (*Player)(nil)

// Player handles audio playback of WAV data via oto. oto allows a single
// context per process, so one Player is shared by the alarm and the
// announcer; their clips are mixed.
type Player struct {
	ctx    *oto.Context
	log    *logger.Logger
	mu     sync.Mutex
	active map[*oto.Player]struct{}
}

// NewPlayer opens the system audio device.
// Returns an error if the audio device is unavailable.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	log.Debug("audio player initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log, active: make(map[*oto.Player]struct{})}, nil
}

// Play decodes and plays wav. Cancelling ctx pauses the clip and returns
// ctx.Err().
func (p *Player) Play(ctx context.Context, wav []byte) error {
	pcm, err := decodeWAV(wav)
	if err != nil {
		return err
	}

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	p.mu.Lock()
	p.active[player] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.active, player)
		p.mu.Unlock()
		player.Close()
	}()

	player.Play()
	p.log.Debug("audio player: playing %d bytes of PCM", len(pcm))

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-tick.C:
		}
	}
	return nil
}

// Stop interrupts every clip currently playing. Safe to call concurrently
// and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for player := range p.active {
		player.Pause()
	}
	if len(p.active) > 0 {
		p.log.Debug("audio player: interrupted %d clip(s)", len(p.active))
	}
}
