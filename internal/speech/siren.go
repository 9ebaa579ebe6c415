package speech

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Compile-time interface check.
var _ domain.Sounder = (*Siren)(nil)

// SirenOption configures the Siren.
type SirenOption func(*Siren)

// WithSound replaces the generated alarm tone.
func WithSound(wav []byte) SirenOption {
	return func(s *Siren) {
		s.sound = wav
	}
}

// WithRepeatGap sets the pause between repetitions of the alarm clip.
func WithRepeatGap(d time.Duration) SirenOption {
	return func(s *Siren) {
		s.gap = d
	}
}

// Siren loops the alarm sound until stopped.
type Siren struct {
	player Playback
	log    *logger.Logger
	sound  []byte
	gap    time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	playing bool

	held       bool               // muted while the microphone records
	clipCancel context.CancelFunc // interrupts the clip in flight
	wake       chan struct{}
}

// NewSiren creates a siren playing through player.
func NewSiren(player Playback, log *logger.Logger, opts ...SirenOption) *Siren {
	s := &Siren{
		player: player,
		log:    log,
		sound:  AlarmTone(),
		gap:    200 * time.Millisecond,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadSound reads a custom alarm file and checks that the player can play
// it. The error wraps domain.ErrUnsupportedWAV for a wrong sample layout.
func LoadSound(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := decodeWAV(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Start begins looping the alarm. No-op when already ringing.
func (s *Siren) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.playing = true
	go s.loop(ctx, s.done)

	s.log.Debug("siren: started")
}

// Stop silences the alarm. No-op when silent. Does not wait for the audio
// device to drain.
func (s *Siren) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}

	s.cancel()
	s.playing = false
	s.log.Debug("siren: stopped")
}

// Ringing reports whether the alarm loop is active.
func (s *Siren) Ringing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Hold mutes the alarm without stopping it: the clip in flight is cut and
// no new one starts until Release. Ringing is unaffected.
func (s *Siren) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held = true
	if s.clipCancel != nil {
		s.clipCancel()
	}
}

// Release lets a held alarm play again.
func (s *Siren) Release() {
	s.mu.Lock()
	s.held = false
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Held reports whether the alarm is muted by Hold.
func (s *Siren) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// Wait blocks until the most recent loop goroutine has exited.
func (s *Siren) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Siren) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		clipCtx, ok := s.nextClip(ctx)
		if !ok {
			return
		}
		err := s.player.Play(clipCtx, s.sound)
		interrupted := clipCtx.Err() != nil
		s.endClip()
		if err != nil && !interrupted {
			s.log.Error("siren: playback failed: %v", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.gap):
		}
	}
}

// nextClip waits out any Hold and returns the context for the next clip.
// It reports false once ctx is done.
func (s *Siren) nextClip(ctx context.Context) (context.Context, bool) {
	for {
		s.mu.Lock()
		if !s.held {
			clipCtx, cancel := context.WithCancel(ctx)
			s.clipCancel = cancel
			s.mu.Unlock()
			return clipCtx, true
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, false
		case <-s.wake:
		}
	}
}

func (s *Siren) endClip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clipCancel != nil {
		s.clipCancel()
		s.clipCancel = nil
	}
}
