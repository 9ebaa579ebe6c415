package speech

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Compile-time interface check.
var _ domain.SpeechProvider = (*Announcer)(nil)

// Announcer speaks short lines one at a time: queue -> synthesize (cached)
// -> play. Urgent lines jump the queue and drop pending normal ones.
type Announcer struct {
	tts    Synthesizer
	player Playback
	cache  *AudioCache
	log    *logger.Logger

	mu       sync.Mutex
	queue    []request
	speaking bool
	wake     chan struct{}
}

type request struct {
	text     string
	priority Priority
}

// NewAnnouncer creates an announcer. cacheDir may be empty for a
// memory-only cache.
func NewAnnouncer(tts Synthesizer, player Playback, cacheDir string, log *logger.Logger) *Announcer {
	return &Announcer{
		tts:    tts,
		player: player,
		cache:  NewAudioCache(tts.Voice(), cacheDir, log),
		log:    log,
		wake:   make(chan struct{}, 1),
	}
}

// Speak queues text at normal priority. Never blocks on audio.
func (a *Announcer) Speak(_ context.Context, text string) error {
	a.Say(text, PriorityNormal)
	return nil
}

// Say queues text at the given priority.
func (a *Announcer) Say(text string, p Priority) {
	if text == "" {
		return
	}

	a.mu.Lock()
	if p == PriorityUrgent {
		kept := a.queue[:0]
		for _, r := range a.queue {
			if r.priority == PriorityUrgent {
				kept = append(kept, r)
			}
		}
		a.queue = kept
	}
	a.queue = append(a.queue, request{text: text, priority: p})
	n := len(a.queue)
	a.mu.Unlock()

	a.log.Debug("announcer: queued (%s, queue_len=%d): %s", p, n, truncate(text, 60))
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Busy reports whether a line is playing or waiting.
func (a *Announcer) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speaking || len(a.queue) > 0
}

// Prefetch synthesizes lines into the cache in the background so the
// first announcement plays without a network round trip.
func (a *Announcer) Prefetch(ctx context.Context, lines ...string) {
	for _, line := range lines {
		if _, ok := a.cache.Get(line); ok {
			continue
		}
		go func(text string) {
			if _, err := a.synthesize(ctx, text); err != nil {
				a.log.Warn("announcer: prefetch failed: %v", err)
			}
		}(line)
	}
}

// Run processes the queue until ctx is cancelled. Call in a goroutine.
func (a *Announcer) Run(ctx context.Context) {
	a.log.Info("announcer started (voice=%s)", a.tts.Voice())
	for {
		select {
		case <-ctx.Done():
			a.log.Info("announcer stopped")
			return
		case <-a.wake:
		}

		for {
			r, ok := a.next()
			if !ok {
				break
			}
			a.speak(ctx, r)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// next pops the first urgent request, else the oldest.
func (a *Announcer) next() (request, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queue) == 0 {
		a.speaking = false
		return request{}, false
	}
	idx := 0
	for i, r := range a.queue {
		if r.priority == PriorityUrgent {
			idx = i
			break
		}
	}
	r := a.queue[idx]
	a.queue = append(a.queue[:idx], a.queue[idx+1:]...)
	a.speaking = true
	return r, true
}

func (a *Announcer) speak(ctx context.Context, r request) {
	audio, err := a.synthesize(ctx, r.text)
	if err != nil {
		a.log.Error("announcer: synthesis failed: %v", err)
		return
	}
	if err := a.player.Play(ctx, audio); err != nil && ctx.Err() == nil {
		a.log.Error("announcer: playback failed: %v", err)
	}
}

func (a *Announcer) synthesize(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := a.cache.Get(text); ok {
		return audio, nil
	}
	audio, err := a.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	a.cache.Put(text, audio)
	return audio, nil
}

// truncate shortens a string for logging.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
