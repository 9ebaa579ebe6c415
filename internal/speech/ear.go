package speech

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Default wake phrases. A transcription must contain one of them before
// the rest of it is treated as a command.
var defaultWakeWords = []string{"hey timer", "otto timer", "timer", "otto"}

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithRecordDuration sets how long each recorded chunk lasts.
func WithRecordDuration(d time.Duration) EarOption {
	return func(e *Ear) { e.recordDuration = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// WithWakeWords overrides the wake phrases. No words means every
// transcription is a command.
func WithWakeWords(words ...string) EarOption {
	return func(e *Ear) { e.wakeWords = words }
}

// WithBusy suppresses recording while fn reports true, so an announcement
// is not transcribed back as a command.
func WithBusy(fn func() bool) EarOption {
	return func(e *Ear) { e.busy = fn }
}

// Muter is a sound that can be paused while a chunk is recorded.
type Muter interface {
	Hold()
	Release()
}

// WithMute holds m for the length of every recorded chunk, so a command
// can be spoken over a ringing alarm.
func WithMute(m Muter) EarOption {
	return func(e *Ear) { e.mute = m }
}

// Ear turns speech into command text using a local whisper model.
// After a bare wake phrase the next utterance is taken as the command.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger

	wakeWords      []string
	recordDuration time.Duration
	busy           func() bool
	mute           Muter

	// transcribe records for d and returns the raw text.
	transcribe func(ctx context.Context, d time.Duration) string

	mu     sync.Mutex
	armed  bool // wake phrase heard, command pending
	textCh chan string
}

// NewEar creates a voice input listener.
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin:     whisperBin,
		modelPath:      modelPath,
		tempDir:        ".ottotimer-stt",
		log:            log,
		wakeWords:      defaultWakeWords,
		recordDuration: 3 * time.Second,
		textCh:         make(chan string, 8),
	}
	e.transcribe = e.recordChunk
	for _, opt := range opts {
		opt(e)
	}

	if _, err := exec.LookPath(e.whisperBin); err != nil {
		log.Error("ear: whisper binary %q not found in PATH: %v", e.whisperBin, err)
	}
	return e
}

// C returns the channel that receives command text.
func (e *Ear) C() <-chan string {
	return e.textCh
}

// Run records and transcribes until ctx is cancelled. Call in a goroutine.
func (e *Ear) Run(ctx context.Context) {
	e.log.Info("ear: started (chunk=%s, wake=%v)", e.recordDuration, e.wakeWords)
	for {
		select {
		case <-ctx.Done():
			e.log.Info("ear: stopped")
			return
		default:
		}

		if e.busy != nil && e.busy() {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
			}
			continue
		}

		text := e.record(ctx)
		if e.busy != nil && e.busy() {
			e.log.Debug("ear: discarding chunk recorded over playback")
			continue
		}
		if cmd, ok := e.handle(text); ok {
			e.log.Info("ear: heard command %q", cmd)
			select {
			case e.textCh <- cmd:
			case <-ctx.Done():
			}
		}
	}
}

// record transcribes one chunk with the muter held.
func (e *Ear) record(ctx context.Context) string {
	if e.mute != nil {
		e.mute.Hold()
		defer e.mute.Release()
	}
	return e.transcribe(ctx, e.recordDuration)
}

// handle cleans one transcription and returns the command it carries.
func (e *Ear) handle(raw string) (string, bool) {
	text := cleanTranscription(raw)
	if text == "" {
		return "", false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.wakeWords) == 0 {
		return text, true
	}

	rest, woke := stripWakeWord(text, e.wakeWords)
	switch {
	case woke && rest != "":
		e.armed = false
		return rest, true
	case woke:
		e.armed = true
		e.log.Debug("ear: wake phrase heard, waiting for command")
		return "", false
	case e.armed:
		e.armed = false
		return text, true
	default:
		return "", false
	}
}

// stripWakeWord reports whether text contains a wake phrase and returns
// the text with the phrase removed, so both "hey timer, start" and
// "stop the timer" yield a command.
func stripWakeWord(text string, words []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range words {
		idx := strings.Index(lower, strings.ToLower(w))
		if idx < 0 {
			continue
		}
		rest := strings.Trim(text[:idx], " ,.!?\t") + " " + strings.Trim(text[idx+len(w):], " ,.!?\t")
		rest = strings.TrimSuffix(strings.TrimSpace(rest), " the")
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// recordChunk records for d through whisper and returns the transcription.
func (e *Ear) recordChunk(ctx context.Context, d time.Duration) string {
	var (
		result string
		wg     sync.WaitGroup
	)
	wg.Add(1)
	callback := func(text string) {
		result = text
		wg.Done()
	}

	t, err := audiotranscriber.NewTranscriber(
		e.whisperBin,
		e.modelPath,
		e.tempDir,
		"wav",
		callback,
		e.log.GetLevel() >= logger.LevelVerbose,
	)
	if err != nil {
		e.log.Error("ear: transcriber init failed: %v", err)
		sleepCtx(ctx, 2*time.Second)
		return ""
	}
	if err := t.Start(); err != nil {
		e.log.Error("ear: recording start failed: %v", err)
		sleepCtx(ctx, 2*time.Second)
		return ""
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
	t.Stop()
	wg.Wait()
	return result
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// ── Transcription cleanup ────────────────────────────────────────

// annotation matches whisper's environmental notes like "(keyboard
// clicking)", "[BLANK_AUDIO]" or "[Music]".
var annotation = regexp.MustCompile(`[\(\[][A-Za-z][A-Za-z_\s]*[\)\]]`)

// timestamp matches a leading "[00:00:00.000 --> 00:00:05.000]".
var timestamp = regexp.MustCompile(`^\[[0-9:.\s\->]+\]\s*`)

// Common whisper hallucinations on silence.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
	"the end.":                true,
}

// cleanTranscription normalizes whitespace and removes whisper artifacts.
func cleanTranscription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = timestamp.ReplaceAllString(s, "")
	s = annotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}
