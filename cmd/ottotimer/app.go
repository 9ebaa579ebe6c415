package main

import (
	"context"
	"errors"
	"strings"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
	"github.com/hammamikhairi/ottotimer/internal/speech"
)

// classifier reads commands the keyword parser did not recognise.
type classifier interface {
	Classify(ctx context.Context, input string, state countdown.Snapshot) (*domain.Intent, error)
}

// screen is the part of the terminal UI the app writes to.
type screen interface {
	InputChan() <-chan string
	PrintInfo(text string)
	PrintHint(text string)
	PrintUrgent(text string)
	PrintVoice(text string)
}

type cliApp struct {
	engine    *countdown.Engine
	parser    domain.IntentParser
	ai        classifier        // nil when the AI fallback is disabled
	announcer *speech.Announcer // nil when TTS is disabled
	ear       *speech.Ear       // nil when voice input is disabled
	presets   []int
	log       *logger.Logger
	ui        screen
}

// say prints a line and queues it for speech.
func (a *cliApp) say(text string, priority speech.Priority) {
	a.ui.PrintInfo(text)
	if a.announcer != nil {
		a.announcer.Say(text, priority)
	}
}

func (a *cliApp) run(ctx context.Context) {
	a.say(speech.LineWelcome(), speech.PriorityNormal)

	// Receiving on a nil channel blocks forever, so without an ear only
	// the keyboard case fires.
	var voiceCh <-chan string
	if a.ear != nil {
		voiceCh = a.ear.C()
	}
	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		case input = <-voiceCh:
			a.ui.PrintVoice(input)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Warn("parsing %q: %v", input, err)
			a.ui.PrintUrgent(err.Error())
			continue
		}

		if intent.Type == domain.IntentUnknown {
			intent = a.classify(ctx, intent)
		}

		a.log.Debug("intent: %s (seconds=%d, payload=%q)", intent.Type, intent.Seconds, intent.Payload)
		if !a.handleIntent(intent) {
			return
		}
	}
}

// classify asks the AI what an unknown command means. Without an AI, or
// when it fails, the original intent comes back unchanged.
func (a *cliApp) classify(ctx context.Context, original *domain.Intent) *domain.Intent {
	if a.ai == nil || original.Payload == "" {
		return original
	}
	a.ui.PrintHint("Thinking...")

	classified, err := a.ai.Classify(ctx, original.Payload, a.engine.Snapshot())
	if err != nil {
		a.log.Error("AI classify failed: %v", err)
		return original
	}
	a.log.Info("classified %q -> %s", original.Payload, classified.Type)
	if classified.Type == domain.IntentUnknown {
		return original
	}
	return classified
}

// handleIntent applies one intent to the engine. It returns false when
// the app should exit.
func (a *cliApp) handleIntent(intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentStart:
		a.start()
	case domain.IntentStop:
		a.stop()
	case domain.IntentToggle:
		if a.engine.Toggle() {
			a.say(speech.LineStarted(a.engine.Snapshot()), speech.PriorityNormal)
		} else {
			a.say(speech.LineStopped(a.engine.Snapshot()), speech.PriorityUrgent)
		}
	case domain.IntentClear:
		a.engine.Clear()
		a.say(speech.LineCleared(), speech.PriorityNormal)
	case domain.IntentAddTime:
		a.engine.AddTime(intent.Seconds)
		a.say(speech.LineAdded(intent.Seconds, a.engine.Snapshot()), speech.PriorityNormal)
	case domain.IntentSetTime:
		a.set(intent.Seconds)
	case domain.IntentRename:
		a.engine.SetLabel(intent.Payload)
		a.say(speech.LineNamed(a.engine.Label()), speech.PriorityNormal)
	case domain.IntentStatus:
		a.say(speech.LineStatus(a.engine.Snapshot()), speech.PriorityUrgent)
	case domain.IntentHelp:
		a.ui.PrintHint(speech.LineHelp(a.presets))
	case domain.IntentQuit:
		a.say(speech.LineBye(), speech.PriorityUrgent)
		return false
	default:
		a.say(speech.LineUnknown(intent.Payload), speech.PriorityNormal)
	}
	return true
}

func (a *cliApp) start() {
	if a.engine.Running() {
		a.ui.PrintHint("Already running.")
		return
	}
	a.engine.Start()
	a.say(speech.LineStarted(a.engine.Snapshot()), speech.PriorityNormal)
}

func (a *cliApp) stop() {
	if !a.engine.Running() {
		a.ui.PrintHint("Not running.")
		return
	}
	a.engine.Stop()
	a.say(speech.LineStopped(a.engine.Snapshot()), speech.PriorityUrgent)
}

func (a *cliApp) set(seconds int) {
	err := a.engine.Set(seconds)
	switch {
	case errors.Is(err, domain.ErrRunning):
		a.say(speech.LineStopFirst(), speech.PriorityNormal)
	case err != nil:
		a.log.Error("setting timer: %v", err)
		a.ui.PrintUrgent(err.Error())
	default:
		a.say(speech.LineSet(a.engine.Snapshot()), speech.PriorityNormal)
	}
}
