// Package speech is the audio side of the timer: an oto player, the
// generated alarm tone and looping Siren, Azure text-to-speech announcements
// and local whisper voice input.
package speech

// Default voice for announcements.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AvaNeural"

// Audio format requested from Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format. Generated tones and custom
// alarm files must use the same layout.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// Priority orders queued announcements. Urgent items jump the queue and
// drop anything still waiting at normal priority.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityUrgent
)

func (p Priority) String() string {
	if p == PriorityUrgent {
		return "urgent"
	}
	return "normal"
}
