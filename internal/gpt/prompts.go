package gpt

// PromptClassify maps one free-form command onto the timer's intents.
// The model must answer with a single JSON object.
const PromptClassify = `You control a single countdown timer. Map the user's command to exactly one intent and answer with one JSON object, nothing else.

Schema: {"intent": "<intent>", "seconds": <integer>, "label": "<text>"}

Intents:
- "start", "stop", "toggle", "clear", "status", "help", "quit"
- "add_time": seconds to add; negative to take time off
- "set_time": seconds to set the timer to
- "rename": label is the new name, "" removes it
- "unknown": the command is not about the timer

Omit fields an intent does not use. No markdown fences.`
