package domain

import "testing"

func TestIntentFromString(t *testing.T) {
	for i := IntentUnknown; i <= IntentQuit; i++ {
		if got := IntentFromString(i.String()); got != i {
			t.Errorf("IntentFromString(%q) = %s", i.String(), got)
		}
	}
	if got := IntentFromString("dance"); got != IntentUnknown {
		t.Errorf("expected unknown, got %s", got)
	}
}
