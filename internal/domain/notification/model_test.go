package notification

import "testing"

func TestPollAfter(t *testing.T) {
	if PollAfter("background") != PollBackground {
		t.Fatalf("expected background interval")
	}
	if PollAfter("") != PollForeground || PollAfter("FOREGROUND") != PollForeground {
		t.Fatalf("expected foreground interval")
	}
}
