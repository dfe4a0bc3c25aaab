package invite

import (
	"testing"
	"time"
)

func TestInvite_StatusAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	inv := Invite{ExpiresAt: now.Add(time.Hour)}

	if got := inv.StatusAt(now); got != StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
	if got := inv.StatusAt(now.Add(time.Hour)); got != StatusExpired {
		t.Fatalf("expected expired at the deadline, got %s", got)
	}

	accepted := now
	inv.AcceptedAt = &accepted
	if got := inv.StatusAt(now.Add(48 * time.Hour)); got != StatusAccepted {
		t.Fatalf("accepted wins over expiry, got %s", got)
	}
}
