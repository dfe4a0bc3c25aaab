package messaging

import "testing"

func TestConversation_Participants(t *testing.T) {
	c := Conversation{AgencyID: "agency-1", AthleteID: "athlete-1"}
	if !c.HasParticipant("agency-1") || !c.HasParticipant("athlete-1") {
		t.Fatalf("expected both users to be participants")
	}
	if c.HasParticipant("") || c.HasParticipant("parent-1") {
		t.Fatalf("unexpected participant")
	}
	if c.Counterpart("agency-1") != "athlete-1" || c.Counterpart("athlete-1") != "agency-1" {
		t.Fatalf("unexpected counterpart")
	}
}
