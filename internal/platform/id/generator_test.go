package id

import (
	"strings"
	"testing"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()
	a, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	b, _ := g.NewID()
	if a == b {
		t.Fatalf("expected unique ids, got %s twice", a)
	}
	if !IsUUID(a) {
		t.Fatalf("expected uuid, got %q", a)
	}
}

func TestNewToken_URLSafeAndHashed(t *testing.T) {
	token, err := NewToken(32)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("token %q is not url-safe", token)
	}
	if len(token) != 43 {
		t.Fatalf("token length = %d, want 43", len(token))
	}

	hash := HashToken(token)
	if len(hash) != 64 || hash == token {
		t.Fatalf("unexpected hash %q", hash)
	}
	if HashToken(token) != hash {
		t.Fatalf("hash is not deterministic")
	}
}
