package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("txn")
	if !strings.HasPrefix(id, "txn-") {
		t.Errorf("expected txn- prefix, got %s", id)
	}
	if len(id) != len("txn-")+10 {
		t.Errorf("unexpected id length: %s", id)
	}
	if id == GenerateID("txn") {
		t.Error("expected distinct ids")
	}
}

func TestToday(t *testing.T) {
	today := Today()
	if _, err := time.Parse(TransactionDateLayout, today); err != nil {
		t.Errorf("today %q does not match layout: %v", today, err)
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" esp ", "ESP"},
		{"m-eur", "M-EUR"},
		{"USA", "USA"},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("securepass123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if !CheckPassword("securepass123", hash) {
		t.Error("expected password to match its hash")
	}
	if CheckPassword("otherpass", hash) {
		t.Error("expected mismatch for wrong password")
	}
}
