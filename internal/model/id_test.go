package model

import (
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	types := []IDType{IDTypeCard, IDTypeSection}
	prefixes := []string{"card", "sect"}

	for i, idType := range types {
		t.Run(string(idType), func(t *testing.T) {
			id, err := GenerateID(idType)
			if err != nil {
				t.Fatalf("GenerateID(%s) returned error: %v", idType, err)
			}
			if !ValidateID(id) {
				t.Errorf("generated ID %q does not match regex", id)
			}
			if id[:len(prefixes[i])] != prefixes[i] {
				t.Errorf("expected prefix %q, got %q", prefixes[i], id[:len(prefixes[i])])
			}
		})
	}
}

func TestGenerateID_InvalidType(t *testing.T) {
	_, err := GenerateID("invalid")
	if err == nil {
		t.Error("expected error for invalid ID type")
	}
}

func TestGenerateID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID(IDTypeCard)
		if err != nil {
			t.Fatalf("GenerateID returned error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"valid card", "card_1700000000_0a1b2c3d", true},
		{"valid section", "sect_1700000000_deadbeef", true},
		{"wrong prefix", "task_1700000000_0a1b2c3d", false},
		{"short timestamp", "card_170000000_0a1b2c3d", false},
		{"uppercase hex", "card_1700000000_DEADBEEF", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateID(tt.id); got != tt.valid {
				t.Errorf("ValidateID(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}

func TestParseIDType(t *testing.T) {
	idType, err := ParseIDType("card_1700000000_0a1b2c3d")
	if err != nil {
		t.Fatalf("ParseIDType returned error: %v", err)
	}
	if idType != IDTypeCard {
		t.Errorf("ParseIDType = %q, want %q", idType, IDTypeCard)
	}

	if _, err := ParseIDType("bogus"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestParseIDTimestamp(t *testing.T) {
	ts, err := ParseIDTimestamp("card_1700000000_0a1b2c3d")
	if err != nil {
		t.Fatalf("ParseIDTimestamp returned error: %v", err)
	}
	if !ts.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("ParseIDTimestamp = %v, want %v", ts, time.Unix(1700000000, 0))
	}
}
