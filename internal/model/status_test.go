package model

import "testing"

func TestAliasStatusState(t *testing.T) {
	tests := []struct {
		raw  string
		want StatusState
	}{
		{"ok", StatusOK},
		{"OK", StatusOK},
		{"  Healthy ", StatusOK},
		{"pass", StatusOK},
		{"up", StatusOK},
		{"warn", StatusWarning},
		{"degraded", StatusWarning},
		{"error", StatusError},
		{"FAILED", StatusError},
		{"critical", StatusError},
		{"down", StatusError},
		{"unknown", StatusUnknown},
		{"", StatusUnknown},
		{"who knows", StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := AliasStatusState(tt.raw); got != tt.want {
				t.Errorf("AliasStatusState(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStatusSeverity(t *testing.T) {
	order := []StatusState{StatusOK, StatusUnknown, StatusWarning, StatusError}
	for i := 1; i < len(order); i++ {
		if StatusSeverity(order[i-1]) >= StatusSeverity(order[i]) {
			t.Errorf("expected severity(%q) < severity(%q)", order[i-1], order[i])
		}
	}
}
