package model

import "strings"

// statusAliases maps free-text states produced by scripts into the closed
// StatusState set. Unrecognized text becomes StatusUnknown.
var statusAliases = map[string]StatusState{
	"ok":          StatusOK,
	"okay":        StatusOK,
	"success":     StatusOK,
	"healthy":     StatusOK,
	"up":          StatusOK,
	"green":       StatusOK,
	"pass":        StatusOK,
	"passing":     StatusOK,
	"warning":     StatusWarning,
	"warn":        StatusWarning,
	"degraded":    StatusWarning,
	"yellow":      StatusWarning,
	"error":       StatusError,
	"err":         StatusError,
	"fail":        StatusError,
	"failed":      StatusError,
	"failure":     StatusError,
	"critical":    StatusError,
	"down":        StatusError,
	"red":         StatusError,
	"unknown":     StatusUnknown,
	"unavailable": StatusUnknown,
}

// AliasStatusState folds a script-reported state into the closed set.
func AliasStatusState(raw string) StatusState {
	if s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusUnknown
}

// StatusSeverity orders states for display: ok < unknown < warning < error.
func StatusSeverity(s StatusState) int {
	switch s {
	case StatusOK:
		return 0
	case StatusUnknown:
		return 1
	case StatusWarning:
		return 2
	case StatusError:
		return 3
	default:
		return 1
	}
}
