package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ReservedGroupName is the sentinel "all cards" view. It is never a real group.
const ReservedGroupName = "All"

// GroupEntity is a named tab of cards. IDs follow the pattern G<n> and are
// allocated monotonically; they are never reused while any group exists.
type GroupEntity struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Order int    `yaml:"order"`
}

// SectionMarker is a visual divider inside one group's layout.
type SectionMarker struct {
	ID       string `yaml:"id"`
	Group    string `yaml:"group"`
	Title    string `yaml:"title,omitempty"`
	AfterRow int    `yaml:"after_row"`
	StartCol int    `yaml:"start_col"`
	SpanCol  int    `yaml:"span_col"`
}

// IsReservedGroupName reports whether name collides with the sentinel view,
// case-insensitively.
func IsReservedGroupName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), ReservedGroupName)
}

// ParseGroupID extracts the numeric suffix of a G<n> group id.
func ParseGroupID(id string) (int, error) {
	if !strings.HasPrefix(id, "G") {
		return 0, fmt.Errorf("invalid group id: %s", id)
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid group id: %s", id)
	}
	return n, nil
}

// FormatGroupID renders a numeric group sequence as a G<n> id.
func FormatGroupID(n int) string {
	return fmt.Sprintf("G%d", n)
}

// NextGroupID returns the next unallocated G<n> id given the existing groups.
func NextGroupID(groups []GroupEntity) string {
	max := 0
	for _, g := range groups {
		if n, err := ParseGroupID(g.ID); err == nil && n > max {
			max = n
		}
	}
	return FormatGroupID(max + 1)
}
