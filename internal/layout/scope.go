// Package layout implements card placement: collision-free positioning,
// directional move semantics, and column reflow, per layout scope.
package layout

import (
	"strings"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// ScopeAll is the global view in which every visible card is arranged.
// Each group additionally owns an independent scope, "group:<name>".
const ScopeAll = "all"

const groupScopePrefix = "group:"

func GroupScope(name string) string {
	return groupScopePrefix + name
}

// ScopeGroupName returns the group a scope belongs to, or false for the
// "all" scope.
func ScopeGroupName(scope string) (string, bool) {
	if strings.HasPrefix(scope, groupScopePrefix) {
		return scope[len(groupScopePrefix):], true
	}
	return "", false
}

// InScope reports whether a card participates in the given scope's layout.
func InScope(c *model.Card, scope string) bool {
	if !c.Visible() {
		return false
	}
	if name, ok := ScopeGroupName(scope); ok {
		return c.Group == name
	}
	return true
}

// PositionOf resolves a card's position in a scope. A group scope without an
// explicit entry inherits the card's global position; the "all" scope itself
// falls back to the legacy ui_config.x/y mirror.
func PositionOf(c *model.Card, scope string) model.Position {
	if pos, ok := c.LayoutPositions[scope]; ok {
		return pos
	}
	if _, isGroup := ScopeGroupName(scope); isGroup {
		if pos, ok := c.LayoutPositions[ScopeAll]; ok {
			return pos
		}
	}
	return model.Position{X: c.UIConfig.X, Y: c.UIConfig.Y}
}

// SetPosition records a card's position in a scope. An "all"-scope write
// always updates the legacy x/y mirror; a group-scope write never does.
func SetPosition(c *model.Card, scope string, pos model.Position) {
	if c.LayoutPositions == nil {
		c.LayoutPositions = make(map[string]model.Position)
	}
	c.LayoutPositions[scope] = pos
	if scope == ScopeAll {
		c.UIConfig.X = pos.X
		c.UIConfig.Y = pos.Y
	}
}
