// Package model defines the data structures for the dashboard's cards, groups,
// layout, alerts, and persisted settings.
package model

// CardType identifies the payload shape a card's script must produce.
type CardType string

const (
	CardTypeScalar CardType = "scalar"
	CardTypeSeries CardType = "series"
	CardTypeStatus CardType = "status"
	CardTypeGauge  CardType = "gauge"
)

var validCardTypes = map[CardType]bool{
	CardTypeScalar: true,
	CardTypeSeries: true,
	CardTypeStatus: true,
	CardTypeGauge:  true,
}

func IsValidCardType(t CardType) bool {
	return validCardTypes[t]
}

// CardSize is the grid footprint token. The first axis is width, the second height.
type CardSize string

const (
	CardSize1x1 CardSize = "1x1"
	CardSize2x1 CardSize = "2x1"
	CardSize1x2 CardSize = "1x2"
	CardSize2x2 CardSize = "2x2"
)

var validCardSizes = map[CardSize]bool{
	CardSize1x1: true,
	CardSize2x1: true,
	CardSize1x2: true,
	CardSize2x2: true,
}

func IsValidCardSize(s CardSize) bool {
	return validCardSizes[s]
}

// Position is a grid cell coordinate within one layout scope.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// ScriptConfig describes the external script backing a card.
type ScriptConfig struct {
	Path            string   `yaml:"path"`
	Args            []string `yaml:"args,omitempty"`
	InterpreterPath string   `yaml:"interpreter_path,omitempty"`
	TimeoutMs       int      `yaml:"timeout_ms"`
}

// UIConfig carries presentation settings. X and Y mirror the "all"-scope
// position for backward compatibility and must stay in sync with it.
type UIConfig struct {
	Size CardSize `yaml:"size"`
	X    int      `yaml:"x"`
	Y    int      `yaml:"y"`
}

// CardRuntime is the last execution outcome kept for display. The last good
// payload survives later failures so the card never blanks on a bad refresh.
type CardRuntime struct {
	LastPayload *Payload `yaml:"last_payload,omitempty"`
	LastError   *string  `yaml:"last_error,omitempty"`
	LastRunAt   *string  `yaml:"last_run_at,omitempty"`
}

type Card struct {
	ID              string              `yaml:"id"`
	BusinessID      int                 `yaml:"business_id"`
	Title           string              `yaml:"title"`
	Group           string              `yaml:"group"`
	Type            CardType            `yaml:"type"`
	Script          ScriptConfig        `yaml:"script"`
	FieldMap        map[string]string   `yaml:"field_map,omitempty"`
	RefreshOnStart  bool                `yaml:"refresh_on_start"`
	RefreshOnResume bool                `yaml:"refresh_on_resume"`
	RefreshEverySec int                 `yaml:"refresh_every_sec,omitempty"`
	UIConfig        UIConfig            `yaml:"ui_config"`
	LayoutPositions map[string]Position `yaml:"layout_positions,omitempty"`
	SortOrder       int                 `yaml:"sort_order"`
	Deleted         bool                `yaml:"deleted,omitempty"`
	Alert           *CardAlertConfig    `yaml:"alert,omitempty"`
	Runtime         CardRuntime         `yaml:"runtime,omitempty"`
	CreatedAt       string              `yaml:"created_at"`
	UpdatedAt       string              `yaml:"updated_at"`
}

// Visible reports whether the card participates in layout and refresh.
func (c *Card) Visible() bool {
	return !c.Deleted
}
