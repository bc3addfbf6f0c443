package model

// StatusState is the closed set a status payload's free-text state is
// aliased into.
type StatusState string

const (
	StatusOK      StatusState = "ok"
	StatusWarning StatusState = "warning"
	StatusError   StatusState = "error"
	StatusUnknown StatusState = "unknown"
)

// Payload is the normalized, typed result of one successful script run.
// Exactly one variant field is set, matching Kind.
type Payload struct {
	Kind   CardType       `yaml:"kind"`
	Scalar *ScalarPayload `yaml:"scalar,omitempty"`
	Series *SeriesPayload `yaml:"series,omitempty"`
	Status *StatusPayload `yaml:"status,omitempty"`
	Gauge  *GaugePayload  `yaml:"gauge,omitempty"`
}

type ScalarPayload struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit,omitempty"`
	Label string  `yaml:"label,omitempty"`
}

type SeriesLine struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

type SeriesPayload struct {
	Axis   []string     `yaml:"axis"`
	Series []SeriesLine `yaml:"series"`
}

type StatusPayload struct {
	Label  string      `yaml:"label"`
	State  StatusState `yaml:"state"`
	Detail string      `yaml:"detail,omitempty"`
}

type GaugePayload struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit,omitempty"`
	Label string  `yaml:"label,omitempty"`
}

// NumericValue extracts the threshold-comparable value of a payload, if any.
func (p *Payload) NumericValue() (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch p.Kind {
	case CardTypeScalar:
		if p.Scalar != nil {
			return p.Scalar.Value, true
		}
	case CardTypeGauge:
		if p.Gauge != nil {
			return p.Gauge.Value, true
		}
	}
	return 0, false
}
