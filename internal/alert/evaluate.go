// Package alert detects alert conditions on refreshed payloads, with a
// per-condition cooldown so one noisy condition cannot silence another.
package alert

import (
	"fmt"
	"time"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// EventKind classifies a fired alert condition.
type EventKind string

const (
	EventStatusChange   EventKind = "status_change"
	EventUpperThreshold EventKind = "upper_threshold"
	EventLowerThreshold EventKind = "lower_threshold"
)

// Event is a single fired condition. ConditionKey identifies the condition
// for cooldown tracking: "status_change:<from>-><to>", "threshold:upper", or
// "threshold:lower".
type Event struct {
	Kind         EventKind
	ConditionKey string
	Message      string
	From         string
	To           string
	Value        float64
	Threshold    float64
}

// Evaluate inspects one refreshed payload against the card's alert config
// and prior state. It is pure: the next state is always returned, even when
// nothing fires, because last_status_state and the trigger timestamps must
// persist across refresh cycles.
func Evaluate(cardType model.CardType, payload *model.Payload, cfg *model.CardAlertConfig, prior model.CardAlertState, now time.Time) ([]Event, model.CardAlertState) {
	next := prior.Clone()
	if payload == nil {
		return nil, next
	}

	var events []Event

	if cardType == model.CardTypeStatus && payload.Status != nil {
		from := prior.LastStatusState
		to := string(payload.Status.State)

		if cfg != nil && cfg.Enabled && cfg.StatusChangeEnabled && from != nil && *from != to {
			key := fmt.Sprintf("status_change:%s->%s", *from, to)
			if cooldownElapsed(&next, key, cfg, now) {
				events = append(events, Event{
					Kind:         EventStatusChange,
					ConditionKey: key,
					Message:      fmt.Sprintf("%s: %s -> %s", payload.Status.Label, *from, to),
					From:         *from,
					To:           to,
				})
				markTriggered(&next, key, now)
			}
		}
		// Recorded unconditionally so the next transition is detectable.
		next.LastStatusState = &to
	}

	if cfg != nil && cfg.Enabled && (cardType == model.CardTypeScalar || cardType == model.CardTypeGauge) {
		if value, ok := payload.NumericValue(); ok {
			if cfg.UpperThreshold != nil && value >= *cfg.UpperThreshold {
				const key = "threshold:upper"
				if cooldownElapsed(&next, key, cfg, now) {
					events = append(events, Event{
						Kind:         EventUpperThreshold,
						ConditionKey: key,
						Message:      fmt.Sprintf("value %.4g reached upper threshold %.4g", value, *cfg.UpperThreshold),
						Value:        value,
						Threshold:    *cfg.UpperThreshold,
					})
					markTriggered(&next, key, now)
				}
			}
			if cfg.LowerThreshold != nil && value <= *cfg.LowerThreshold {
				const key = "threshold:lower"
				if cooldownElapsed(&next, key, cfg, now) {
					events = append(events, Event{
						Kind:         EventLowerThreshold,
						ConditionKey: key,
						Message:      fmt.Sprintf("value %.4g reached lower threshold %.4g", value, *cfg.LowerThreshold),
						Value:        value,
						Threshold:    *cfg.LowerThreshold,
					})
					markTriggered(&next, key, now)
				}
			}
		}
	}

	return events, next
}

// cooldownElapsed is strictly per condition key: one condition triggering
// never suppresses a different one.
func cooldownElapsed(state *model.CardAlertState, key string, cfg *model.CardAlertConfig, now time.Time) bool {
	last, ok := state.LastTriggeredAt[key]
	if !ok {
		return true
	}
	cooldownMs := int64(cfg.CooldownSec) * 1000
	return now.UnixMilli()-last >= cooldownMs
}

func markTriggered(state *model.CardAlertState, key string, now time.Time) {
	if state.LastTriggeredAt == nil {
		state.LastTriggeredAt = make(map[string]int64)
	}
	state.LastTriggeredAt[key] = now.UnixMilli()
}
