package loyalty

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Rule document keys recognized by the engine. Unknown keys are ignored.
const (
	ruleMinAmount       = "min_amount"
	ruleFirstPurchase   = "is_first_purchase"
	ruleStartTime       = "start_time"
	ruleEndTime         = "end_time"
	ruleTimeOfDayLayout = "15:04"
)

// RuleSet is the parsed form of a campaign's rules document: a tagged union
// of the known rule kinds. Malformed or unknown fields are dropped rather
// than treated as errors, so a tenant typo in one rule cannot disable the
// whole campaign.
type RuleSet struct {
	MinAmount         *decimal.Decimal
	FirstPurchaseOnly bool
	Window            *TimeWindow
}

// TimeWindow restricts a campaign to a daily time-of-day window, inclusive
// on both ends.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the time-of-day of t falls within the window
func (w *TimeWindow) Contains(t time.Time) bool {
	tod := time.Date(0, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
	return !tod.Before(w.Start) && !tod.After(w.End)
}

// ParseRuleSet parses a rules JSON document defensively. An unparsable
// document yields an empty (always applicable) rule set. A malformed time
// window is non-blocking: the window restriction is dropped and the campaign
// stays eligible on its remaining rules.
func ParseRuleSet(raw string) RuleSet {
	var rs RuleSet
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return rs
	}

	if v, ok := doc[ruleMinAmount]; ok {
		if min, ok := parseDecimal(v); ok {
			rs.MinAmount = &min
		}
	}

	if v, ok := doc[ruleFirstPurchase]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err == nil && b {
			rs.FirstPurchaseOnly = true
		}
	}

	startRaw, hasStart := doc[ruleStartTime]
	endRaw, hasEnd := doc[ruleEndTime]
	if hasStart && hasEnd {
		if start, ok := parseTimeOfDay(startRaw); ok {
			if end, ok := parseTimeOfDay(endRaw); ok {
				rs.Window = &TimeWindow{Start: start, End: end}
			}
		}
	}

	return rs
}

// CustomerState is the per-customer input a rule evaluation needs
type CustomerState struct {
	HasTransactions bool
}

// Applicable evaluates the rule set against a purchase amount, the
// customer's state, and the current wall-clock time.
func (rs RuleSet) Applicable(money decimal.Decimal, state CustomerState, now time.Time) bool {
	if rs.MinAmount != nil && money.LessThan(*rs.MinAmount) {
		return false
	}
	if rs.FirstPurchaseOnly && state.HasTransactions {
		return false
	}
	if rs.Window != nil && !rs.Window.Contains(now) {
		return false
	}
	return true
}

// parseDecimal accepts either a JSON number or a numeric string
func parseDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		d, err := decimal.NewFromString(s)
		return d, err == nil
	}
	var f json.Number
	if err := json.Unmarshal(raw, &f); err == nil {
		d, err := decimal.NewFromString(f.String())
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// parseTimeOfDay parses an "HH:MM" string into a date-less time value
func parseTimeOfDay(raw json.RawMessage) (time.Time, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(ruleTimeOfDayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(0, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC), true
}
