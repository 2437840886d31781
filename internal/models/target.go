package models

import (
	"fmt"
	"time"
)

// TargetKind selects how a target changes the flexi calculation.
type TargetKind string

const (
	// TargetDayIgnore keeps the day's worked time but drops its delta from the balance.
	TargetDayIgnore TargetKind = "day_ignore"
	// TargetDaySet overrides the day's target; 0 makes it a free day.
	TargetDaySet TargetKind = "day_set"
	// TargetDayGrant raises a completed day's worked time to its normal target.
	TargetDayGrant TargetKind = "day_grant"
	// TargetFlexiSet resets the running balance to the value.
	TargetFlexiSet TargetKind = "flexi_set"
	// TargetFlexiAdd adds the value to the running balance.
	TargetFlexiAdd TargetKind = "flexi_add"
)

// IsDayTarget is true for the kinds bound to a single date.
func (k TargetKind) IsDayTarget() bool {
	switch k {
	case TargetDayIgnore, TargetDaySet, TargetDayGrant:
		return true
	}
	return false
}

// ParseTargetKind validates a kind name.
func ParseTargetKind(s string) (TargetKind, error) {
	switch k := TargetKind(s); k {
	case TargetDayIgnore, TargetDaySet, TargetDayGrant, TargetFlexiSet, TargetFlexiAdd:
		return k, nil
	}
	return "", fmt.Errorf("unknown target kind %q", s)
}

// Target is a per-day override or a balance adjustment.
type Target struct {
	ID string `json:"id"`
	// Date is midnight of the day the target applies to; nil for dateless flexi targets.
	Date     *time.Time `json:"date,omitempty"`
	Kind     TargetKind `json:"kind"`
	ValueMin int        `json:"value_min"`
	Comment  string     `json:"comment,omitempty"`
}
