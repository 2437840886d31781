// Package timevalue holds the signed minute durations used by every calculation.
package timevalue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/errors"
)

// TimeValue is a signed duration with minute precision.
type TimeValue int

// Zero is the empty duration.
const Zero TimeValue = 0

// New builds a value from an hours and minutes pair. A negative sign on either
// part negates the whole value, so New(-2, 15) is -2:15.
func New(hours, minutes int) TimeValue {
	neg := hours < 0 || minutes < 0
	total := abs(hours)*60 + abs(minutes)
	if neg {
		total = -total
	}
	return TimeValue(total)
}

// FromMinutes wraps a minute count.
func FromMinutes(m int) TimeValue {
	return TimeValue(m)
}

// FromDuration truncates d to whole minutes.
func FromDuration(d time.Duration) TimeValue {
	return TimeValue(d / time.Minute)
}

// Clamp converts a 64-bit accumulator into a value, saturating at the 32-bit
// limits. The second result reports whether clamping happened.
func Clamp(minutes int64) (TimeValue, bool) {
	switch {
	case minutes > constants.MaxMinutes:
		return TimeValue(constants.MaxMinutes), true
	case minutes < math.MinInt32:
		return TimeValue(math.MinInt32), true
	}
	return TimeValue(minutes), false
}

func (v TimeValue) Minutes() int { return int(v) }

func (v TimeValue) Duration() time.Duration { return time.Duration(v) * time.Minute }

// HoursPart returns the unsigned whole-hours component.
func (v TimeValue) HoursPart() int { return abs(int(v)) / 60 }

// MinutesPart returns the unsigned minutes component (0-59).
func (v TimeValue) MinutesPart() int { return abs(int(v)) % 60 }

func (v TimeValue) Add(o TimeValue) TimeValue { return v + o }

func (v TimeValue) Sub(o TimeValue) TimeValue { return v - o }

func (v TimeValue) Neg() TimeValue { return -v }

func (v TimeValue) IsNegative() bool { return v < 0 }

func (v TimeValue) Abs() TimeValue {
	if v < 0 {
		return -v
	}
	return v
}

// Max returns the larger of v and o.
func (v TimeValue) Max(o TimeValue) TimeValue {
	if o > v {
		return o
	}
	return v
}

// String formats as [-]H:MM.
func (v TimeValue) String() string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d:%02d", sign, v.HoursPart(), v.MinutesPart())
}

// Signed formats like String but always carries a sign, which reads better for balances.
func (v TimeValue) Signed() string {
	if v >= 0 {
		return "+" + v.String()
	}
	return v.String()
}

// Decimal formats as decimal hours with two places, e.g. "7.50".
func (v TimeValue) Decimal() string {
	return strconv.FormatFloat(float64(v)/60, 'f', 2, 64)
}

// Parse reads "H:MM", "H.MM", "H" or any of those with a leading sign.
// The minutes part, when present, must be 0-59.
func Parse(s string) (TimeValue, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return Zero, errors.Invalid("empty duration")
	}

	neg := false
	switch in[0] {
	case '-':
		neg = true
		in = in[1:]
	case '+':
		in = in[1:]
	}

	hoursStr, minutesStr := in, ""
	if i := strings.IndexAny(in, ":."); i >= 0 {
		hoursStr, minutesStr = in[:i], in[i+1:]
	}

	hours, err := strconv.Atoi(strings.TrimSpace(hoursStr))
	if err != nil || hours < 0 {
		return Zero, errors.Invalid("malformed duration %q", s)
	}
	minutes := 0
	if minutesStr != "" {
		minutes, err = strconv.Atoi(strings.TrimSpace(minutesStr))
		if err != nil || minutes < 0 || minutes > 59 {
			return Zero, errors.Invalid("malformed duration %q", s)
		}
	}
	if hours > constants.MaxMinutes/60 {
		return Zero, errors.Invalid("duration %q out of range", s)
	}

	total := TimeValue(hours*60 + minutes)
	if neg {
		total = -total
	}
	return total, nil
}

// MustParse is Parse for constants known to be valid.
func MustParse(s string) TimeValue {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Sum adds values, clamping on overflow.
func Sum(values ...TimeValue) (TimeValue, bool) {
	var total int64
	for _, v := range values {
		total += int64(v)
	}
	return Clamp(total)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
