package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/evcon/evcon/internal/dao"
)

var unitScales = map[string]float64{
	"":  1,
	"k": 1_000,
	"M": 1_000_000,
}

// Unit converts a measure between prefixed units, e.g. W to kW or Wh to kWh.
func Unit(v float64, from, to string) string {
	src, dst := scaleOf(from), scaleOf(to)
	if src == 0 || dst == 0 {
		return fmt.Sprintf("%s %s", strconv.FormatFloat(v, 'f', -1, 64), from)
	}

	return fmt.Sprintf("%.2f %s", v*src/dst, to)
}

func scaleOf(unit string) float64 {
	for _, base := range []string{"Wh", "W"} {
		if prefix, ok := strings.CutSuffix(unit, base); ok {
			return unitScales[prefix]
		}
	}
	return 0
}

// Duration renders a number of seconds like 1d 2h 5m. Seconds are only shown
// under one hour.
func Duration(secs int) string {
	if secs <= 0 {
		return "0s"
	}
	d := time.Duration(secs) * time.Second
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if days > 0 || hours > 0 || minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if days == 0 && hours == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}

	return strings.Join(parts, " ")
}

// Since renders the time elapsed from t to now.
func Since(t, now time.Time) string {
	if t.IsZero() {
		return UnknownValue
	}
	return Duration(int(now.Sub(t).Seconds()))
}

// Inactivity thresholds, in percent of the session duration.
const (
	InactivityWarning = 30
	InactivityError   = 60
)

// Inactivity renders the idle time of a session with its share of the
// session duration, e.g. 12m 0s (40%).
func Inactivity(inactive, total int) string {
	if total <= 0 {
		return Duration(inactive)
	}

	return fmt.Sprintf("%s (%d%%)", Duration(inactive), inactive*100/total)
}

// Date renders a timestamp in local time.
func Date(t time.Time) string {
	if t.IsZero() {
		return MissingValue
	}
	return t.Local().Format(DateFormat)
}

// DatePtr renders an optional timestamp.
func DatePtr(t *time.Time) string {
	if t == nil {
		return MissingValue
	}
	return Date(*t)
}

// BatteryPercentage renders a state of charge, with the variation since the
// start of the session when it is known.
func BatteryPercentage(start, current float64) string {
	cur := int(math.Round(current))
	if start <= 0 {
		return fmt.Sprintf("%d%%", cur)
	}
	st := int(math.Round(start))

	return fmt.Sprintf("%d%% > %d%% (%+d%%)", st, cur, cur-st)
}

// UserName renders a user as "Name FirstName".
func UserName(u *dao.User) string {
	if u == nil {
		return MissingValue
	}
	return NA(JoinStrings(" ", u.Name, u.FirstName))
}

// TokenStatus renders the state of a registration token.
func TokenStatus(s dao.TokenStatus) string {
	switch s {
	case dao.TokenExpired:
		return "Expired"
	case dao.TokenRevoked:
		return "Revoked"
	default:
		return "Valid"
	}
}

// Missing returns MissingValue if string is empty
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// NA returns NAValue if string is empty
func NA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}

// BoolToYesNo converts bool to Yes/No string
func BoolToYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Truncate truncates a string to max length
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// JoinStrings joins strings with separator, skipping empty ones
func JoinStrings(sep string, ss ...string) string {
	var parts []string
	for _, s := range ss {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// AsCount formats a count (0 shows as "0")
func AsCount(n int) string {
	return strconv.Itoa(n)
}
