package dashboard

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/types"
)

// DefaultPreset applies when neither dates nor a preset are given.
const DefaultPreset = "7d"

var presetDays = map[string]int{
	"today": 1,
	"3d":    3,
	"7d":    7,
	"30d":   30,
	"90d":   90,
	"182d":  182,
	"365d":  365,
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start types.Date
	End   types.Date
}

// Days counts the calendar days in the range, both ends included.
func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start.Time).Hours()/24) + 1
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d types.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// ResolveRange builds the range from explicit dates or a preset ending on the
// current UTC day. Explicit dates take precedence and must come as a pair.
func ResolveRange(start, end, preset string, now time.Time, maxDays int) (Range, error) {
	start, end, preset = strings.TrimSpace(start), strings.TrimSpace(end), strings.TrimSpace(preset)

	var r Range
	if start != "" || end != "" {
		if start == "" || end == "" {
			return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "start and end must be provided together")
		}
		from, err := types.ParseDate(start)
		if err != nil {
			return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "Please pick valid dates")
		}
		to, err := types.ParseDate(end)
		if err != nil {
			return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "Please pick valid dates")
		}
		r = Range{Start: from, End: to}
	} else {
		if preset == "" {
			preset = DefaultPreset
		}
		days, ok := presetDays[strings.ToLower(preset)]
		if !ok {
			return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid preset")
		}
		today := types.NewDate(now.UTC())
		r = Range{Start: today.AddDays(-(days - 1)), End: today}
	}

	if r.Start.After(r.End) {
		return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "Start date must be before end date")
	}
	if maxDays > 0 && r.Days() > maxDays {
		return Range{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Please limit the range to %d days", maxDays)).
			WithDetails(map[string]any{"days": r.Days(), "max_days": maxDays})
	}
	return r, nil
}
