package curves

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fanctl/amdfan/internal/util"
)

const (
	// Delimiter separates temperature and fan percentage on a curve line.
	Delimiter = "=>"

	MinDuty = 0
	MaxDuty = math.MaxUint8
)

// Entry is a single point of a fan curve.
type Entry struct {
	Temperature int16 `json:"temperature"`
	Duty        uint8 `json:"duty"`
}

// Table maps temperatures to PWM duty cycles by linear interpolation between its entries.
// Entries are sorted ascending by temperature and temperatures are unique.
// A Table is never modified after Build returns it.
type Table struct {
	entries []Entry
}

// Build parses one curve point per line in the form "<temperature> => <percentage>".
// The fan percentage is scaled to the duty range [0..255], truncating fractions and
// saturating at 255. If a temperature is given more than once, the last line wins.
func Build(lines []string) (*Table, error) {
	entries := make([]Entry, 0, len(lines))
	for idx, line := range lines {
		entry, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: idx + 1, Text: line, Err: err}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Temperature < entries[j].Temperature
	})

	// keep the last of each run of equal temperatures,
	// the stable sort preserves source order within a run
	deduplicated := entries[:0]
	for i, entry := range entries {
		if i+1 < len(entries) && entries[i+1].Temperature == entry.Temperature {
			continue
		}
		deduplicated = append(deduplicated, entry)
	}

	return &Table{entries: deduplicated}, nil
}

func parseLine(line string) (Entry, error) {
	tempText, percentText, found := strings.Cut(line, Delimiter)
	if !found {
		return Entry{}, ErrMissingDelimiter
	}

	temp, err := strconv.ParseInt(strings.TrimSpace(tempText), 10, 16)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrInvalidTemperature, err)
	}

	percent, err := strconv.ParseFloat(strings.TrimSpace(percentText), 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrInvalidPercentage, err)
	}
	if percent < 0 || math.IsNaN(percent) {
		return Entry{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidPercentage, strings.TrimSpace(percentText))
	}

	return Entry{
		Temperature: int16(temp),
		Duty:        PercentToDuty(percent),
	}, nil
}

// PercentToDuty scales a fan percentage to a PWM duty cycle,
// truncating any fraction. Values above 100% saturate at MaxDuty.
func PercentToDuty(percent float64) uint8 {
	duty := math.Trunc(percent * MaxDuty / 100)
	return uint8(util.Clamp(duty, MinDuty, MaxDuty))
}

// DutyToPercent is the inverse of PercentToDuty, rounded to one decimal place.
func DutyToPercent(duty uint8) float64 {
	return math.Round(float64(duty)*1000/MaxDuty) / 10
}

// Interpolate returns the duty cycle for the given temperature.
//
// At or below the lowest point the duty of the lowest point is used.
// Above the highest point, or if the table is empty, MaxDuty is returned:
// the curve only describes safe values up to its highest point.
func (t *Table) Interpolate(temp int16) uint8 {
	if len(t.entries) == 0 {
		return MaxDuty
	}

	lower := t.entries[0]
	if temp <= lower.Temperature {
		return lower.Duty
	}

	for _, upper := range t.entries[1:] {
		if temp <= upper.Temperature {
			t1, t2, x := int(lower.Temperature), int(upper.Temperature), int(temp)
			d1, d2 := int(lower.Duty), int(upper.Duty)
			return uint8((d1*(t2-x) + d2*(x-t1)) / (t2 - t1))
		}
		lower = upper
	}

	return MaxDuty
}

// Entries returns a copy of the curve points, sorted by temperature.
func (t *Table) Entries() []Entry {
	result := make([]Entry, len(t.entries))
	copy(result, t.entries)
	return result
}

func (t *Table) Len() int {
	return len(t.entries)
}

// IsMonotonic reports whether the duty never decreases with rising temperature.
func (t *Table) IsMonotonic() bool {
	for i := 1; i < len(t.entries); i++ {
		if t.entries[i].Duty < t.entries[i-1].Duty {
			return false
		}
	}
	return true
}
