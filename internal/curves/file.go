package curves

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fanctl/amdfan/internal/util"
)

// LoadFile reads and parses the curve file at the given path.
func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open curve file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read curve file %s: %w", path, err)
	}

	table, err := Build(lines)
	if err != nil {
		return nil, fmt.Errorf("invalid curve file %s: %w", path, err)
	}
	return table, nil
}

// Format renders the table in canonical curve file form, one point per line.
// Duties are written as percentages that map back to the same duty.
func Format(table *Table) string {
	var sb strings.Builder
	for _, entry := range table.entries {
		sb.WriteString(strconv.Itoa(int(entry.Temperature)))
		sb.WriteString(" " + Delimiter + " ")
		sb.WriteString(strconv.FormatFloat(dutyToExactPercent(entry.Duty), 'f', -1, 64))
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteFile atomically replaces the file at path with the canonical form of the table.
func WriteFile(path string, table *Table) error {
	return util.WriteStringToFileAtomic(Format(table), path)
}

// dutyToExactPercent finds the shortest percentage (at most two decimal places)
// which PercentToDuty maps back to duty.
func dutyToExactPercent(duty uint8) float64 {
	for _, precision := range []float64{1, 10, 100} {
		percent := roundUp(float64(duty)*100/MaxDuty, precision)
		if PercentToDuty(percent) == duty {
			return percent
		}
	}
	return float64(duty) * 100 / MaxDuty
}

func roundUp(value float64, precision float64) float64 {
	return float64(int(value*precision+0.999999)) / precision
}
