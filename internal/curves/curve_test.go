package curves

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

var exampleCurve = []string{
	"0 => 10",
	"50 => 40",
	"60 => 70",
	"100 => 100",
}

func TestBuild_ScalesPercentages(t *testing.T) {
	// GIVEN
	lines := exampleCurve

	// WHEN
	table, err := Build(lines)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []Entry{
		{Temperature: 0, Duty: 25},
		{Temperature: 50, Duty: 102},
		{Temperature: 60, Duty: 178},
		{Temperature: 100, Duty: 255},
	}, table.Entries())
}

func TestBuild_SortsEntries(t *testing.T) {
	// GIVEN
	lines := []string{
		"80 => 100",
		"-10 => 0",
		"40 => 50",
	}

	// WHEN
	table, err := Build(lines)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []Entry{
		{Temperature: -10, Duty: 0},
		{Temperature: 40, Duty: 127},
		{Temperature: 80, Duty: 255},
	}, table.Entries())
}

func TestBuild_DuplicateTemperatureLastWins(t *testing.T) {
	// GIVEN
	lines := []string{
		"10 => 20",
		"10 => 50",
	}

	// WHEN
	table, err := Build(lines)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, []Entry{{Temperature: 10, Duty: 127}}, table.Entries())
}

func TestBuild_DuplicateTemperatureNotAdjacent(t *testing.T) {
	// GIVEN
	lines := []string{
		"10 => 20",
		"30 => 60",
		"10 => 50",
		"30 => 70",
	}

	// WHEN
	table, err := Build(lines)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []Entry{
		{Temperature: 10, Duty: 127},
		{Temperature: 30, Duty: 178},
	}, table.Entries())
}

func TestBuild_TrimsWhitespaceAndAcceptsDecimals(t *testing.T) {
	// GIVEN
	lines := []string{"  45=>  33.3 "}

	// WHEN
	table, err := Build(lines)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []Entry{{Temperature: 45, Duty: 84}}, table.Entries())
}

func TestBuild_SaturatesAbove100Percent(t *testing.T) {
	// GIVEN
	lines := []string{"90 => 150"}

	// WHEN
	table, err := Build(lines)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []Entry{{Temperature: 90, Duty: 255}}, table.Entries())
}

func TestBuild_Empty(t *testing.T) {
	// WHEN
	table, err := Build(nil)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestBuild_MissingDelimiter(t *testing.T) {
	// GIVEN
	lines := []string{"0 => 10", "50: 40"}

	// WHEN
	table, err := Build(lines)

	// THEN
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrMissingDelimiter)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Line)
	assert.Equal(t, "50: 40", parseErr.Text)
}

func TestBuild_BlankLineIsAnError(t *testing.T) {
	// GIVEN
	lines := []string{"0 => 10", "", "50 => 40"}

	// WHEN
	_, err := Build(lines)

	// THEN
	assert.ErrorIs(t, err, ErrMissingDelimiter)
}

func TestBuild_InvalidTemperature(t *testing.T) {
	// GIVEN
	lines := []string{"notanumber => 50"}

	// WHEN
	_, err := Build(lines)

	// THEN
	assert.ErrorIs(t, err, ErrInvalidTemperature)
	assert.Contains(t, err.Error(), "notanumber => 50")
}

func TestBuild_TemperatureOutOfRange(t *testing.T) {
	// GIVEN
	lines := []string{"40000 => 50"}

	// WHEN
	_, err := Build(lines)

	// THEN
	assert.ErrorIs(t, err, ErrInvalidTemperature)
}

func TestBuild_InvalidPercentage(t *testing.T) {
	for _, line := range []string{"50 => fast", "50 => -5", "50 =>"} {
		// WHEN
		_, err := Build([]string{line})

		// THEN
		assert.ErrorIs(t, err, ErrInvalidPercentage, line)
	}
}

func TestInterpolate_EmptyTable(t *testing.T) {
	// GIVEN
	table, _ := Build(nil)

	for _, temp := range []int16{-40, 0, 50, 200} {
		// WHEN
		result := table.Interpolate(temp)

		// THEN
		assert.Equal(t, uint8(255), result)
	}
}

func TestInterpolate_ClampsLow(t *testing.T) {
	// GIVEN
	table, _ := Build(exampleCurve)

	// THEN
	assert.Equal(t, uint8(25), table.Interpolate(-1))
	assert.Equal(t, uint8(25), table.Interpolate(0))
	assert.Equal(t, uint8(25), table.Interpolate(-32768))
}

func TestInterpolate_AboveHighestIsMax(t *testing.T) {
	// GIVEN
	table, _ := Build([]string{"30 => 20", "70 => 60"})

	// THEN
	assert.Equal(t, uint8(153), table.Interpolate(70))
	assert.Equal(t, uint8(255), table.Interpolate(71))
	assert.Equal(t, uint8(255), table.Interpolate(32767))
}

func TestInterpolate_ExampleCurve(t *testing.T) {
	// GIVEN
	table, _ := Build(exampleCurve)
	expected := map[int16]uint8{
		-1:  25,
		0:   25,
		25:  63,
		50:  102,
		55:  140,
		60:  178,
		80:  216,
		100: 255,
		101: 255,
	}

	for temp, duty := range expected {
		// WHEN
		result := table.Interpolate(temp)

		// THEN
		assert.Equal(t, duty, result, "temperature %d", temp)
	}
}

func TestInterpolate_SingleEntry(t *testing.T) {
	// GIVEN
	table, _ := Build([]string{"50 => 40"})

	// THEN
	assert.Equal(t, uint8(102), table.Interpolate(10))
	assert.Equal(t, uint8(102), table.Interpolate(50))
	assert.Equal(t, uint8(255), table.Interpolate(51))
}

func TestInterpolate_WideRangeDoesNotOverflow(t *testing.T) {
	// GIVEN
	table, _ := Build([]string{"-32768 => 0", "32767 => 100"})

	// WHEN
	result := table.Interpolate(0)

	// THEN
	assert.Equal(t, uint8(127), result)
}

func TestInterpolate_MonotonicForNonDecreasingTables(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		// GIVEN
		size := 2 + random.Intn(8)
		temps := random.Perm(200)[:size]
		sort.Ints(temps)
		duties := make([]int, size)
		for i := range duties {
			duties[i] = random.Intn(256)
		}
		sort.Ints(duties)

		entries := make([]Entry, size)
		for i := range entries {
			entries[i] = Entry{Temperature: int16(temps[i] - 50), Duty: uint8(duties[i])}
		}
		table := &Table{entries: entries}
		lowest, highest := entries[0].Temperature, entries[size-1].Temperature

		// WHEN
		previous := table.Interpolate(lowest)

		// THEN
		assert.Equal(t, entries[0].Duty, previous)
		for temp := lowest + 1; temp <= highest; temp++ {
			current := table.Interpolate(temp)
			assert.GreaterOrEqual(t, current, previous, "run %d temp %d entries %v", run, temp, entries)
			previous = current
		}
		assert.Equal(t, entries[size-1].Duty, table.Interpolate(highest))
		assert.Equal(t, uint8(MaxDuty), table.Interpolate(highest+1))
	}
}

func TestIsMonotonic(t *testing.T) {
	rising, _ := Build(exampleCurve)
	falling, _ := Build([]string{"30 => 50", "60 => 20"})

	assert.True(t, rising.IsMonotonic())
	assert.False(t, falling.IsMonotonic())
}

func TestPercentToDuty(t *testing.T) {
	assert.Equal(t, uint8(0), PercentToDuty(0))
	assert.Equal(t, uint8(25), PercentToDuty(10))
	assert.Equal(t, uint8(178), PercentToDuty(70))
	assert.Equal(t, uint8(255), PercentToDuty(100))
	assert.Equal(t, uint8(255), PercentToDuty(1000))
}

func TestDutyToPercent(t *testing.T) {
	assert.Equal(t, 0.0, DutyToPercent(0))
	assert.Equal(t, 40.0, DutyToPercent(102))
	assert.Equal(t, 100.0, DutyToPercent(255))
}
