package curve

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/fanctl/amdfan/cmd/global"
	"github.com/fanctl/amdfan/internal/curves"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

// temperatures plotted beyond the last point, to show the jump to full speed
const plotOverhang = 5

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the points and a plot of a curve",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		curveTable, err := loadCurve()
		if err != nil {
			return err
		}

		entries := curveTable.Entries()
		if len(entries) <= 0 {
			ui.Warning("Curve has no points, fans will always run at full speed")
			return nil
		}

		var rows [][]string
		for _, entry := range entries {
			rows = append(rows, []string{
				strconv.Itoa(int(entry.Temperature)),
				strconv.FormatFloat(curves.DutyToPercent(entry.Duty), 'f', 1, 64),
				strconv.Itoa(int(entry.Duty)),
			})
		}
		tab := table.Table{
			Headers: []string{"°C", "%", "Duty"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		if err := tab.WriteTable(&buf, global.TableConfig()); err != nil {
			return fmt.Errorf("error printing table: %w", err)
		}
		ui.Printfln("%s", buf.String())

		first, last, values := plotValues(curveTable)

		caption := fmt.Sprintf("Duty / °C (%d..%d)", first, last)
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln("%s", graph)
		return nil
	},
}

// plotValues samples the duty of every degree from the lowest point up to a few
// degrees past the highest one, staying within the temperature range.
func plotValues(curveTable *curves.Table) (first int, last int, values []float64) {
	entries := curveTable.Entries()
	if len(entries) == 0 {
		return 0, 0, nil
	}
	first = int(entries[0].Temperature)
	last = min(int(entries[len(entries)-1].Temperature)+plotOverhang, math.MaxInt16)
	values = make([]float64, 0, last-first+1)
	for temp := first; temp <= last; temp++ {
		values = append(values, float64(curveTable.Interpolate(int16(temp))))
	}
	return first, last, values
}

func init() {
	Command.AddCommand(printCmd)
}
