package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/modtower/pkg/config"
	"github.com/matzehuels/modtower/pkg/layer"
)

// printSummary writes what the tower will inject into a file with
// layerCount layers: the atLayer commands, then for every rule its settings
// and a table of its levels, top level first.
func printSummary(w io.Writer, m *layer.Matcher, layerCount int) error {
	cfg := m.Config()

	printTitle(w, "Summary")
	printKeyValue(w, "Layer count", StyleNumber.Render(strconv.Itoa(layerCount)))

	if len(cfg.AtLayer) > 0 {
		fmt.Fprintln(w)
		printTitle(w, "Layer specific")
		for _, l := range cfg.AtLayers() {
			printKeyValue(w, fmt.Sprintf("At layer %d", l), StyleCommand.Render(cfg.AtLayer[l]))
		}
	}

	for i, rule := range cfg.EveryLayer {
		steps, err := m.Schedule(i, layerCount)
		if err != nil {
			return err
		}

		fmt.Fprintln(w)
		printTitle(w, "Tower levels · everyLayer[%d]", i)
		printKeyValue(w, "Starting at", strconv.Itoa(rule.StartingAt))
		printKeyValue(w, "For every", strconv.Itoa(rule.ForEvery))
		printKeyValue(w, "Do", StyleCommand.Render(rule.Do))
		for _, kv := range describeValue(rule.Value) {
			printKeyValue(w, kv[0], kv[1])
		}

		if len(steps) == 0 {
			printWarning(w, "never fires within %d layers", layerCount)
			continue
		}
		fmt.Fprintln(w, stepsTable(steps))
	}
	return nil
}

// describeValue returns label/value pairs for a value spec.
func describeValue(spec config.ValueSpec) [][2]string {
	var pairs [][2]string
	switch s := spec.(type) {
	case config.IncrementSpec:
		pairs = [][2]string{
			{"Start", formatFloat(s.Start)},
			{"Increment", formatFloat(s.Increment)},
			{"Midpoint", string(s.Midpoint)},
		}
	case config.InterpolateSpec:
		pairs = [][2]string{
			{"Start", formatFloat(s.Start)},
			{"End", formatFloat(s.End)},
		}
	case config.ExpressionSpec:
		pairs = [][2]string{{"Expression", s.Expression}}
	}
	return append(pairs, [2]string{"Rounding", string(spec.Rounding())})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func stepsTable(steps []layer.Step) string {
	rows := make([][]string, 0, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		rows = append(rows, []string{
			strconv.Itoa(s.Level),
			strconv.Itoa(s.Layer),
			s.Value.String(),
			s.Line,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Level", "Layer", "Value", "Command").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader.Padding(0, 1)
			case col == 3:
				return styleTableCell.Foreground(colorGreen)
			default:
				return styleTableCell
			}
		}).
		String()
}
