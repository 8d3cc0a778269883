package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rotisserie/eris"

	"github.com/sells-group/greater-sydney/internal/geo"
	"github.com/sells-group/greater-sydney/internal/tabular"
)

const sampleRows = 3

// recordSample renders the first n records as header + string rows, using the
// same encoding as the CSV writer.
func recordSample[T any](rows []T, n int) ([]string, [][]string, error) {
	if len(rows) > n {
		rows = rows[:n]
	}

	var buf bytes.Buffer
	if err := tabular.Encode(&buf, rows); err != nil {
		return nil, nil, err
	}
	all, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: re-read sample")
	}
	return all[0], all[1:], nil
}

// collectionSample renders the first n features' attributes.
func collectionSample(c *geo.Collection, fields []string, n int) ([]string, [][]string) {
	var rows [][]string
	for i, f := range c.Features {
		if i >= n {
			break
		}
		row := make([]string, len(fields))
		for j, name := range fields {
			row[j] = f.Attrs[name]
		}
		rows = append(rows, row)
	}
	return fields, rows
}

// writeTable prints a titled, column-aligned table. Widths are measured in
// terminal cells so wide characters line up.
func writeTable(w io.Writer, title string, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range header {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(header))
		for i := range header {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, line(header))
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
}
