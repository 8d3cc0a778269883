// Package tabular reads raw CSV datasets into typed rows and writes cleaned rows back out.
package tabular

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const utf8BOM = "\xef\xbb\xbf"

// Aliaser is implemented by row types whose source files may name a column
// differently. ColumnAliases maps a source header name to the csv tag it fills.
type Aliaser interface {
	ColumnAliases() map[string]string
}

// ReadCSV decodes every row of the CSV file at path into T. Columns are matched
// by the `csv` struct tags of T; every tagged column must be present in the
// header, extra columns are ignored.
func ReadCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := Decode[T](f)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: read %s", path)
	}

	zap.L().Debug("csv loaded",
		zap.String("component", "tabular"),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// Decode reads CSV from r into T, failing if a required column is missing.
func Decode[T any](r io.Reader) ([]T, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, eris.New("tabular: empty file")
		}
		return nil, eris.Wrap(err, "tabular: read header")
	}

	var zero T
	if a, ok := any(zero).(Aliaser); ok {
		header = applyAliases(header, a.ColumnAliases())
	}

	dec, err := csvutil.NewDecoder(reader, header...)
	if err != nil {
		return nil, eris.Wrap(err, "tabular: read header")
	}

	required, err := csvutil.Header(zero, "csv")
	if err != nil {
		return nil, eris.Wrap(err, "tabular: derive columns")
	}
	if missing := missingColumns(dec.Header(), required); len(missing) > 0 {
		return nil, eris.Errorf("tabular: missing columns: %s", strings.Join(missing, ", "))
	}

	var rows []T
	for {
		var row T
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, eris.Wrap(err, "tabular: decode row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV writes rows to path with a header row, replacing any existing file.
// The write is not atomic.
func WriteCSV[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "tabular: create %s", path)
	}

	if err := Encode(f, rows); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "tabular: write %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "tabular: close %s", path)
	}
	return nil
}

// Encode writes a header followed by rows to w. The header is written even when
// rows is empty.
func Encode[T any](w io.Writer, rows []T) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	var zero T
	if err := enc.EncodeHeader(zero); err != nil {
		return eris.Wrap(err, "tabular: encode header")
	}
	for i := range rows {
		if err := enc.Encode(rows[i]); err != nil {
			return eris.Wrapf(err, "tabular: encode row %d", i)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "tabular: flush")
	}
	return nil
}

// applyAliases renames aliased header columns to their canonical names. An
// alias is ignored when the canonical column is already present.
func applyAliases(header []string, aliases map[string]string) []string {
	out := make([]string, len(header))
	copy(out, header)
	for i, h := range out {
		to, ok := aliases[h]
		if !ok || slices.Contains(header, to) {
			continue
		}
		out[i] = to
	}
	return out
}

// missingColumns returns the names in required that header lacks.
func missingColumns(header, required []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, r := range required {
		if !have[r] {
			missing = append(missing, r)
		}
	}
	return missing
}
