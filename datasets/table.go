package datasets

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// LoadCSV parses a numeric CSV table into a dense matrix. Every field must
// parse as float64 and every row must have the same number of columns. A
// single leading header row of column names is skipped. Files with an ".xz"
// suffix are decompressed transparently.
func LoadCSV(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets: open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "datasets: open xz stream in %s", path)
		}
		r = xzr
	}

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	var (
		data []float64
		rows int
		cols int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "datasets: parse %s", path)
		}

		if cols == 0 {
			cols = len(record)
			if isHeaderRow(record) {
				continue
			}
		} else if len(record) != cols {
			return nil, errors.NewDimensionError("datasets.LoadCSV", cols, len(record), 1)
		}

		for _, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "datasets: non-numeric field %q in %s row %d", field, path, rows+1)
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 || cols == 0 {
		return nil, errors.NewModelError("datasets.LoadCSV", "empty table", errors.ErrEmptyData)
	}

	return mat.NewDense(rows, cols, data), nil
}

// isHeaderRow reports whether a record looks like column names rather than
// data: any field that does not parse as a number marks it as a header.
func isHeaderRow(record []string) bool {
	for _, field := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			return true
		}
	}
	return false
}

// SplitTarget splits the last column off a table as the regression target,
// returning the remaining columns as the feature matrix X and the last
// column as the n×1 target y.
func SplitTarget(table *mat.Dense) (X, y *mat.Dense, err error) {
	n, c := table.Dims()
	if c < 2 {
		return nil, nil, errors.NewValueError("datasets.SplitTarget",
			"table needs at least one feature column and one target column")
	}

	X = mat.NewDense(n, c-1, nil)
	y = mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < c-1; j++ {
			X.Set(i, j, table.At(i, j))
		}
		y.Set(i, 0, table.At(i, c-1))
	}
	return X, y, nil
}

// FetchTable acquires the table at url (cached at path) and returns it split
// into features and target. It is the one-call loader the tutorial uses.
func FetchTable(url, path string) (X, y *mat.Dense, err error) {
	if err := Fetch(url, path); err != nil {
		return nil, nil, err
	}
	table, err := LoadCSV(path)
	if err != nil {
		return nil, nil, err
	}
	return SplitTarget(table)
}
