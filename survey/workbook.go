package survey

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/churnlab/margins/pkg/errors"
)

// Sheet names expected in a parameter workbook.
const (
	sheetCorrelations = "correlations"
	sheetStddevs      = "stddevs"
	sheetMeans        = "means"
)

// LoadWorkbook reads generation parameters from an xlsx workbook.
//
// The workbook carries three sheets. "correlations" holds the matrix
// with variable names across the header and down the first column.
// "stddevs" and "means" hold variable/value pairs under a header row.
// Vector entries are matched to the correlation matrix's variable
// ordering by name, so sheet row order does not matter; a missing or
// unknown name is an invalid-parameters error.
//
// The workbook stores no respondent count or seed. Set N and Seed on
// the returned Params before generating.
func LoadWorkbook(path string) (*Params, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open parameter workbook")
	}
	defer func() {
		_ = f.Close()
	}()

	names, corr, err := readCorrelationSheet(f)
	if err != nil {
		return nil, err
	}

	sd, err := readVectorSheet(f, sheetStddevs, names)
	if err != nil {
		return nil, err
	}
	means, err := readVectorSheet(f, sheetMeans, names)
	if err != nil {
		return nil, err
	}

	return &Params{
		Variables: names,
		Corr:      corr,
		SD:        sd,
		Mean:      means,
	}, nil
}

func readCorrelationSheet(f *excelize.File) ([]string, [][]float64, error) {
	rows, err := f.GetRows(sheetCorrelations)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read sheet %q", sheetCorrelations)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, nil, errors.NewValidationError("workbook",
			fmt.Sprintf("sheet %q must hold a labeled correlation matrix", sheetCorrelations), nil)
	}

	names := rows[0][1:]
	dim := len(names)
	if len(rows) != dim+1 {
		return nil, nil, errors.NewValidationError("workbook",
			fmt.Sprintf("sheet %q has %d variable columns but %d data rows", sheetCorrelations, dim, len(rows)-1), nil)
	}

	corr := make([][]float64, dim)
	for i, row := range rows[1:] {
		if len(row) != dim+1 {
			return nil, nil, errors.NewValidationError("workbook",
				fmt.Sprintf("sheet %q row %d has %d cells, want %d", sheetCorrelations, i+2, len(row), dim+1), nil)
		}
		if row[0] != names[i] {
			return nil, nil, errors.NewValidationError("workbook",
				fmt.Sprintf("sheet %q row label %q does not match header order (want %q)", sheetCorrelations, row[0], names[i]), nil)
		}
		corr[i] = make([]float64, dim)
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, errors.NewValidationError("workbook",
					fmt.Sprintf("sheet %q cell (%s, %s) is not numeric: %q", sheetCorrelations, names[i], names[j], cell), nil)
			}
			corr[i][j] = v
		}
	}

	return names, corr, nil
}

func readVectorSheet(f *excelize.File, sheet string, names []string) ([]float64, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheet)
	}
	if len(rows) < 1 {
		return nil, errors.NewValidationError("workbook",
			fmt.Sprintf("sheet %q must hold a header and one row per variable", sheet), nil)
	}

	byName := make(map[string]float64, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, errors.NewValidationError("workbook",
				fmt.Sprintf("sheet %q row %d needs a variable name and a value", sheet, i+2), nil)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.NewValidationError("workbook",
				fmt.Sprintf("sheet %q value for %q is not numeric: %q", sheet, row[0], row[1]), nil)
		}
		if _, dup := byName[row[0]]; dup {
			return nil, errors.NewValidationError("workbook",
				fmt.Sprintf("sheet %q lists %q twice", sheet, row[0]), nil)
		}
		byName[row[0]] = v
	}

	if len(byName) != len(names) {
		return nil, errors.NewValidationError("workbook",
			fmt.Sprintf("sheet %q lists %d variables, correlation matrix has %d", sheet, len(byName), len(names)), nil)
	}

	out := make([]float64, len(names))
	for i, name := range names {
		v, ok := byName[name]
		if !ok {
			return nil, errors.NewValidationError("workbook",
				fmt.Sprintf("sheet %q has no entry for variable %q", sheet, name), nil)
		}
		out[i] = v
	}
	return out, nil
}
