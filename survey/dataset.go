package survey

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/churnlab/margins/pkg/errors"
)

// Record is one synthetic respondent. Refer and Turnover are binary
// codes, JobSat is an ordinal satisfaction score in 1..5.
type Record struct {
	Refer    int
	JobSat   int
	Turnover int
}

// Dataset is an ordered collection of generated respondents.
type Dataset struct {
	Records []Record
}

// Len returns the number of respondents.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Features returns the refer and jobsat columns as an n x 2 design
// matrix for the downstream model.
func (d *Dataset) Features() mat.Matrix {
	n := len(d.Records)
	X := mat.NewDense(n, 2, nil)
	for i, r := range d.Records {
		X.Set(i, 0, float64(r.Refer))
		X.Set(i, 1, float64(r.JobSat))
	}
	return X
}

// Target returns the turnover column as an n x 1 matrix.
func (d *Dataset) Target() mat.Matrix {
	n := len(d.Records)
	y := mat.NewDense(n, 1, nil)
	for i, r := range d.Records {
		y.Set(i, 0, float64(r.Turnover))
	}
	return y
}

// Column returns the named column as float64 values.
func (d *Dataset) Column(name string) ([]float64, error) {
	col := make([]float64, len(d.Records))
	switch name {
	case VarRefer:
		for i, r := range d.Records {
			col[i] = float64(r.Refer)
		}
	case VarJobSat:
		for i, r := range d.Records {
			col[i] = float64(r.JobSat)
		}
	case VarTurnover:
		for i, r := range d.Records {
			col[i] = float64(r.Turnover)
		}
	default:
		return nil, errors.NewValueError("Dataset.Column", fmt.Sprintf("unknown column %q", name))
	}
	return col, nil
}

// WriteCSV writes the dataset to w: a refer,jobsat,turnover header
// followed by one integer row per respondent.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{VarRefer, VarJobSat, VarTurnover}); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for _, r := range d.Records {
		row := []string{
			strconv.Itoa(r.Refer),
			strconv.Itoa(r.JobSat),
			strconv.Itoa(r.Turnover),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

// WriteCSVFile writes the dataset to the given path.
func (d *Dataset) WriteCSVFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close output file")
		}
	}()
	return d.WriteCSV(f)
}

// ReadCSV reads a dataset written by WriteCSV. The header must name
// exactly the three survey columns in order, and every field must be
// an integer in its declared range.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = NumVariables

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}
	want := []string{VarRefer, VarJobSat, VarTurnover}
	for i, name := range want {
		if header[i] != name {
			return nil, errors.NewValueError("survey.ReadCSV",
				fmt.Sprintf("unexpected header column %d: got %q, want %q", i, header[i], name))
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read CSV line %d", line)
		}

		rec, err := parseRecord(row)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		records = append(records, rec)
	}

	return &Dataset{Records: records}, nil
}

// ReadCSVFile reads a dataset from the given path.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open dataset file")
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadCSV(f)
}

func parseRecord(row []string) (Record, error) {
	refer, err := parseLevel(VarRefer, row[0], 0, 1)
	if err != nil {
		return Record{}, err
	}
	jobsat, err := parseLevel(VarJobSat, row[1], 1, satisfactionLevels)
	if err != nil {
		return Record{}, err
	}
	turnover, err := parseLevel(VarTurnover, row[2], 0, 1)
	if err != nil {
		return Record{}, err
	}
	return Record{Refer: refer, JobSat: jobsat, Turnover: turnover}, nil
}

func parseLevel(name, field string, min, max int) (int, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, errors.NewValueError("survey.ReadCSV",
			fmt.Sprintf("%s value %q is not an integer", name, field))
	}
	if v < min || v > max {
		return 0, errors.NewValueError("survey.ReadCSV",
			fmt.Sprintf("%s value %d outside [%d, %d]", name, v, min, max))
	}
	return v, nil
}
