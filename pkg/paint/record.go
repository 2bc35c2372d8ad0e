package paint

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultParametersFile is where calibrate writes and run reads the record.
const DefaultParametersFile = "data/parameters.csv"

// Columns are the header names of the parameter record, in file order.
var Columns = []string{
	"right_baseline",
	"left_baseline",
	"right_origin_x",
	"right_origin_y",
	"left_origin_x",
	"left_origin_y",
	"right_x_coeff",
	"right_y_coeff",
	"left_x_coeff",
	"left_y_coeff",
}

// legacyColumns maps header names written by the first version of the
// calibration tool onto the current ones.
var legacyColumns = map[string]string{
	"right_init_val": "right_baseline",
	"left_init_val":  "left_baseline",
	"right_init_x":   "right_origin_x",
	"right_init_y":   "right_origin_y",
	"left_init_x":    "left_origin_x",
	"left_init_y":    "left_origin_y",
}

// ErrMalformedParameters is returned when a parameter file exists but
// cannot be decoded.
var ErrMalformedParameters = errors.New("malformed parameter file")

// LoadParameters reads a parameter record from a CSV file.
//
// The file never makes loading fail hard: when it is absent or malformed
// the defaults are returned together with an error describing why, so the
// caller can warn and carry on. When several data rows exist the last one is
// used. An absent file yields an error matching os.ErrNotExist.
func LoadParameters(path string) (Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultParameters(), fmt.Errorf("open parameters: %w", err)
	}
	defer f.Close()

	p, err := ReadParameters(f)
	if err != nil {
		return DefaultParameters(), fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadParameters decodes a parameter record. See LoadParameters.
func ReadParameters(r io.Reader) (Parameters, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return Parameters{}, fmt.Errorf("%w: %v", ErrMalformedParameters, err)
	}
	if len(rows) < 2 {
		return Parameters{}, fmt.Errorf("%w: need a header and at least one data row", ErrMalformedParameters)
	}

	index, err := columnIndex(rows[0])
	if err != nil {
		return Parameters{}, err
	}

	// Any earlier rows are older calibrations; only the last one counts.
	row := rows[len(rows)-1]
	field := func(name string) (string, error) {
		i := index[name]
		if i >= len(row) {
			return "", fmt.Errorf("%w: missing value for %s", ErrMalformedParameters, name)
		}
		return strings.TrimSpace(row[i]), nil
	}

	var p Parameters
	ints := []struct {
		name string
		dst  *int
	}{
		{"right_baseline", &p.RightBaseline},
		{"left_baseline", &p.LeftBaseline},
		{"right_origin_x", &p.RightOriginX},
		{"right_origin_y", &p.RightOriginY},
		{"left_origin_x", &p.LeftOriginX},
		{"left_origin_y", &p.LeftOriginY},
	}
	for _, c := range ints {
		s, err := field(c.name)
		if err != nil {
			return Parameters{}, err
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return Parameters{}, fmt.Errorf("%w: %s: %v", ErrMalformedParameters, c.name, err)
		}
		*c.dst = v
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"right_x_coeff", &p.RightXCoeff},
		{"right_y_coeff", &p.RightYCoeff},
		{"left_x_coeff", &p.LeftXCoeff},
		{"left_y_coeff", &p.LeftYCoeff},
	}
	for _, c := range floats {
		s, err := field(c.name)
		if err != nil {
			return Parameters{}, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Parameters{}, fmt.Errorf("%w: %s: %v", ErrMalformedParameters, c.name, err)
		}
		*c.dst = v
	}

	return p, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(Columns))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if current, ok := legacyColumns[name]; ok {
			name = current
		}
		index[name] = i
	}
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: header has no %s column", ErrMalformedParameters, name)
		}
	}
	return index, nil
}

// Save writes the record to path, creating parent directories as needed.
// Coefficients are rounded to two decimals.
func (p Parameters) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create parameters dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parameters file: %w", err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes the record as a header row followed by one data row.
func (p Parameters) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	row := []string{
		strconv.Itoa(p.RightBaseline),
		strconv.Itoa(p.LeftBaseline),
		strconv.Itoa(p.RightOriginX),
		strconv.Itoa(p.RightOriginY),
		strconv.Itoa(p.LeftOriginX),
		strconv.Itoa(p.LeftOriginY),
		formatCoeff(p.RightXCoeff),
		formatCoeff(p.RightYCoeff),
		formatCoeff(p.LeftXCoeff),
		formatCoeff(p.LeftYCoeff),
	}
	if err := cw.WriteAll([][]string{Columns, row}); err != nil {
		return fmt.Errorf("write parameters: %w", err)
	}
	return nil
}

// Rounded returns a copy with the coefficients rounded the way Save stores them.
func (p Parameters) Rounded() Parameters {
	p.RightXCoeff = round2(p.RightXCoeff)
	p.RightYCoeff = round2(p.RightYCoeff)
	p.LeftXCoeff = round2(p.LeftXCoeff)
	p.LeftYCoeff = round2(p.LeftYCoeff)
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatCoeff(v float64) string {
	v = round2(v)
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
