package paint

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParameters_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "parameters.csv")

	want := Parameters{
		RightBaseline: 551, LeftBaseline: 527,
		RightOriginX: 413, RightOriginY: 207, LeftOriginX: 252, LeftOriginY: 213,
		RightXCoeff: 4.699999, RightYCoeff: -0.3049, LeftXCoeff: 5.9, LeftYCoeff: 0.1,
	}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadParameters(path)
	if err != nil {
		t.Fatalf("LoadParameters: %v", err)
	}
	if got != want.Rounded() {
		t.Errorf("round trip = %+v, want %+v", got, want.Rounded())
	}
	if got.RightXCoeff != 4.7 || got.RightYCoeff != -0.3 {
		t.Errorf("coefficients not rounded to 2 decimals: %+v", got)
	}
}

func TestParameters_Write(t *testing.T) {
	var buf bytes.Buffer
	if err := DefaultParameters().Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "right_baseline,left_baseline,right_origin_x,right_origin_y,left_origin_x,left_origin_y,right_x_coeff,right_y_coeff,left_x_coeff,left_y_coeff\n" +
		"549,529,410,210,255,210,4.6,0,6,0\n"
	if buf.String() != want {
		t.Errorf("Write =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestLoadParameters_Missing(t *testing.T) {
	got, err := LoadParameters(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
	if got != DefaultParameters() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestLoadParameters_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parameters.csv")
	if err := os.WriteFile(path, []byte("right_baseline,left_baseline\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadParameters(path)
	if !errors.Is(err, ErrMalformedParameters) {
		t.Errorf("err = %v, want ErrMalformedParameters", err)
	}
	if got != DefaultParameters() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestReadParameters_LastRowWins(t *testing.T) {
	in := strings.Join([]string{
		strings.Join(Columns, ","),
		"500,500,1,2,3,4,1.1,1.2,1.3,1.4",
		"549,529,410,210,255,210,4.6,0.0,6.0,0.0",
		"",
	}, "\n")

	got, err := ReadParameters(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadParameters: %v", err)
	}
	if got != DefaultParameters() {
		t.Errorf("got %+v, want last row %+v", got, DefaultParameters())
	}
}

func TestReadParameters_LegacyHeader(t *testing.T) {
	// Column order of the first calibration tool: x values before y values.
	in := "right_init_val,left_init_val,right_init_x,left_init_x,right_init_y,left_init_y,right_x_coeff,right_y_coeff,left_x_coeff,left_y_coeff\n" +
		"560,530,400,250,200,220,4.2,0.5,6.1,-0.2\n"

	got, err := ReadParameters(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadParameters: %v", err)
	}
	want := Parameters{
		RightBaseline: 560, LeftBaseline: 530,
		RightOriginX: 400, RightOriginY: 200, LeftOriginX: 250, LeftOriginY: 220,
		RightXCoeff: 4.2, RightYCoeff: 0.5, LeftXCoeff: 6.1, LeftYCoeff: -0.2,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadParameters_Errors(t *testing.T) {
	header := strings.Join(Columns, ",")
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header only", header + "\n"},
		{"short row", header + "\n549,529,410\n"},
		{"not a number", header + "\n549,529,abc,210,255,210,4.6,0,6,0\n"},
		{"bad float", header + "\n549,529,410,210,255,210,x,0,6,0\n"},
		{"float baseline", header + "\n549.5,529,410,210,255,210,4.6,0,6,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadParameters(strings.NewReader(tt.in))
			if !errors.Is(err, ErrMalformedParameters) {
				t.Errorf("err = %v, want ErrMalformedParameters", err)
			}
		})
	}
}
