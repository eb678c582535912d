package samples

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `x,y
0,1.5
1,2.7
2,3.9
3,5.1`

	s, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if s.Len() != 4 {
		t.Errorf("Expected 4 samples, got %d", s.Len())
	}

	expected := []float64{1.5, 2.7, 3.9, 5.1}
	for i, v := range expected {
		if s.Y[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, s.Y[i])
		}
		if s.X[i] != float64(i) {
			t.Errorf("X at index %d: expected %d, got %f", i, i, s.X[i])
		}
	}
	if s.Sigma != nil {
		t.Errorf("Expected no sigma, got %v", s.Sigma)
	}
}

func TestLoadCSVNamedColumns(t *testing.T) {
	csvData := `time,signal,err,comment
0.5,10,0.1,first
1.0,NA,0.1,missing
1.5,12,0.2,
2.0,13,-1,bad sigma
2.5,14,0.3,last`

	opts := DefaultCSVOptions()
	opts.XColumn = "time"
	opts.YColumn = "Signal"
	opts.SigmaColumn = "err"
	opts.Absolute = true

	s, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("Expected 3 valid rows, got %d", s.Len())
	}

	expectedX := []float64{0.5, 1.5, 2.5}
	expectedSigma := []float64{0.1, 0.2, 0.3}
	for i := range expectedX {
		if s.X[i] != expectedX[i] {
			t.Errorf("X at index %d: expected %f, got %f", i, expectedX[i], s.X[i])
		}
		if s.Sigma[i] != expectedSigma[i] {
			t.Errorf("Sigma at index %d: expected %f, got %f", i, expectedSigma[i], s.Sigma[i])
		}
	}
	if !s.AbsoluteSigma {
		t.Error("Expected absolute sigma")
	}
}

func TestLoadCSVSkipsNonFinite(t *testing.T) {
	csvData := `x,y,sigma
1,2,0.1
2,Inf,0.1
+Inf,3,0.1
3,-inf,0.1
4,5,Infinity
5,NaN,0.1
6,7,0.1`

	opts := DefaultCSVOptions()
	opts.SigmaColumn = "sigma"

	s, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expectedX := []float64{1, 6}
	if s.Len() != len(expectedX) {
		t.Fatalf("Expected %d finite rows, got %d: %v", len(expectedX), s.Len(), s.X)
	}
	for i, v := range expectedX {
		if s.X[i] != v {
			t.Errorf("X at index %d: expected %f, got %f", i, v, s.X[i])
		}
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected a valid set, got %v", err)
	}
}

func TestLoadCSVNoHeader(t *testing.T) {
	csvData := "1;2;0.5\n2;4;0.5\n3;6;0.5\n"

	opts := &CSVOptions{Delimiter: ';', SigmaColumn: "sigma"}
	s, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if s.Len() != 3 {
		t.Errorf("Expected 3 samples, got %d", s.Len())
	}
	if len(s.Sigma) != 3 || s.Sigma[0] != 0.5 {
		t.Errorf("Expected sigma column by position, got %v", s.Sigma)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		opts *CSVOptions
	}{
		{"missing column", "a,b\n1,2\n", nil},
		{"missing sigma column", "x,y\n1,2\n", &CSVOptions{XColumn: "x", YColumn: "y", SigmaColumn: "dy", HasHeader: true}},
		{"no valid rows", "x,y\nfoo,bar\n", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCSVFromReader(strings.NewReader(tt.data), tt.opts); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestSkipRows(t *testing.T) {
	csvData := `# generated by instrument 7
x,y
1,10
2,20`

	opts := DefaultCSVOptions()
	opts.SkipRows = 1

	s, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if s.Len() != 2 || s.Y[1] != 20 {
		t.Errorf("Expected [10 20], got %v", s.Y)
	}
}

func TestSaveAndLoadCSV(t *testing.T) {
	s, err := NewWithSigma([]float64{0, 0.5, 1}, []float64{1, 1.25, 2}, []float64{0.1, 0.1, 0.2}, false)
	if err != nil {
		t.Fatalf("NewWithSigma failed: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "samples.csv")
	if err := SaveCSV(s, filename); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}

	opts := DefaultCSVOptions()
	opts.SigmaColumn = "sigma"
	loaded, err := LoadCSV(filename, opts)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if loaded.Name != filename {
		t.Errorf("Expected name %q, got %q", filename, loaded.Name)
	}
	for i := range s.X {
		if loaded.X[i] != s.X[i] || loaded.Y[i] != s.Y[i] || loaded.Sigma[i] != s.Sigma[i] {
			t.Errorf("Row %d: expected (%f, %f, %f), got (%f, %f, %f)", i,
				s.X[i], s.Y[i], s.Sigma[i], loaded.X[i], loaded.Y[i], loaded.Sigma[i])
		}
	}

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil); !os.IsNotExist(err) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	s, _ := New([]float64{1, 2}, []float64{0.5, 1e-9})

	var buf bytes.Buffer
	if err := WriteCSV(s, &buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	expected := "x,y\n1,0.5\n2,1e-09\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}

	short := &Set{X: []float64{1, 2}, Y: []float64{3, 4}, Sigma: []float64{0.1}}
	buf.Reset()
	if err := WriteCSV(short, &buf); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch for short sigma, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %q", buf.String())
	}
}
