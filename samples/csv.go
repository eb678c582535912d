package samples

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	XColumn     string // Column name for x (default: "x")
	YColumn     string // Column name for y (default: "y")
	SigmaColumn string // Column name for sigma (optional)
	Absolute    bool   // Treat sigma as absolute errors
	HasHeader   bool   // Whether CSV has header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		XColumn:   "x",
		YColumn:   "y",
		HasHeader: true,
		Delimiter: ',',
	}
}

// LoadCSV loads a sample set from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Set, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if s.Name == "" {
		s.Name = filename
	}
	return s, nil
}

// LoadCSVFromReader loads a sample set from an io.Reader. Rows with a
// missing, unparsable or non-finite x, y or sigma value are skipped.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Set, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// Skip rows if needed
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	xIdx, yIdx, sigmaIdx := 0, 1, -1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		xIdx, yIdx = -1, -1
		xName, yName := opts.XColumn, opts.YColumn
		if xName == "" {
			xName = "x"
		}
		if yName == "" {
			yName = "y"
		}
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case strings.EqualFold(h, xName):
				xIdx = i
			case strings.EqualFold(h, yName):
				yIdx = i
			case opts.SigmaColumn != "" && strings.EqualFold(h, opts.SigmaColumn):
				sigmaIdx = i
			}
		}
		if xIdx == -1 || yIdx == -1 {
			return nil, fmt.Errorf("samples: columns %q and %q not found in header %v", xName, yName, header)
		}
		if opts.SigmaColumn != "" && sigmaIdx == -1 {
			return nil, fmt.Errorf("samples: sigma column %q not found in header %v", opts.SigmaColumn, header)
		}
	} else if opts.SigmaColumn != "" {
		// No header - x, y, sigma by position
		sigmaIdx = 2
	}

	var x, y, sigma []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		xv, ok := parseField(record, xIdx)
		if !ok {
			continue
		}
		yv, ok := parseField(record, yIdx)
		if !ok {
			continue
		}
		if sigmaIdx >= 0 {
			sv, ok := parseField(record, sigmaIdx)
			if !ok || !(sv > 0) {
				continue
			}
			sigma = append(sigma, sv)
		}
		x = append(x, xv)
		y = append(y, yv)
	}

	if len(x) == 0 {
		return nil, errors.New("samples: no valid data found in CSV")
	}

	s := &Set{X: x, Y: y}
	if sigmaIdx >= 0 {
		s.Sigma = sigma
		s.AbsoluteSigma = opts.Absolute
	}
	return s, nil
}

func parseField(record []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(record) {
		return 0, false
	}
	str := strings.TrimSpace(strings.Trim(record[idx], "\""))
	switch str {
	case "", "NA", "NaN", "nan", "null":
		return 0, false
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SaveCSV saves a sample set to a CSV file with an x,y[,sigma] header.
func SaveCSV(s *Set, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := WriteCSV(s, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes a sample set as CSV with an x,y[,sigma] header.
func WriteCSV(s *Set, w io.Writer) error {
	if err := s.Validate(); err != nil {
		return err
	}
	writer := bufio.NewWriter(w)

	if s.Sigma != nil {
		writer.WriteString("x,y,sigma\n")
	} else {
		writer.WriteString("x,y\n")
	}

	for i := range s.X {
		writer.WriteString(strconv.FormatFloat(s.X[i], 'g', -1, 64))
		writer.WriteString(",")
		writer.WriteString(strconv.FormatFloat(s.Y[i], 'g', -1, 64))
		if s.Sigma != nil {
			writer.WriteString(",")
			writer.WriteString(strconv.FormatFloat(s.Sigma[i], 'g', -1, 64))
		}
		writer.WriteString("\n")
	}

	return writer.Flush()
}
