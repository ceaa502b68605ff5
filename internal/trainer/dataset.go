package trainer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikey/fakenews-detector/internal/core"
)

// Sample is one labeled headline
type Sample struct {
	Text  string
	Label core.Label
}

// DataSource describes where labeled headlines come from. Either CSVPath is
// set, or the two class files TruePath and FakePath are read.
type DataSource struct {
	TruePath    string
	FakePath    string
	CSVPath     string
	TextColumn  string
	LabelColumn string
}

// DirSource returns the two-file layout: True.csv and Fake.csv with a title column
func DirSource(dir string) DataSource {
	return DataSource{
		TruePath:   filepath.Join(dir, "True.csv"),
		FakePath:   filepath.Join(dir, "Fake.csv"),
		TextColumn: "title",
	}
}

// Load reads every labeled headline from the source
func (ds DataSource) Load() ([]Sample, error) {
	textColumn := ds.TextColumn
	if textColumn == "" {
		textColumn = "title"
	}

	if ds.CSVPath != "" {
		labelColumn := ds.LabelColumn
		if labelColumn == "" {
			labelColumn = "label"
		}
		return readLabeledCSV(ds.CSVPath, textColumn, labelColumn)
	}

	if ds.TruePath == "" || ds.FakePath == "" {
		return nil, fmt.Errorf("%w: no dataset configured", core.ErrConfiguration)
	}
	realSamples, err := readClassCSV(ds.TruePath, textColumn, core.LabelReal)
	if err != nil {
		return nil, err
	}
	fakeSamples, err := readClassCSV(ds.FakePath, textColumn, core.LabelFake)
	if err != nil {
		return nil, err
	}
	return append(realSamples, fakeSamples...), nil
}

// ParseLabel accepts REAL, FAKE, 1, 0, true and false in any case
func ParseLabel(s string) (core.Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real", "1", "true":
		return core.LabelReal, nil
	case "fake", "0", "false":
		return core.LabelFake, nil
	}
	return core.LabelFake, fmt.Errorf("%w: unrecognized label %q", core.ErrConfiguration, s)
}

func readClassCSV(path, textColumn string, label core.Label) ([]Sample, error) {
	var samples []Sample
	err := eachRecord(path, []string{textColumn}, func(fields []string) error {
		samples = append(samples, Sample{Text: fields[0], Label: label})
		return nil
	})
	return samples, err
}

func readLabeledCSV(path, textColumn, labelColumn string) ([]Sample, error) {
	var samples []Sample
	err := eachRecord(path, []string{textColumn, labelColumn}, func(fields []string) error {
		label, err := ParseLabel(fields[1])
		if err != nil {
			return err
		}
		samples = append(samples, Sample{Text: fields[0], Label: label})
		return nil
	})
	return samples, err
}

// eachRecord streams a headed CSV file, passing the named columns of every row
func eachRecord(path string, columns []string, fn func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open dataset %s: %v", core.ErrConfiguration, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: read header of %s: %v", core.ErrConfiguration, path, err)
	}
	positions := make([]int, len(columns))
	for i, col := range columns {
		positions[i] = indexOf(header, col)
		if positions[i] < 0 {
			return fmt.Errorf("%w: %s has no %q column", core.ErrConfiguration, path, col)
		}
	}

	line := 1
	fields := make([]string, len(columns))
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", core.ErrConfiguration, path, line, err)
		}
		for i, pos := range positions {
			if pos >= len(record) {
				fields[i] = ""
				continue
			}
			fields[i] = record[pos]
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

func indexOf(header []string, column string) int {
	for i, h := range header {
		// strip a UTF-8 byte order mark on the first column
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), column) {
			return i
		}
	}
	return -1
}
