package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pbanos/grove/likelihood"
)

const (
	// FeatureColumn is the header for the column with the features
	FeatureColumn = "feature"
	// LabelColumn is the header for the column with the labels
	LabelColumn = "label"
)

/*
ReadSamples takes an io.Reader for a CSV stream and returns the
likelihood.Samples parsed from it or an error.

The header or first row of the CSV content is expected to contain a
"feature" and a "label" column, in any order and possibly among other
columns that are ignored. The rest of the rows should consist of a real
number for the feature and an integer for the label.
*/
func ReadSamples(reader io.Reader) (*likelihood.Samples, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	fi, li, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	var (
		features []float64
		labels   []int
	)
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(row[fi]), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing feature on line %d: %v", l, err)
		}
		lbl, err := strconv.Atoi(strings.TrimSpace(row[li]))
		if err != nil {
			return nil, fmt.Errorf("parsing label on line %d: %v", l, err)
		}
		features = append(features, f)
		labels = append(labels, lbl)
	}
	return likelihood.NewSamples(features, labels)
}

/*
ReadSamplesFromFilePath takes a filepath string, opens the file to which
it points and uses ReadSamples to return the likelihood.Samples read from
it or an error. It will return an error if the given filepath cannot be
opened for reading.
*/
func ReadSamplesFromFilePath(filepath string) (*likelihood.Samples, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening samples CSV file %s: %v", filepath, err)
	}
	defer f.Close()
	s, err := ReadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("reading samples CSV file %s: %w", filepath, err)
	}
	return s, nil
}

func parseHeader(header []string) (int, int, error) {
	fi, li := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case FeatureColumn:
			fi = i
		case LabelColumn:
			li = i
		}
	}
	if fi < 0 {
		return 0, 0, fmt.Errorf("header %v has no %q column", header, FeatureColumn)
	}
	if li < 0 {
		return 0, 0, fmt.Errorf("header %v has no %q column", header, LabelColumn)
	}
	return fi, li, nil
}
