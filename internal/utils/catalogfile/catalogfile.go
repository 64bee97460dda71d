// Package catalogfile reads ingredient and tag fixtures from CSV or JSON.
package catalogfile

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"foodgram/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown catalog file format")

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// readRows returns CSV records with two columns. A first row equal to
// header is skipped.
func readRows(r io.Reader, header [2]string) ([][2]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows [][2]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(record[0], header[0]) && strings.EqualFold(record[1], header[1]) {
			continue
		}
		rows = append(rows, [2]string{record[0], record[1]})
	}
}

func ReadIngredients(r io.Reader, format Format) ([]domain.Ingredient, error) {
	switch format {
	case FormatJSON:
		var out []domain.Ingredient
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode ingredients: %w", err)
		}
		return out, nil
	case FormatCSV:
		rows, err := readRows(r, [2]string{"name", "measurement_unit"})
		if err != nil {
			return nil, fmt.Errorf("failed to read ingredients: %w", err)
		}
		out := make([]domain.Ingredient, len(rows))
		for i, row := range rows {
			out[i] = domain.Ingredient{Name: row[0], MeasurementUnit: row[1]}
		}
		return out, nil
	default:
		return nil, ErrUnknownFormat
	}
}

func ReadTags(r io.Reader, format Format) ([]domain.Tag, error) {
	switch format {
	case FormatJSON:
		var out []domain.Tag
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		return out, nil
	case FormatCSV:
		rows, err := readRows(r, [2]string{"name", "slug"})
		if err != nil {
			return nil, fmt.Errorf("failed to read tags: %w", err)
		}
		out := make([]domain.Tag, len(rows))
		for i, row := range rows {
			out[i] = domain.Tag{Name: row[0], Slug: row[1]}
		}
		return out, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// Open opens path and returns it with its detected format.
func Open(path string) (*os.File, Format, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, format, nil
}
