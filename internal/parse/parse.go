// Package parse turns uploaded CSV and Excel files into lead records.
// Column headers are matched against prioritised alias lists after
// canonicalisation, so "First Name", "firstname" and "FIRSTNAME" all resolve
// to the same field.
package parse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alanyang/leadroute/internal/domain/lead"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: only csv and xlsx are accepted")
	ErrEmptyFile         = errors.New("file is empty or could not be parsed")

	// ErrMissingRequiredFields rejects the whole upload: a partial file would
	// silently drop leads.
	ErrMissingRequiredFields = errors.New("file contains rows missing required fields: first name and phone")
)

// Alias lists in priority order. Comparison happens after canonicalise(), so
// these only need to cover distinct shapes, not case/spacing variants.
var (
	firstNameAliases = []string{"firstname", "fname"}
	phoneAliases     = []string{"phone", "phonenumber", "mobile"}
	notesAliases     = []string{"notes", "note", "comments", "comment", "remarks"}
)

// File parses the named upload based on its extension.
func File(path string) ([]lead.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSVFile(path)
	case ".xlsx":
		return parseExcel(path)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// CSV parses CSV content from a reader. Split out from File so tests and
// other callers can parse without touching the filesystem.
func CSV(r io.Reader) ([]lead.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols := resolveColumns(header)

	var records []lead.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		records = append(records, cols.extract(row))
	}
	return validate(records)
}

func parseCSVFile(path string) ([]lead.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}
	defer f.Close()
	return CSV(f)
}

func parseExcel(path string) ([]lead.Record, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	// First sheet only, matching the common export shape.
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	cols := resolveColumns(rows[0])
	var records []lead.Record
	for _, row := range rows[1:] {
		records = append(records, cols.extract(row))
	}
	return validate(records)
}

func validate(records []lead.Record) ([]lead.Record, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	for _, r := range records {
		if !r.Valid() {
			return nil, ErrMissingRequiredFields
		}
	}
	return records, nil
}

// columnIndexes holds the resolved position of each field in the header row,
// -1 when absent.
type columnIndexes struct {
	firstName int
	phone     int
	notes     int
}

func resolveColumns(header []string) columnIndexes {
	canon := make(map[string]int, len(header))
	for i, h := range header {
		key := canonicalise(h)
		if _, exists := canon[key]; !exists {
			canon[key] = i
		}
	}
	return columnIndexes{
		firstName: resolve(canon, firstNameAliases),
		phone:     resolve(canon, phoneAliases),
		notes:     resolve(canon, notesAliases),
	}
}

func resolve(canon map[string]int, aliases []string) int {
	for _, a := range aliases {
		if idx, ok := canon[canonicalise(a)]; ok {
			return idx
		}
	}
	return -1
}

// canonicalise lowercases and strips spaces, underscores and BOM so that the
// alias lists match every case/spacing variant of a header.
func canonicalise(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func (c columnIndexes) extract(row []string) lead.Record {
	return lead.Record{
		FirstName: cell(row, c.firstName),
		Phone:     cell(row, c.phone),
		Notes:     cell(row, c.notes),
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
