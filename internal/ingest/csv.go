package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	surveyKeyColumn  = "uid"
	surveyTypeColumn = "type"
	measureKeyColumn = "user"
)

// ParseSurveyCSV reads a PHQ-9 export. The uid column is required; question
// columns that are absent leave those items unanswered.
func ParseSurveyCSV(r io.Reader) ([]SurveyRow, int, error) {
	cr := newReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, 0, err
	}
	keyIdx, ok := header[surveyKeyColumn]
	if !ok {
		return nil, 0, fmt.Errorf("%w: missing column %q", ErrMalformedRow, surveyKeyColumn)
	}
	typeIdx, hasType := header[surveyTypeColumn]
	var questionIdx [NumQuestions]int
	for i, q := range Questions {
		idx, ok := header[q]
		if !ok {
			idx = -1
		}
		questionIdx[i] = idx
	}

	var (
		rows      []SurveyRow
		malformed int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read survey: %w", err)
		}
		subject := field(rec, keyIdx)
		if subject == "" {
			if !blank(rec) {
				malformed++
			}
			continue
		}
		row := SurveyRow{Subject: subject}
		if hasType {
			row.Phase = field(rec, typeIdx)
		}
		for i, idx := range questionIdx {
			row.Answers[i] = field(rec, idx)
		}
		rows = append(rows, row)
	}
	return rows, malformed, nil
}

// ParseMeasureCSV reads a behavioral summary export keyed by the user column
// with one numeric measurement column. Rows whose measurement is blank or not
// a number are dropped and counted.
func ParseMeasureCSV(r io.Reader, column string) ([]MeasureRow, int, error) {
	cr := newReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, 0, err
	}
	keyIdx, ok := header[measureKeyColumn]
	if !ok {
		return nil, 0, fmt.Errorf("%w: missing column %q", ErrMalformedRow, measureKeyColumn)
	}
	valIdx, ok := header[column]
	if !ok {
		return nil, 0, fmt.Errorf("%w: missing column %q", ErrMalformedRow, column)
	}

	var (
		rows      []MeasureRow
		malformed int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", column, err)
		}
		if blank(rec) {
			continue
		}
		subject := field(rec, keyIdx)
		v, err := strconv.ParseFloat(field(rec, valIdx), 64)
		if subject == "" || err != nil {
			malformed++
			continue
		}
		rows = append(rows, MeasureRow{Subject: subject, Value: v})
	}
	return rows, malformed, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

func readHeader(cr *csv.Reader) (map[string]int, error) {
	rec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedRow)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(rec))
	for i, name := range rec {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := header[name]; !dup {
			header[name] = i
		}
	}
	return header, nil
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
