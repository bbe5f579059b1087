package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source yields the four tables a load joins. Any error aborts the load.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Tables, error)
}

// File names of the StudentLife summary exports.
const (
	SurveyFile   = "PHQ9.csv"
	SleepFile    = "sleep_summary.csv"
	ExerciseFile = "exercise_summary.csv"
	SocialFile   = "social_summary.csv"
)

// DirSource reads the four CSV exports from one directory.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (s *DirSource) Name() string { return "files" }

func (s *DirSource) Fetch(ctx context.Context) (*Tables, error) {
	var t Tables

	err := s.parse(ctx, SurveyFile, func(r io.Reader) error {
		rows, bad, err := ParseSurveyCSV(r)
		t.Surveys, t.Malformed = rows, t.Malformed+bad
		return err
	})
	if err != nil {
		return nil, err
	}

	measures := []struct {
		file   string
		column string
		dst    *[]MeasureRow
	}{
		{SleepFile, SleepColumn, &t.Sleep},
		{ExerciseFile, ExerciseColumn, &t.Exercise},
		{SocialFile, SocialColumn, &t.Social},
	}
	for _, m := range measures {
		m := m
		err := s.parse(ctx, m.file, func(r io.Reader) error {
			rows, bad, err := ParseMeasureCSV(r, m.column)
			*m.dst, t.Malformed = rows, t.Malformed+bad
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (s *DirSource) parse(ctx context.Context, name string, fn func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, name, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
	}
	return nil
}
