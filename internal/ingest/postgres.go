package ingest

import (
	"context"
	"database/sql"
	"fmt"
)

const surveyQuery = `SELECT uid, COALESCE(type, ''), q1, q2, q3, q4, q5, q6, q7, q8, q9 FROM phq9_responses ORDER BY id`

// PostgresSource reads the four tables created by the migrations.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Fetch(ctx context.Context) (*Tables, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: postgres: no database connection", ErrSourceUnavailable)
	}

	var t Tables
	surveys, bad, err := s.surveys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: phq9_responses: %w", ErrSourceUnavailable, err)
	}
	t.Surveys = surveys
	t.Malformed += bad

	measures := []struct {
		table  string
		column string
		dst    *[]MeasureRow
	}{
		{"sleep_summary", SleepColumn, &t.Sleep},
		{"exercise_summary", ExerciseColumn, &t.Exercise},
		{"social_summary", SocialColumn, &t.Social},
	}
	for _, m := range measures {
		rows, bad, err := s.measures(ctx, m.table, m.column)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, m.table, err)
		}
		*m.dst = rows
		t.Malformed += bad
	}
	return &t, nil
}

func (s *PostgresSource) surveys(ctx context.Context) ([]SurveyRow, int, error) {
	rows, err := s.db.QueryContext(ctx, surveyQuery)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out       []SurveyRow
		malformed int
	)
	for rows.Next() {
		var (
			row     SurveyRow
			answers [NumQuestions]sql.NullString
		)
		dest := []any{&row.Subject, &row.Phase}
		for i := range answers {
			dest = append(dest, &answers[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		if row.Subject == "" {
			malformed++
			continue
		}
		for i, a := range answers {
			row.Answers[i] = a.String
		}
		out = append(out, row)
	}
	return out, malformed, rows.Err()
}

// measures reads one summary table. The table and column names come from the
// fixed list in Fetch, never from input.
func (s *PostgresSource) measures(ctx context.Context, table, column string) ([]MeasureRow, int, error) {
	query := fmt.Sprintf(`SELECT user_id, %s FROM %s ORDER BY id`, column, table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out       []MeasureRow
		malformed int
	)
	for rows.Next() {
		var (
			subject string
			value   sql.NullFloat64
		)
		if err := rows.Scan(&subject, &value); err != nil {
			return nil, 0, err
		}
		if subject == "" || !value.Valid {
			malformed++
			continue
		}
		out = append(out, MeasureRow{Subject: subject, Value: value.Float64})
	}
	return out, malformed, rows.Err()
}
