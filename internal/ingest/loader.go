package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"studentlife-dashboard/internal/cohort"
	"studentlife-dashboard/internal/platform/logger"
)

// DefaultKeySuffix is appended to subject ids in the behavioral exports.
const DefaultKeySuffix = ".json"

// SampleSourceName labels batches built from the embedded sample.
const SampleSourceName = "sample"

// LoadReport describes one load attempt.
type LoadReport struct {
	ID                    uuid.UUID `json:"id"`
	Source                string    `json:"source"`
	LoadedAt              time.Time `json:"loaded_at"`
	Surveys               int       `json:"surveys"`
	Records               int       `json:"records"`
	InsufficientResponses int       `json:"insufficient_responses"`
	IncompleteJoin        int       `json:"incomplete_join"`
	Duplicates            int       `json:"duplicates"`
	OtherPhase            int       `json:"other_phase"`
	Malformed             int       `json:"malformed"`
	FellBack              bool      `json:"fell_back"`
	Notice                string    `json:"notice,omitempty"`
}

type Loader struct {
	policy    cohort.Policy
	keySuffix string
	phase     string
	log       *logger.Logger
}

type Option func(*Loader)

// WithKeySuffix sets the suffix tolerated on behavioral join keys.
func WithKeySuffix(suffix string) Option {
	return func(l *Loader) { l.keySuffix = suffix }
}

// WithPhase keeps only questionnaires from one survey phase, e.g. "pre".
func WithPhase(phase string) Option {
	return func(l *Loader) { l.phase = phase }
}

func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

func NewLoader(policy cohort.Policy, opts ...Option) *Loader {
	l := &Loader{
		policy:    policy,
		keySuffix: DefaultKeySuffix,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Sample returns the embedded batch.
func (l *Loader) Sample() ([]cohort.BehavioralRecord, LoadReport) {
	records := cohort.SampleRecords(l.policy)
	return records, LoadReport{
		ID:       uuid.New(),
		Source:   SampleSourceName,
		LoadedAt: time.Now(),
		Records:  len(records),
	}
}

// Load fetches the tables from src and joins them. A fetch failure is
// returned wrapped in ErrSourceUnavailable and no records are produced.
func (l *Loader) Load(ctx context.Context, src Source) ([]cohort.BehavioralRecord, LoadReport, error) {
	tables, err := src.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, ErrSourceUnavailable) {
			err = errors.Join(ErrSourceUnavailable, err)
		}
		return nil, LoadReport{Source: src.Name()}, err
	}
	records, report := l.Join(tables)
	report.Source = src.Name()
	l.log.Info("loaded records",
		"source", report.Source,
		"load_id", report.ID,
		"records", report.Records,
		"insufficient_responses", report.InsufficientResponses,
		"incomplete_join", report.IncompleteJoin,
		"duplicates", report.Duplicates,
		"malformed", report.Malformed,
	)
	return records, report, nil
}

// LoadOrSample loads from src and falls back to the embedded sample when the
// source cannot be read. The returned report carries a user-facing notice
// in that case.
func (l *Loader) LoadOrSample(ctx context.Context, src Source) ([]cohort.BehavioralRecord, LoadReport) {
	records, report, err := l.Load(ctx, src)
	if err == nil {
		return records, report
	}
	l.log.Warn("external load failed, using sample data", "source", src.Name(), "error", err)
	records, report = l.Sample()
	report.FellBack = true
	report.Notice = "Error loading " + src.Name() + " data. Using sample data instead."
	return records, report
}

// Join turns typed source rows into records. Questionnaires with too few
// answers, or whose subject is missing from any behavioral table, are
// dropped and counted.
func (l *Loader) Join(t *Tables) ([]cohort.BehavioralRecord, LoadReport) {
	report := LoadReport{
		ID:        uuid.New(),
		LoadedAt:  time.Now(),
		Surveys:   len(t.Surveys),
		Malformed: t.Malformed,
	}
	sleep := l.index(t.Sleep)
	exercise := l.index(t.Exercise)
	social := l.index(t.Social)

	seen := make(map[string]bool, len(t.Surveys))
	records := make([]cohort.BehavioralRecord, 0, len(t.Surveys))
	for _, row := range t.Surveys {
		if l.phase != "" && !strings.EqualFold(row.Phase, l.phase) {
			report.OtherPhase++
			continue
		}
		phq9, err := ScorePHQ9(row.Answers)
		if err != nil {
			report.InsufficientResponses++
			continue
		}
		s, okSleep := sleep[row.Subject]
		e, okExercise := exercise[row.Subject]
		so, okSocial := social[row.Subject]
		if !okSleep || !okExercise || !okSocial {
			report.IncompleteJoin++
			continue
		}
		if seen[row.Subject] {
			report.Duplicates++
			continue
		}
		seen[row.Subject] = true
		records = append(records, cohort.NewRecord(l.policy, row.Subject, phq9, s, e, so))
	}
	report.Records = len(records)
	return records, report
}

// index keys measurements by subject with the export suffix removed. The
// first row for a subject wins.
func (l *Loader) index(rows []MeasureRow) map[string]float64 {
	m := make(map[string]float64, len(rows))
	for _, r := range rows {
		key := r.Subject
		if l.keySuffix != "" {
			key = strings.TrimSuffix(key, l.keySuffix)
		}
		if _, ok := m[key]; !ok {
			m[key] = r.Value
		}
	}
	return m
}
