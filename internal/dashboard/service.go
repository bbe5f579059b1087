package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"studentlife-dashboard/internal/cohort"
	"studentlife-dashboard/internal/ingest"
	"studentlife-dashboard/internal/platform/logger"
)

// ErrUnknownSource is returned when a reload names an unregistered source.
var ErrUnknownSource = errors.New("unknown source")

// Loader is the record loader the dashboard drives.
type Loader interface {
	Sample() ([]cohort.BehavioralRecord, ingest.LoadReport)
	LoadOrSample(ctx context.Context, src ingest.Source) ([]cohort.BehavioralRecord, ingest.LoadReport)
}

// ReportRenderer turns a state into a downloadable document.
type ReportRenderer interface {
	Render(ctx context.Context, st State) ([]byte, error)
}

type Service interface {
	Current() State
	Reload(ctx context.Context, source string) (State, error)
	Predict(in PredictInput) Prediction
	Policy() cohort.Policy
	Sources() []string
	Report(ctx context.Context) ([]byte, error)
}

type service struct {
	policy  cohort.Policy
	loader  Loader
	sources map[string]ingest.Source
	report  ReportRenderer
	log     *logger.Logger

	mu    sync.RWMutex
	state State
}

// NewService starts from the embedded sample batch. sources maps reload
// names to external sources; the name "sample" is always available.
func NewService(policy cohort.Policy, loader Loader, sources map[string]ingest.Source, report ReportRenderer, log *logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &service{
		policy:  policy,
		loader:  loader,
		sources: sources,
		report:  report,
		log:     log,
	}
	records, load := loader.Sample()
	s.state = s.analyze(records, load)
	return s
}

func (s *service) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Reload replaces the batch. External sources that fail fall back to the
// sample batch; the notice travels in State.Load.
func (s *service) Reload(ctx context.Context, source string) (State, error) {
	var (
		records []cohort.BehavioralRecord
		load    ingest.LoadReport
	)
	if source == "" || source == ingest.SampleSourceName {
		records, load = s.loader.Sample()
	} else {
		src, ok := s.sources[source]
		if !ok {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownSource, source)
		}
		records, load = s.loader.LoadOrSample(ctx, src)
	}

	st := s.analyze(records, load)
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	s.log.Info("batch replaced",
		"source", load.Source,
		"load_id", load.ID,
		"participants", st.Summary.TotalParticipants,
		"fell_back", load.FellBack,
	)
	return st, nil
}

func (s *service) analyze(records []cohort.BehavioralRecord, load ingest.LoadReport) State {
	return State{
		Records: records,
		Summary: cohort.Analyze(s.policy, records),
		Load:    load,
	}
}

// Predict scores a validated input.
func (s *service) Predict(in PredictInput) Prediction {
	a := cohort.Score(s.policy, *in.SleepHours, *in.ExercisePercent, *in.SocialScore)
	return Prediction{
		ID:                 uuid.New(),
		RiskAssessment:     a,
		ProbabilityPercent: a.ProbabilityPercent(),
	}
}

func (s *service) Policy() cohort.Policy {
	return s.policy
}

// Sources lists the names Reload accepts.
func (s *service) Sources() []string {
	names := []string{ingest.SampleSourceName}
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

func (s *service) Report(ctx context.Context) ([]byte, error) {
	return s.report.Render(ctx, s.Current())
}
