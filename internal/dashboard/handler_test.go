package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentlife-dashboard/internal/cohort"
	"studentlife-dashboard/internal/ingest"
)

type brokenSource struct{}

func (brokenSource) Name() string { return "files" }

func (brokenSource) Fetch(context.Context) (*ingest.Tables, error) {
	return nil, ingest.ErrSourceUnavailable
}

type tableSource struct{ t *ingest.Tables }

func (s tableSource) Name() string { return "postgres" }

func (s tableSource) Fetch(context.Context) (*ingest.Tables, error) { return s.t, nil }

type stubRenderer struct {
	got State
	err error
}

func (r *stubRenderer) Render(_ context.Context, st State) ([]byte, error) {
	r.got = st
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

func allAnswered(answer string) [ingest.NumQuestions]string {
	var a [ingest.NumQuestions]string
	for i := range a {
		a[i] = answer
	}
	return a
}

func newTestRouter(t *testing.T, renderer ReportRenderer) (http.Handler, Service) {
	t.Helper()
	p := cohort.DefaultPolicy()
	external := tableSource{t: &ingest.Tables{
		Surveys:  []ingest.SurveyRow{{Subject: "u42", Answers: allAnswered("More than half the days")}},
		Sleep:    []ingest.MeasureRow{{Subject: "u42.json", Value: 5}},
		Exercise: []ingest.MeasureRow{{Subject: "u42.json", Value: 10}},
		Social:   []ingest.MeasureRow{{Subject: "u42.json", Value: 3}},
	}}
	svc := NewService(p, ingest.NewLoader(p), map[string]ingest.Source{
		"files":    brokenSource{},
		"postgres": external,
	}, renderer, nil)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, NewHandler(svc))
	})
	return r, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetCohortStartsWithSample(t *testing.T) {
	h, _ := newTestRouter(t, &stubRenderer{})
	rec := do(t, h, http.MethodGet, "/api/cohort", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Len(t, st.Records, 8)
	assert.Equal(t, 8, st.Summary.TotalParticipants)
	assert.InDelta(t, 37.5, st.Summary.DepressionRate, 1e-9)
	assert.Equal(t, ingest.SampleSourceName, st.Load.Source)
}

func TestReloadCohort(t *testing.T) {
	t.Run("external_source", func(t *testing.T) {
		h, svc := newTestRouter(t, &stubRenderer{})
		rec := do(t, h, http.MethodPost, "/api/cohort/reload", `{"source":"postgres"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var st State
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
		require.Len(t, st.Records, 1)
		assert.Equal(t, "u42", st.Records[0].Subject)
		assert.Equal(t, 18, st.Records[0].PHQ9)
		assert.Equal(t, "postgres", st.Load.Source)
		assert.Equal(t, 1, svc.Current().Summary.TotalParticipants)
	})

	t.Run("failing_source_falls_back", func(t *testing.T) {
		h, _ := newTestRouter(t, &stubRenderer{})
		rec := do(t, h, http.MethodPost, "/api/cohort/reload", `{"source":"files"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var st State
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
		assert.Len(t, st.Records, 8)
		assert.True(t, st.Load.FellBack)
		assert.NotEmpty(t, st.Load.Notice)
	})

	t.Run("sample_without_body", func(t *testing.T) {
		h, _ := newTestRouter(t, &stubRenderer{})
		rec := do(t, h, http.MethodPost, "/api/cohort/reload", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown_source", func(t *testing.T) {
		h, _ := newTestRouter(t, &stubRenderer{})
		rec := do(t, h, http.MethodPost, "/api/cohort/reload", `{"source":"s3"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad_json", func(t *testing.T) {
		h, _ := newTestRouter(t, &stubRenderer{})
		rec := do(t, h, http.MethodPost, "/api/cohort/reload", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPredict(t *testing.T) {
	h, _ := newTestRouter(t, &stubRenderer{})

	t.Run("high_risk", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/predict", `{"sleep_hours":5,"exercise_percent":24,"social_score":1}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			ID                 string           `json:"id"`
			RiskScore          float64          `json:"risk_score"`
			RiskLevel          cohort.RiskLevel `json:"risk_level"`
			ProbabilityPercent int              `json:"probability_percent"`
			Recommendations    []string         `json:"recommendations"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.NotEmpty(t, got.ID)
		assert.InDelta(t, 6.0, got.RiskScore, 1e-9)
		assert.Equal(t, cohort.RiskHigh, got.RiskLevel)
		assert.Equal(t, 65, got.ProbabilityPercent)
		assert.Len(t, got.Recommendations, 4)
	})

	t.Run("zero_exercise_is_valid", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/predict", `{"sleep_hours":7,"exercise_percent":0,"social_score":3}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	invalid := map[string]string{
		"sleep_too_low":    `{"sleep_hours":2,"exercise_percent":30,"social_score":3}`,
		"exercise_too_big": `{"sleep_hours":7,"exercise_percent":101,"social_score":3}`,
		"social_too_low":   `{"sleep_hours":7,"exercise_percent":30,"social_score":0.5}`,
		"missing_field":    `{"sleep_hours":7,"exercise_percent":30}`,
	}
	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/predict", body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}

	t.Run("bad_json", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/predict", `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPresetsScoreAsLabelled(t *testing.T) {
	p := cohort.DefaultPolicy()
	want := map[string]cohort.RiskLevel{
		"High Risk":   cohort.RiskHigh,
		"Medium Risk": cohort.RiskMedium,
		"Low Risk":    cohort.RiskLow,
	}
	for _, pr := range Presets() {
		got := cohort.Score(p, pr.SleepHours, pr.ExercisePercent, pr.SocialScore)
		assert.Equal(t, want[pr.Label], got.Level, pr.Label)
	}

	h, _ := newTestRouter(t, &stubRenderer{})
	rec := do(t, h, http.MethodGet, "/api/predict/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var presets []Preset
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&presets))
	assert.Len(t, presets, 3)
}

func TestGetPolicyAndSources(t *testing.T) {
	h, _ := newTestRouter(t, &stubRenderer{})

	rec := do(t, h, http.MethodGet, "/api/policy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p cohort.Policy
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, cohort.DefaultPolicy(), p)

	rec = do(t, h, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sources map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sources))
	assert.Equal(t, []string{"sample", "files", "postgres"}, sources["sources"])
}

func TestGetReport(t *testing.T) {
	renderer := &stubRenderer{}
	h, _ := newTestRouter(t, renderer)

	rec := do(t, h, http.MethodGet, "/api/cohort/report.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	assert.Equal(t, 8, renderer.got.Summary.TotalParticipants)

	renderer.err = errors.New("no font")
	rec = do(t, h, http.MethodGet, "/api/cohort/report.pdf", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
