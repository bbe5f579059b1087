package dashboard

import (
	"github.com/google/uuid"

	"studentlife-dashboard/internal/cohort"
	"studentlife-dashboard/internal/ingest"
)

// State is everything the dashboard shows for the current batch. A reload
// replaces it wholesale.
type State struct {
	Records []cohort.BehavioralRecord `json:"records"`
	Summary cohort.CohortSummary      `json:"summary"`
	Load    ingest.LoadReport         `json:"load"`
}

// PredictInput is one scorer request. Ranges match the dashboard form.
type PredictInput struct {
	SleepHours      *float64 `json:"sleep_hours" validate:"required,gte=3,lte=12"`
	ExercisePercent *float64 `json:"exercise_percent" validate:"required,gte=0,lte=100"`
	SocialScore     *float64 `json:"social_score" validate:"required,gte=1,lte=6"`
}

// Prediction is a scored request. It is never stored.
type Prediction struct {
	ID uuid.UUID `json:"id"`
	cohort.RiskAssessment
	ProbabilityPercent int `json:"probability_percent"`
}

// Preset is a quick-test input shown next to the scorer form.
type Preset struct {
	Label           string  `json:"label"`
	SleepHours      float64 `json:"sleep_hours"`
	ExercisePercent float64 `json:"exercise_percent"`
	SocialScore     float64 `json:"social_score"`
}

var presets = []Preset{
	{Label: "High Risk", SleepHours: 4.5, ExercisePercent: 8, SocialScore: 1.2},
	{Label: "Medium Risk", SleepHours: 6.2, ExercisePercent: 22, SocialScore: 2.8},
	{Label: "Low Risk", SleepHours: 7.8, ExercisePercent: 55, SocialScore: 4.2},
}

// Presets returns the quick-test inputs.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}
