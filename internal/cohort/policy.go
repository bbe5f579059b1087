package cohort

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Weights are the contributions of each triggered indicator to the risk score.
type Weights struct {
	Sleep    float64 `json:"sleep" yaml:"sleep" validate:"gte=0"`
	Exercise float64 `json:"exercise" yaml:"exercise" validate:"gte=0"`
	Social   float64 `json:"social" yaml:"social" validate:"gte=0"`
}

// Cutoffs are the behavioral thresholds below which an indicator fires.
type Cutoffs struct {
	SleepHours      float64 `json:"sleep_hours" yaml:"sleep_hours" validate:"gte=0"`
	ExercisePercent float64 `json:"exercise_percent" yaml:"exercise_percent" validate:"gte=0,lte=100"`
	SocialScore     float64 `json:"social_score" yaml:"social_score" validate:"gte=0"`
}

// Tiers are the lower bounds of the Medium and High risk levels.
type Tiers struct {
	Medium float64 `json:"medium" yaml:"medium" validate:"gte=0"`
	High   float64 `json:"high" yaml:"high" validate:"gtefield=Medium"`
}

// Probabilities is the fixed per-level probability lookup.
type Probabilities struct {
	Low    float64 `json:"low" yaml:"low" validate:"gte=0,lte=1"`
	Medium float64 `json:"medium" yaml:"medium" validate:"gte=0,lte=1"`
	High   float64 `json:"high" yaml:"high" validate:"gte=0,lte=1"`
}

// Advice holds the recommendation strings, one per indicator plus the
// escalation appended for high scores.
type Advice struct {
	Sleep      string `json:"sleep" yaml:"sleep" validate:"required"`
	Exercise   string `json:"exercise" yaml:"exercise" validate:"required"`
	Social     string `json:"social" yaml:"social" validate:"required"`
	Escalation string `json:"escalation" yaml:"escalation" validate:"required"`
}

// Policy collects every constant of the scoring heuristic. The values are an
// unvalidated clinical rule of thumb and can be overridden from YAML.
type Policy struct {
	Weights           Weights             `json:"weights" yaml:"weights"`
	Cutoffs           Cutoffs             `json:"cutoffs" yaml:"cutoffs"`
	Tiers             Tiers               `json:"tiers" yaml:"tiers"`
	Probabilities     Probabilities       `json:"probabilities" yaml:"probabilities"`
	Advice            Advice              `json:"advice" yaml:"advice"`
	// PredictHighAt is the risk score at which the analyzer predicts depression.
	PredictHighAt     float64             `json:"predict_high_at" yaml:"predict_high_at" validate:"gte=0"`
	FeatureImportance []FeatureImportance `json:"feature_importance" yaml:"feature_importance" validate:"required,min=1,dive"`
}

// DefaultPolicy returns the stock heuristic.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{Sleep: 2.0, Exercise: 1.5, Social: 2.5},
		Cutoffs: Cutoffs{SleepHours: 6, ExercisePercent: 25, SocialScore: 2},
		Tiers:   Tiers{Medium: 1.5, High: 3.0},
		Probabilities: Probabilities{
			Low:    0.08,
			Medium: 0.25,
			High:   0.65,
		},
		Advice: Advice{
			Sleep:      "Improve sleep: Aim for 7-8 hours nightly",
			Exercise:   "Increase exercise: 20+ minutes daily",
			Social:     "Boost social connections",
			Escalation: "Consider counseling services",
		},
		PredictHighAt: 3.0,
		FeatureImportance: []FeatureImportance{
			{Feature: "Sleep Quality", Importance: 0.40, Description: "Poor sleep patterns (<6h, >9h)"},
			{Feature: "Social Connections", Importance: 0.35, Description: "Social isolation and low contact"},
			{Feature: "Exercise Frequency", Importance: 0.25, Description: "Low physical activity (<25% days)"},
		},
	}
}

// MaxScore is the score reached when every indicator fires.
func (p Policy) MaxScore() float64 {
	return p.Weights.Sleep + p.Weights.Exercise + p.Weights.Social
}

var policyValidate = validator.New()

// ErrInvalidPolicy is returned when a policy fails validation.
var ErrInvalidPolicy = errors.New("invalid policy")

// Validate checks field ranges and that feature importances sum to 1.
func (p Policy) Validate() error {
	if err := policyValidate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	var sum float64
	for _, f := range p.FeatureImportance {
		sum += f.Importance
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("%w: feature importances sum to %.3f, want 1.0", ErrInvalidPolicy, sum)
	}
	return nil
}

// LoadPolicy reads a YAML file layered over DefaultPolicy. An empty path
// returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
