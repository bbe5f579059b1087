package cohort

// Severity is the PHQ-9 severity tier.
type Severity string

const (
	SeverityMinimal  Severity = "minimal"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Severities lists the tiers in ascending order.
var Severities = []Severity{SeverityMinimal, SeverityMild, SeverityModerate, SeveritySevere}

// RiskLevel is the tier assigned by the scorer.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// DepressionCutoff is the PHQ-9 total at which a subject counts as depressed.
const DepressionCutoff = 10

// MaxPHQ9 is the highest possible PHQ-9 total.
const MaxPHQ9 = 27

// BehavioralRecord is one subject of a batch. Build it with NewRecord so the
// derived fields stay consistent with the inputs.
type BehavioralRecord struct {
	Subject   string   `json:"uid"`
	PHQ9      int      `json:"phq9_score"`
	Depressed bool     `json:"depression_binary"`
	Severity  Severity `json:"depression_severity"`
	Sleep     float64  `json:"sleep"`
	Exercise  float64  `json:"exercise"`
	Social    float64  `json:"social"`
	RiskScore float64  `json:"risk_score"`
}

// NewRecord derives the depression flag, severity tier and risk score.
func NewRecord(p Policy, subject string, phq9 int, sleep, exercise, social float64) BehavioralRecord {
	return BehavioralRecord{
		Subject:   subject,
		PHQ9:      phq9,
		Depressed: IsDepressed(phq9),
		Severity:  SeverityFor(phq9),
		Sleep:     sleep,
		Exercise:  exercise,
		Social:    social,
		RiskScore: p.Indicators(sleep, exercise, social).Score(p.Weights),
	}
}

// IsDepressed reports whether a PHQ-9 total meets the depression cutoff.
func IsDepressed(phq9 int) bool {
	return phq9 >= DepressionCutoff
}

// SeverityFor maps a PHQ-9 total onto its tier.
func SeverityFor(phq9 int) Severity {
	switch {
	case phq9 <= 4:
		return SeverityMinimal
	case phq9 <= 9:
		return SeverityMild
	case phq9 <= 14:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// FeatureImportance is one row of the static importance table.
type FeatureImportance struct {
	Feature     string  `json:"feature" yaml:"feature" validate:"required"`
	Importance  float64 `json:"importance" yaml:"importance" validate:"gte=0,lte=1"`
	Description string  `json:"description" yaml:"description"`
}

// GroupAverages holds the behavioral means of one group.
type GroupAverages struct {
	Count    int     `json:"count"`
	Sleep    float64 `json:"avg_sleep"`
	Exercise float64 `json:"avg_exercise"`
	Social   float64 `json:"avg_social"`
}

// ConfusionMatrix counts predicted-high vs actual depression.
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// Performance holds the classification metrics derived from the matrix.
type Performance struct {
	ConfusionMatrix
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}

// CohortSummary is recomputed from scratch for every batch.
type CohortSummary struct {
	TotalParticipants int                 `json:"total_participants"`
	DepressionRate    float64             `json:"depression_rate"`
	Performance       Performance         `json:"performance"`
	Severity          map[Severity]int    `json:"severity_distribution"`
	Depressed         GroupAverages       `json:"depressed"`
	Healthy           GroupAverages       `json:"healthy"`
	FeatureImportance []FeatureImportance `json:"feature_importance"`
}

// RiskAssessment is the result of scoring one behavioral triple.
type RiskAssessment struct {
	Indicators      Indicators `json:"indicators"`
	RiskScore       float64    `json:"risk_score"`
	Level           RiskLevel  `json:"risk_level"`
	Probability     float64    `json:"depression_probability"`
	Recommendations []string   `json:"recommendations"`
}

// ProbabilityPercent returns the probability as a rounded whole percent.
func (a RiskAssessment) ProbabilityPercent() int {
	return int(a.Probability*100 + 0.5)
}
