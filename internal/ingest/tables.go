package ingest

// Measurement columns of the behavioral summary tables.
const (
	SleepColumn    = "average_sleep_hours"
	ExerciseColumn = "percent_days_exercised"
	SocialColumn   = "average_social_score"
)

// SurveyRow is one PHQ-9 questionnaire submission.
type SurveyRow struct {
	Subject string
	// Phase is the survey administration, e.g. "pre" or "post". Empty when
	// the export has no phase column.
	Phase   string
	Answers [NumQuestions]string
}

// MeasureRow is one row of a behavioral summary table. Subject may carry the
// export's key suffix.
type MeasureRow struct {
	Subject string
	Value   float64
}

// Tables is the typed content of the four record sources.
type Tables struct {
	Surveys   []SurveyRow
	Sleep     []MeasureRow
	Exercise  []MeasureRow
	Social    []MeasureRow
	// Malformed counts rows dropped at parse time.
	Malformed int
}
