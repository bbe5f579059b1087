package cohort

// Indicators are the three binary behavioral flags feeding the risk score.
type Indicators struct {
	SleepPoor       bool `json:"sleep_poor"`
	ExerciseLow     bool `json:"exercise_low"`
	SocialIsolation bool `json:"social_isolation"`
}

// Indicators evaluates the policy cutoffs against one behavioral triple.
func (p Policy) Indicators(sleepHours, exercisePercent, socialScore float64) Indicators {
	return Indicators{
		SleepPoor:       sleepHours < p.Cutoffs.SleepHours,
		ExerciseLow:     exercisePercent < p.Cutoffs.ExercisePercent,
		SocialIsolation: socialScore < p.Cutoffs.SocialScore,
	}
}

// Score sums the weight of every indicator that fired.
func (in Indicators) Score(w Weights) float64 {
	var score float64
	if in.SleepPoor {
		score += w.Sleep
	}
	if in.ExerciseLow {
		score += w.Exercise
	}
	if in.SocialIsolation {
		score += w.Social
	}
	return score
}

// Level maps a risk score onto its tier.
func (p Policy) Level(score float64) RiskLevel {
	switch {
	case score >= p.Tiers.High:
		return RiskHigh
	case score >= p.Tiers.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Probability is the fixed lookup for a tier, not a calibrated estimate.
func (p Policy) Probability(level RiskLevel) float64 {
	switch level {
	case RiskHigh:
		return p.Probabilities.High
	case RiskMedium:
		return p.Probabilities.Medium
	default:
		return p.Probabilities.Low
	}
}

// Score assesses one behavioral triple. Inputs are assumed range checked by
// the caller; it never fails.
func Score(p Policy, sleepHours, exercisePercent, socialScore float64) RiskAssessment {
	in := p.Indicators(sleepHours, exercisePercent, socialScore)
	score := in.Score(p.Weights)
	level := p.Level(score)

	recs := make([]string, 0, 4)
	if in.SleepPoor {
		recs = append(recs, p.Advice.Sleep)
	}
	if in.ExerciseLow {
		recs = append(recs, p.Advice.Exercise)
	}
	if in.SocialIsolation {
		recs = append(recs, p.Advice.Social)
	}
	if score >= p.Tiers.High {
		recs = append(recs, p.Advice.Escalation)
	}

	return RiskAssessment{
		Indicators:      in,
		RiskScore:       score,
		Level:           level,
		Probability:     p.Probability(level),
		Recommendations: recs,
	}
}
