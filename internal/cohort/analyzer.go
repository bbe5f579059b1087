package cohort

// Analyze computes the cohort summary of a batch. An empty batch yields a
// summary whose ratios are all zero.
func Analyze(p Policy, records []BehavioralRecord) CohortSummary {
	var (
		depressed, healthy []BehavioralRecord
		cm                 ConfusionMatrix
	)
	severity := make(map[Severity]int, len(Severities))
	for _, s := range Severities {
		severity[s] = 0
	}

	for _, r := range records {
		if r.Depressed {
			depressed = append(depressed, r)
		} else {
			healthy = append(healthy, r)
		}

		predictedHigh := r.RiskScore >= p.PredictHighAt
		switch {
		case predictedHigh && r.Depressed:
			cm.TruePositives++
		case predictedHigh:
			cm.FalsePositives++
		case r.Depressed:
			cm.FalseNegatives++
		default:
			cm.TrueNegatives++
		}

		severity[SeverityFor(r.PHQ9)]++
	}

	total := len(records)
	perf := Performance{ConfusionMatrix: cm}
	perf.Accuracy = ratio(cm.TruePositives+cm.TrueNegatives, total)
	perf.Precision = ratio(cm.TruePositives, cm.TruePositives+cm.FalsePositives)
	perf.Recall = ratio(cm.TruePositives, cm.TruePositives+cm.FalseNegatives)
	if sum := perf.Precision + perf.Recall; sum > 0 {
		perf.F1 = 2 * perf.Precision * perf.Recall / sum
	}

	importance := make([]FeatureImportance, len(p.FeatureImportance))
	copy(importance, p.FeatureImportance)

	return CohortSummary{
		TotalParticipants: total,
		DepressionRate:    ratio(len(depressed), total) * 100,
		Performance:       perf,
		Severity:          severity,
		Depressed:         averages(depressed),
		Healthy:           averages(healthy),
		FeatureImportance: importance,
	}
}

func averages(group []BehavioralRecord) GroupAverages {
	avg := GroupAverages{Count: len(group)}
	if len(group) == 0 {
		return avg
	}
	for _, r := range group {
		avg.Sleep += r.Sleep
		avg.Exercise += r.Exercise
		avg.Social += r.Social
	}
	n := float64(len(group))
	avg.Sleep /= n
	avg.Exercise /= n
	avg.Social /= n
	return avg
}

// ratio divides, defining anything over zero as zero.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
