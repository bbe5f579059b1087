package cohort

// SampleRecords returns the embedded eight-subject sample batch. Risk scores
// are derived under p.
func SampleRecords(p Policy) []BehavioralRecord {
	return []BehavioralRecord{
		NewRecord(p, "u00", 2, 6.2, 34, 2.8),
		NewRecord(p, "u01", 5, 7.1, 45, 3.2),
		NewRecord(p, "u02", 13, 4.8, 12, 1.8),
		NewRecord(p, "u03", 2, 7.5, 60, 4.1),
		NewRecord(p, "u04", 6, 5.9, 28, 2.9),
		NewRecord(p, "u05", 15, 4.2, 8, 1.5),
		NewRecord(p, "u06", 1, 8.1, 55, 4.3),
		NewRecord(p, "u07", 11, 5.1, 15, 2.1),
	}
}
