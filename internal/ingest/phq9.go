package ingest

import "strings"

// NumQuestions is the length of the PHQ-9 questionnaire.
const NumQuestions = 9

// MinAnswered is the fewest answered items for a usable questionnaire.
const MinAnswered = 6

// Questions are the PHQ-9 item texts as they appear in the survey export
// header, in questionnaire order.
var Questions = [NumQuestions]string{
	"Little interest or pleasure in doing things",
	"Feeling down, depressed, hopeless.",
	"Trouble falling or staying asleep, or sleeping too much.",
	"Feeling tired or having little energy",
	"Poor appetite or overeating",
	"Feeling bad about yourself or that you are a failure or have let yourself or your family down",
	"Trouble concentrating on things, such as reading the newspaper or watching television",
	"Moving or speaking so slowly that other people could have noticed. Or the opposite being so figety or restless that you have been moving around a lot more than usual",
	"Thoughts that you would be better off dead, or of hurting yourself",
}

var responseScores = map[string]int{
	"Not at all":              0,
	"Several days":            1,
	"More than half the days": 2,
	"Nearly every day":        3,
}

// ResponseScore maps an answer phrase to its ordinal score. ok is false for
// blank or unrecognised answers, which count as unanswered.
func ResponseScore(answer string) (score int, ok bool) {
	score, ok = responseScores[strings.TrimSpace(answer)]
	return score, ok
}

// ScorePHQ9 sums the answered items. Partial totals are not rescaled; fewer
// than MinAnswered answers yields ErrInsufficientResponses.
func ScorePHQ9(answers [NumQuestions]string) (int, error) {
	var total, answered int
	for _, a := range answers {
		if s, ok := ResponseScore(a); ok {
			total += s
			answered++
		}
	}
	if answered < MinAnswered {
		return 0, ErrInsufficientResponses
	}
	return total, nil
}
