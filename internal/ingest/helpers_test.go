package ingest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// answersOf fills the first n items with the given answer.
func answersOf(n int, answer string) [NumQuestions]string {
	var a [NumQuestions]string
	for i := 0; i < n; i++ {
		a[i] = answer
	}
	return a
}

func surveyCSV(t *testing.T, rows ...SurveyRow) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := append([]string{"uid", "type"}, Questions[:]...)
	header = append(header, "Response")
	require.NoError(t, w.Write(header))
	for _, r := range rows {
		rec := append([]string{r.Subject, r.Phase}, r.Answers[:]...)
		rec = append(rec, "Somewhat difficult")
		require.NoError(t, w.Write(rec))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
