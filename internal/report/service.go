package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signintech/gopdf"

	"studentlife-dashboard/internal/cohort"
	"studentlife-dashboard/internal/dashboard"
	"studentlife-dashboard/internal/platform/logger"
)

// ErrFontUnavailable is returned when none of the configured fonts load.
var ErrFontUnavailable = errors.New("no usable report font")

const (
	fontFamily   = "DejaVu"
	pageBottom   = 800.0
	lineHeight   = 14.0
	textWidth    = 500.0
	marginLeft   = 40.0
	marginTop    = 40.0
	tableColumns = 7
)

type Service struct {
	fontPaths []string
	log       *logger.Logger
	now       func() time.Time
}

func NewService(fontPaths []string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{fontPaths: fontPaths, log: log, now: time.Now}
}

// Render draws the cohort summary and record table as a PDF.
func (s *Service) Render(ctx context.Context, st dashboard.State) ([]byte, error) {
	s.log.Debug("rendering cohort report", "load_id", st.Load.ID, "records", len(st.Records))
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetMargins(marginLeft, marginTop, marginLeft, marginTop)
	pdf.AddPage()

	if err := s.loadFont(pdf); err != nil {
		return nil, err
	}
	w := &writer{pdf: pdf}
	sum := st.Summary

	w.heading(20, "StudentLife Depression Risk Report")
	w.line(10, fmt.Sprintf("Generated: %s", s.now().Format("2006-01-02 15:04")))
	w.line(10, fmt.Sprintf("Source: %s (load %s)", st.Load.Source, st.Load.ID))
	if st.Load.Notice != "" {
		w.line(10, st.Load.Notice)
	}
	w.gap(10)

	w.heading(14, "Overview")
	w.line(11, fmt.Sprintf("Participants: %d", sum.TotalParticipants))
	w.line(11, fmt.Sprintf("Depression rate: %.1f%%", sum.DepressionRate))
	w.line(11, fmt.Sprintf("Accuracy: %.1f%%   Precision: %.1f%%   Recall: %.1f%%   F1: %.1f%%",
		sum.Performance.Accuracy*100, sum.Performance.Precision*100,
		sum.Performance.Recall*100, sum.Performance.F1*100))
	cm := sum.Performance.ConfusionMatrix
	w.line(11, fmt.Sprintf("Confusion matrix: TP %d  FP %d  TN %d  FN %d",
		cm.TruePositives, cm.FalsePositives, cm.TrueNegatives, cm.FalseNegatives))
	w.gap(8)

	w.heading(14, "Severity distribution")
	for _, sev := range cohort.Severities {
		w.line(11, fmt.Sprintf("- %s: %d", sev, sum.Severity[sev]))
	}
	w.gap(8)

	w.heading(14, "Behavioral patterns")
	w.line(11, fmt.Sprintf("Depressed (n=%d): sleep %.1fh, exercise %.1f%%, social %.1f",
		sum.Depressed.Count, sum.Depressed.Sleep, sum.Depressed.Exercise, sum.Depressed.Social))
	w.line(11, fmt.Sprintf("Healthy (n=%d): sleep %.1fh, exercise %.1f%%, social %.1f",
		sum.Healthy.Count, sum.Healthy.Sleep, sum.Healthy.Exercise, sum.Healthy.Social))
	w.gap(8)

	w.heading(14, "Feature importance")
	for _, f := range sum.FeatureImportance {
		w.wrapped(11, fmt.Sprintf("- %s: %.0f%% (%s)", f.Feature, f.Importance*100, f.Description))
	}
	w.gap(8)

	w.heading(14, "Participants")
	w.row(9, "UID", "PHQ-9", "Severity", "Sleep", "Exercise", "Social", "Risk")
	for _, r := range st.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w.row(9, r.Subject, fmt.Sprint(r.PHQ9), string(r.Severity),
			fmt.Sprintf("%.1f", r.Sleep), fmt.Sprintf("%.1f%%", r.Exercise),
			fmt.Sprintf("%.1f", r.Social), fmt.Sprintf("%.1f", r.RiskScore))
	}

	if w.err != nil {
		return nil, fmt.Errorf("failed to draw PDF: %w", w.err)
	}
	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	s.log.Info("cohort report rendered", "load_id", st.Load.ID, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont(fontFamily, path); err != nil {
			lastErr = err
			continue
		}
		s.log.Debug("loaded report font", "path", path)
		return nil
	}
	if lastErr == nil {
		return ErrFontUnavailable
	}
	return fmt.Errorf("%w: %v", ErrFontUnavailable, lastErr)
}

// writer keeps the first drawing error and paginates.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) setFont(size int) {
	if w.err != nil {
		return
	}
	w.err = w.pdf.SetFont(fontFamily, "", size)
}

func (w *writer) ensureSpace(h float64) {
	if w.pdf.GetY()+h > pageBottom {
		w.pdf.AddPage()
	}
	w.pdf.SetX(marginLeft)
}

func (w *writer) heading(size int, text string) {
	w.line(size, text)
	w.pdf.Br(4)
}

func (w *writer) line(size int, text string) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	w.ensureSpace(lineHeight)
	w.err = w.pdf.Cell(nil, text)
	w.pdf.Br(lineHeight)
}

func (w *writer) wrapped(size int, text string) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(text, textWidth)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		w.line(size, l)
	}
}

func (w *writer) row(size int, cells ...string) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	w.ensureSpace(lineHeight)
	colWidth := textWidth / tableColumns
	for i, c := range cells {
		w.pdf.SetX(marginLeft + float64(i)*colWidth)
		if w.err = w.pdf.Cell(nil, c); w.err != nil {
			return
		}
	}
	w.pdf.Br(lineHeight)
}

func (w *writer) gap(h float64) {
	w.pdf.Br(h)
}
