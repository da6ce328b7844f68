package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2beens/practicetrack/internal/practice"
	"github.com/2beens/practicetrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=importer_mocks_test.go -package=csvimport_test

type sessionsRepo interface {
	Add(ctx context.Context, session practice.Session) (*practice.Session, error)
}

// Report sums up one import run. Skipped rows are logged, not fatal: one
// bad line in a hand-edited spreadsheet export should not sink the rest.
type Report struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer reads practice sessions from CSV exports. Expected columns:
// started_at (RFC 3339), duration_seconds, and an optional note. A header
// row is detected and skipped.
type Importer struct {
	repo sessionsRepo
}

func NewImporter(repo sessionsRepo) *Importer {
	return &Importer{
		repo: repo,
	}
}

func (i *Importer) Import(ctx context.Context, reader io.Reader) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "csvimport.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1 // note column is optional
	csvReader.TrimLeadingSpace = true

	report := &Report{}
	for line := 1; ; line++ {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// a row with broken quoting, not a broken stream
			report.skip(line, err)
			continue
		}

		if line == 1 && isHeader(record) {
			continue
		}

		session, err := row2session(record)
		if err != nil {
			report.skip(line, err)
			continue
		}

		if _, err := i.repo.Add(ctx, session); err != nil {
			return nil, fmt.Errorf("store row %d: %w", line, err)
		}
		report.Imported++
	}

	log.Debugf("csv import done: %d imported, %d skipped", report.Imported, report.Skipped)
	return report, nil
}

func (r *Report) skip(line int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", line, err))
	log.Warnf("csv import, skipping row %d: %s", line, err)
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "started_at")
}

func row2session(record []string) (practice.Session, error) {
	if len(record) < 2 {
		return practice.Session{}, fmt.Errorf("expected at least 2 columns, got %d", len(record))
	}

	durationSeconds, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return practice.Session{}, fmt.Errorf("parse duration_seconds %q: %w", record[1], err)
	}

	raw := practice.RawSession{
		StartedAt:       strings.TrimSpace(record[0]),
		DurationSeconds: durationSeconds,
	}
	session, err := raw.Session(practice.SourceCSV, "")
	if err != nil {
		return practice.Session{}, err
	}
	if len(record) > 2 {
		session.Note = strings.TrimSpace(record[2])
	}
	return session, nil
}
