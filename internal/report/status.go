// Package report renders the read-only operator views: the consolidated
// status table across all registered clinics, and the anti-access audit.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"github.com/stompsid-lgtm/clinicsnap/internal/store"
	"github.com/stompsid-lgtm/clinicsnap/internal/verify"
)

// Urgency classifies how soon a verification needs re-review
type Urgency string

const (
	UrgencyOverdue Urgency = "OVERDUE"
	UrgencyDueSoon Urgency = "DUE SOON"
	UrgencyOK      Urgency = "OK"
	UrgencyNA      Urgency = "N/A"
)

// ClassifyReview buckets a next-review date relative to today. hasReview
// is false when no interval is configured or no record exists.
func ClassifyReview(next time.Time, today time.Time, dueSoonDays int, hasReview bool) Urgency {
	if !hasReview {
		return UrgencyNA
	}
	// Compare calendar dates, not instants: review dates parse as UTC
	// midnight while today is usually local time, so truncating instants
	// shifts the boundary by the zone offset.
	next = dateOnly(next)
	today = dateOnly(today)
	switch {
	case next.Before(today):
		return UrgencyOverdue
	case next.Before(today.AddDate(0, 0, dueSoonDays)):
		return UrgencyDueSoon
	default:
		return UrgencyOK
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Row is one clinic's line in the status table
type Row struct {
	Clinic     string
	Platform   model.Platform
	SourceType model.SourceType

	HasSnapshot     bool
	LastCapture     time.Time
	EvidencePresent bool
	Outcome         model.AccessOutcome

	Verified   bool
	HasRecord  bool
	NextReview string
	Urgency    Urgency
	Notes      string
}

// Reporter aggregates store and verification state for a set of clinics.
// It is strictly read-only.
type Reporter struct {
	store       *store.Store
	verify      *verify.Manager
	dueSoonDays int
}

// NewReporter creates a reporter over the given stores
func NewReporter(st *store.Store, vm *verify.Manager, dueSoonDays int) *Reporter {
	return &Reporter{store: st, verify: vm, dueSoonDays: dueSoonDays}
}

// Rows builds the table data as of today. Clinics with no snapshots and no
// verification record render as placeholders, never as errors — freshly
// registered clinics have neither.
func (r *Reporter) Rows(clinics []model.ClinicSource, today time.Time) ([]Row, error) {
	rows := make([]Row, 0, len(clinics))
	for _, c := range clinics {
		row := Row{
			Clinic:     c.Name,
			Platform:   c.Platform,
			SourceType: c.SourceType,
			Urgency:    UrgencyNA,
		}

		snap, err := r.store.Latest(c)
		switch {
		case err == nil:
			row.HasSnapshot = true
			row.LastCapture = snap.CapturedAt
			row.Outcome = snap.Outcome
			row.EvidencePresent = r.store.EvidencePresent(c, snap)
		case errors.Is(err, store.ErrNoSnapshots):
			// no captures yet
		default:
			return nil, err
		}

		switch verify.ScopeFor(c.SourceType) {
		case verify.ScopePerClinic:
			rec, err := r.verify.Get(c)
			switch {
			case err == nil:
				row.HasRecord = true
				row.Verified = rec.Verified
				row.Notes = rec.Notes
				row.NextReview = rec.NextReviewDate
				next, ok := rec.NextReview()
				row.Urgency = ClassifyReview(next, today, r.dueSoonDays, ok)
			case errors.Is(err, verify.ErrNotFound):
				// not initialized yet
			default:
				return nil, err
			}
		default:
			if row.HasSnapshot {
				row.HasRecord = true
				row.Verified = snap.Transcribed
				row.Notes = snap.TranscriptionNotes
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// Render writes the status table
func (r *Reporter) Render(w io.Writer, rows []Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Clinic", "Platform", "Last Capture", "Evidence", "Verified", "Next Review", "Review", "Notes"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Clinic,
			row.Platform,
			formatCapture(row),
			yesNo(row.EvidencePresent, row.HasSnapshot),
			verifiedCell(row),
			orDash(row.NextReview),
			row.Urgency,
			truncate(row.Notes, 30),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatCapture(row Row) string {
	if !row.HasSnapshot {
		return "no snapshots"
	}
	return fmt.Sprintf("%s (%s)", row.LastCapture.Format("2006-01-02 15:04"), row.Outcome)
}

func verifiedCell(row Row) string {
	if !row.HasRecord {
		return "—"
	}
	if row.Verified {
		return "yes"
	}
	return "pending"
}

func yesNo(present, hasSnapshot bool) string {
	if !hasSnapshot {
		return "—"
	}
	if present {
		return "yes"
	}
	return "missing"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
