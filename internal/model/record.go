package model

import "time"

// HistoryEntry is one prior state of a VerificationRecord, captured
// immediately before an update was applied.
type HistoryEntry struct {
	Date     time.Time `json:"date"`
	Verified bool      `json:"verified"`
	Notes    string    `json:"notes"`
}

// VerificationRecord is the single current verification state for a clinic,
// persisted as verified.json in the clinic's snapshot directory. Unlike
// snapshots it is current truth, not history: each update rewrites the file
// in place after pushing the pre-update state onto History.
type VerificationRecord struct {
	ClinicID   string     `json:"clinic_id"`
	ClinicName string     `json:"clinic_name"`
	SourceType SourceType `json:"source_type"`

	TranscribedAt time.Time `json:"transcribed_at"`
	TranscribedBy string    `json:"transcribed_by"`
	Verified      bool      `json:"verified"`
	Notes         string    `json:"notes"`

	// EvidenceFiles lists evidence filenames present in the clinic
	// directory at the time of the last update.
	EvidenceFiles []string `json:"evidence_files"`

	// NextReviewDate = TranscribedAt + ReviewIntervalDays, as YYYY-MM-DD.
	NextReviewDate     string `json:"next_review_date,omitempty"`
	ReviewIntervalDays int    `json:"review_interval_days"`

	History []HistoryEntry `json:"history"`
}

// ReviewDateLayout is the on-disk format of NextReviewDate
const ReviewDateLayout = "2006-01-02"

// NextReview parses NextReviewDate, returning ok=false when no review is scheduled
func (r VerificationRecord) NextReview() (time.Time, bool) {
	if r.NextReviewDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ReviewDateLayout, r.NextReviewDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
