package model

import "time"

// AccessOutcome classifies what happened on a capture attempt
type AccessOutcome string

const (
	OutcomeSuccess       AccessOutcome = "success"
	OutcomeFailure       AccessOutcome = "failure"
	OutcomeLoginRequired AccessOutcome = "login_required"
	OutcomeBotWall       AccessOutcome = "bot_wall"
)

// Origin records whether evidence was captured automatically or supplied by hand
type Origin string

const (
	OriginAutomated Origin = "automated"
	OriginManual    Origin = "manual"
)

// Snapshot is one immutable capture attempt for a clinic source.
// Once persisted it is never mutated or deleted by the system; the only
// exception is the transcription flag, which a human flips after copying
// the evidence into the schedule data.
//
// This struct doubles as the persisted metadata document
// (<stamp>_meta.json in the clinic's snapshot directory).
type Snapshot struct {
	ClinicID   string     `json:"clinic_id"`
	ClinicName string     `json:"clinic_name"`
	SourceType SourceType `json:"source_type"`
	Platform   Platform   `json:"platform"`
	URL        string     `json:"url,omitempty"`

	CapturedAt time.Time `json:"captured_at"`

	// EvidenceFile is the evidence path relative to the clinic directory,
	// empty when the capture produced nothing.
	EvidenceFile string `json:"evidence_file,omitempty"`
	EvidenceSize int64  `json:"evidence_size_bytes,omitempty"`

	Outcome AccessOutcome `json:"outcome"`
	Success bool          `json:"success"`
	Origin  Origin        `json:"origin"`

	NeedsLogin bool   `json:"needs_login"`
	BotWall    bool   `json:"bot_wall,omitempty"`
	Error      string `json:"error,omitempty"`

	Transcribed        bool       `json:"transcribed"`
	TranscriptionNotes string     `json:"transcription_notes"`
	TranscribedAt      *time.Time `json:"transcribed_at,omitempty"`
}

// HasEvidence reports whether the attempt produced an evidence file
func (s Snapshot) HasEvidence() bool {
	return s.EvidenceFile != ""
}
