// Package verify owns the human-verification state for clinic sources.
//
// Two variants exist, unified behind one manager: image sources keep a
// single mutable verified.json per clinic with embedded history, while
// social and web sources flag transcription on the latest snapshot's
// metadata instead. ScopeFor picks the variant from the source type.
package verify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"github.com/stompsid-lgtm/clinicsnap/internal/store"
)

var (
	// ErrNotFound means no verification record exists; update requires
	// an explicit init first and never creates one implicitly.
	ErrNotFound = errors.New("verification record not found")

	// ErrAlreadyExists protects an existing record from re-initialization.
	ErrAlreadyExists = errors.New("verification record already exists")
)

// evidenceExts are the filename extensions counted as evidence when the
// clinic directory is rescanned on update.
var evidenceExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true,
	".html": true,
}

const recordFile = "verified.json"

// timeNow is swapped out by tests
var timeNow = time.Now

// Scope selects how verification state is tracked for a source type
type Scope string

const (
	// ScopePerClinic: one mutable record per clinic (image sources).
	ScopePerClinic Scope = "per_clinic"
	// ScopePerSnapshot: transcription flag on the latest snapshot
	// (social and web sources).
	ScopePerSnapshot Scope = "per_snapshot"
)

// ScopeFor returns the verification scope for a source type
func ScopeFor(t model.SourceType) Scope {
	if t == model.SourceImage {
		return ScopePerClinic
	}
	return ScopePerSnapshot
}

// Manager reads and writes verification records next to the snapshot log
type Manager struct {
	store *store.Store
}

// NewManager creates a manager backed by the given snapshot store
func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

func (m *Manager) recordPath(c model.ClinicSource) string {
	return filepath.Join(m.store.ClinicDir(c), recordFile)
}

// Init creates the verification record for a clinic. It fails with
// ErrAlreadyExists if one is present — re-initialization would discard
// prior human work.
func (m *Manager) Init(c model.ClinicSource) (model.VerificationRecord, error) {
	path := m.recordPath(c)
	if _, err := os.Stat(path); err == nil {
		return model.VerificationRecord{}, fmt.Errorf("%s: %w", c.ID, ErrAlreadyExists)
	} else if !os.IsNotExist(err) {
		return model.VerificationRecord{}, fmt.Errorf("probe record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.VerificationRecord{}, fmt.Errorf("create clinic dir: %w", err)
	}

	now := timeNow()
	rec := model.VerificationRecord{
		ClinicID:           c.ID,
		ClinicName:         c.Name,
		SourceType:         c.SourceType,
		TranscribedAt:      now,
		TranscribedBy:      "manual",
		Verified:           false,
		Notes:              "",
		EvidenceFiles:      []string{},
		ReviewIntervalDays: c.ReviewIntervalDays,
		History:            []model.HistoryEntry{},
	}
	if c.NeedsReview() {
		rec.NextReviewDate = nextReview(now, c.ReviewIntervalDays)
	}

	if err := store.WriteJSONAtomic(path, &rec); err != nil {
		return model.VerificationRecord{}, err
	}
	return rec, nil
}

// Update applies a new verification state. The pre-update state is pushed
// onto History first, so History is a full audit trail of prior states.
// Evidence files are rescanned at update time so the record reflects what
// currently backs the verification. Fails with ErrNotFound when no record
// exists.
func (m *Manager) Update(c model.ClinicSource, verified bool, notes string) (model.VerificationRecord, error) {
	rec, err := m.Get(c)
	if err != nil {
		return model.VerificationRecord{}, err
	}

	now := timeNow()
	rec.History = append(rec.History, model.HistoryEntry{
		Date:     now,
		Verified: rec.Verified,
		Notes:    rec.Notes,
	})

	rec.TranscribedAt = now
	rec.Verified = verified
	rec.Notes = notes
	rec.ReviewIntervalDays = c.ReviewIntervalDays
	if c.NeedsReview() {
		rec.NextReviewDate = nextReview(now, c.ReviewIntervalDays)
	} else {
		rec.NextReviewDate = ""
	}

	files, err := m.scanEvidence(c)
	if err != nil {
		return model.VerificationRecord{}, err
	}
	rec.EvidenceFiles = files

	if err := store.WriteJSONAtomic(m.recordPath(c), &rec); err != nil {
		return model.VerificationRecord{}, err
	}
	return rec, nil
}

// Get loads the current record, or ErrNotFound
func (m *Manager) Get(c model.ClinicSource) (model.VerificationRecord, error) {
	data, err := os.ReadFile(m.recordPath(c))
	if err != nil {
		if os.IsNotExist(err) {
			return model.VerificationRecord{}, fmt.Errorf("%s: %w", c.ID, ErrNotFound)
		}
		return model.VerificationRecord{}, fmt.Errorf("read record: %w", err)
	}
	var rec model.VerificationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.VerificationRecord{}, fmt.Errorf("parse record: %w", err)
	}
	return rec, nil
}

// MarkTranscribed records transcription per the clinic's scope: image
// sources update the clinic record, social and web sources flag the
// latest snapshot.
func (m *Manager) MarkTranscribed(c model.ClinicSource, note string) error {
	switch ScopeFor(c.SourceType) {
	case ScopePerClinic:
		_, err := m.Update(c, true, note)
		return err
	default:
		return m.store.MarkTranscribed(c, note, timeNow())
	}
}

// scanEvidence lists evidence filenames currently present for the clinic
func (m *Manager) scanEvidence(c model.ClinicSource) ([]string, error) {
	entries, err := os.ReadDir(m.store.ClinicDir(c))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("scan evidence: %w", err)
	}
	files := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if evidenceExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func nextReview(from time.Time, days int) string {
	return from.AddDate(0, 0, days).Format(model.ReviewDateLayout)
}
