package store

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
)

// ErrNoSnapshots is returned when a clinic has no captures yet
var ErrNoSnapshots = errors.New("no snapshots")

// StampLayout is the human-readable capture timestamp used in filenames.
// Second granularity can collide on rapid captures, so Append appends a
// numeric suffix rather than clobbering an existing stamp.
const StampLayout = "20060102_150405"

const metaSuffix = "_meta.json"

// Store is the append-only snapshot log, one directory per clinic under
// <root>/<sourceType>/<clinicID>_<clinicName>/. Prior captures are never
// overwritten or deleted; retention is an operator concern.
type Store struct {
	root string
}

// New creates a store rooted at dir
func New(dir string) *Store {
	return &Store{root: dir}
}

// ClinicDir returns the snapshot directory for a clinic
func (s *Store) ClinicDir(c model.ClinicSource) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(c.Name)
	return filepath.Join(s.root, string(c.SourceType), c.ID+"_"+name)
}

// Append persists one capture attempt: the evidence bytes (if any) and a
// metadata document. It always writes metadata, even for failed attempts —
// a failed capture is still evidence that the source was unreachable.
//
// evidenceLabel names the evidence file after the stamp prefix, e.g.
// "screenshot.png" or "html.html"; it is ignored when evidence is nil.
// Snap's EvidenceFile and EvidenceSize are filled in on success.
func (s *Store) Append(c model.ClinicSource, snap *model.Snapshot, evidenceLabel string, evidence []byte) error {
	dir := s.ClinicDir(c)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create clinic dir: %w", err)
	}

	stamp, err := s.reserveStamp(dir, snap.CapturedAt)
	if err != nil {
		return err
	}

	if evidence != nil {
		name := stamp + "_" + evidenceLabel
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return fmt.Errorf("create evidence file: %w", err)
		}
		if _, err := f.Write(evidence); err != nil {
			_ = f.Close()
			return fmt.Errorf("write evidence: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close evidence: %w", err)
		}
		snap.EvidenceFile = name
		snap.EvidenceSize = int64(len(evidence))
	}

	return writeJSONAtomic(filepath.Join(dir, stamp+metaSuffix), snap)
}

// IngestFile copies an externally supplied evidence file into the clinic
// directory and appends a metadata document for it. The source file must
// exist; nothing is written otherwise.
func (s *Store) IngestFile(c model.ClinicSource, snap *model.Snapshot, srcPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("evidence file %s: %w", srcPath, os.ErrNotExist)
		}
		return fmt.Errorf("read evidence file: %w", err)
	}
	label := "manual_" + filepath.Base(srcPath)
	return s.Append(c, snap, label, data)
}

// Latest returns the most recent snapshot for a clinic, or ErrNoSnapshots
func (s *Store) Latest(c model.ClinicSource) (model.Snapshot, error) {
	snaps, err := s.List(c)
	if err != nil {
		return model.Snapshot{}, err
	}
	if len(snaps) == 0 {
		return model.Snapshot{}, fmt.Errorf("%s: %w", c.ID, ErrNoSnapshots)
	}
	return snaps[0], nil
}

// List returns all snapshots for a clinic, most recent first. The directory
// is re-read on every call, so the sequence is restartable and reflects
// appends made since the last call. A clinic with no directory yet yields
// an empty list, not an error.
func (s *Store) List(c model.ClinicSource) ([]model.Snapshot, error) {
	metas, err := s.readMetas(c)
	if err != nil || metas == nil {
		return nil, err
	}

	snaps := make([]model.Snapshot, 0, len(metas))
	for _, m := range metas {
		snaps = append(snaps, m.snap)
	}
	return snaps, nil
}

// metaFile pairs a metadata document with its filename, so ordering can
// fall back to the collision suffix when capture timestamps tie.
type metaFile struct {
	name string
	snap model.Snapshot
}

// readMetas loads every metadata document for a clinic, most recent first.
// Ordering is by captured_at, not filename: the stamp in the name has only
// second granularity and a same-second collision suffix (_002) sorts before
// the unsuffixed name lexicographically. On an exact captured_at tie the
// suffixed (later-appended) document wins.
func (s *Store) readMetas(c model.ClinicSource) ([]metaFile, error) {
	dir := s.ClinicDir(c)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read clinic dir: %w", err)
	}

	var metas []metaFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), metaSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var snap model.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		metas = append(metas, metaFile{name: e.Name(), snap: snap})
	}

	sort.SliceStable(metas, func(i, j int) bool {
		a, b := metas[i], metas[j]
		if !a.snap.CapturedAt.Equal(b.snap.CapturedAt) {
			return a.snap.CapturedAt.After(b.snap.CapturedAt)
		}
		if len(a.name) != len(b.name) {
			return len(a.name) > len(b.name)
		}
		return a.name > b.name
	})
	return metas, nil
}

// MarkTranscribed flips the transcription flag on the latest snapshot's
// metadata. This is the per-snapshot verification variant used by social
// and web sources; image sources use a clinic-level verification record.
func (s *Store) MarkTranscribed(c model.ClinicSource, note string, now time.Time) error {
	metas, err := s.readMetas(c)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		return fmt.Errorf("%s: %w", c.ID, ErrNoSnapshots)
	}

	latest := metas[0]
	snap := latest.snap
	snap.Transcribed = true
	snap.TranscriptionNotes = note
	snap.TranscribedAt = &now

	return writeJSONAtomic(filepath.Join(s.ClinicDir(c), latest.name), &snap)
}

// EvidencePresent reports whether a snapshot's evidence file still exists
// on disk. Evidence can be moved or pruned by an operator after capture.
func (s *Store) EvidencePresent(c model.ClinicSource, snap model.Snapshot) bool {
	if !snap.HasEvidence() {
		return false
	}
	_, err := os.Stat(filepath.Join(s.ClinicDir(c), snap.EvidenceFile))
	return err == nil
}

// reserveStamp finds an unused stamp for the capture time. Two captures in
// the same second for the same clinic get distinct stamps via a numeric
// suffix, preserving the append-only guarantee.
func (s *Store) reserveStamp(dir string, at time.Time) (string, error) {
	base := at.Format(StampLayout)
	stamp := base
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, stamp+metaSuffix)); os.IsNotExist(err) {
			return stamp, nil
		} else if err != nil {
			return "", fmt.Errorf("probe stamp %s: %w", stamp, err)
		}
		if i > 999 {
			return "", fmt.Errorf("no free stamp for %s", base)
		}
		stamp = fmt.Sprintf("%s_%03d", base, i)
	}
}
