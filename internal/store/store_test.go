package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
)

func testClinic() model.ClinicSource {
	return model.ClinicSource{
		ID:         "c02",
		Name:       "承新骨科",
		SourceType: model.SourceWeb,
		Platform:   model.PlatformGenericWeb,
		URL:        "http://web.cxms.com.tw/wn/hosp.php",
	}
}

func newSnapshot(c model.ClinicSource, at time.Time) *model.Snapshot {
	return &model.Snapshot{
		ClinicID:   c.ID,
		ClinicName: c.Name,
		SourceType: c.SourceType,
		Platform:   c.Platform,
		URL:        c.URL,
		CapturedAt: at,
		Origin:     model.OriginAutomated,
		Outcome:    model.OutcomeSuccess,
		Success:    true,
	}
}

func TestAppendAndLatest(t *testing.T) {
	s := New(t.TempDir())
	c := testClinic()

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := newSnapshot(c, base.Add(time.Duration(i)*time.Minute))
		if err := s.Append(c, snap, "html.html", []byte("<html></html>")); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	latest, err := s.Latest(c)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	want := base.Add(2 * time.Minute)
	if !latest.CapturedAt.Equal(want) {
		t.Errorf("Latest captured at %v, want %v", latest.CapturedAt, want)
	}

	snaps, err := s.List(c)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(snaps))
	}
	// Most recent first.
	if !snaps[0].CapturedAt.After(snaps[2].CapturedAt) {
		t.Errorf("List not in reverse-chronological order: %v before %v", snaps[0].CapturedAt, snaps[2].CapturedAt)
	}
}

func TestListNeverShrinks(t *testing.T) {
	s := New(t.TempDir())
	c := testClinic()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		snap := newSnapshot(c, at.Add(time.Duration(i)*time.Second))
		if err := s.Append(c, snap, "html.html", []byte("x")); err != nil {
			t.Fatalf("Append: %v", err)
		}
		snaps, err := s.List(c)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(snaps) != i {
			t.Errorf("After %d appends, List returned %d snapshots", i, len(snaps))
		}
	}
}

func TestSameSecondAppendsDoNotClobber(t *testing.T) {
	s := New(t.TempDir())
	c := testClinic()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	first := newSnapshot(c, at)
	first.Error = ""
	if err := s.Append(c, first, "html.html", []byte("first")); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	second := newSnapshot(c, at)
	if err := s.Append(c, second, "html.html", []byte("second")); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	snaps, err := s.List(c)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("Expected 2 snapshots after same-second appends, got %d", len(snaps))
	}
	if first.EvidenceFile == second.EvidenceFile {
		t.Errorf("Evidence files collided: %s", first.EvidenceFile)
	}
}

func TestLatestPrefersNewerSameSecondCapture(t *testing.T) {
	s := New(t.TempDir())
	c := testClinic()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	// A retry 300ms after a failed attempt lands in the same stamp second;
	// the suffixed filename sorts before the unsuffixed one, so ordering
	// must come from captured_at, not the name.
	failed := newSnapshot(c, at)
	failed.Success = false
	failed.Outcome = model.OutcomeFailure
	failed.Error = "connection reset"
	if err := s.Append(c, failed, "html.html", nil); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	retry := newSnapshot(c, at.Add(300*time.Millisecond))
	if err := s.Append(c, retry, "html.html", []byte("<html><table></table></html>")); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	latest, err := s.Latest(c)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !latest.Success {
		t.Errorf("Latest returned the older failed attempt (captured %v)", latest.CapturedAt)
	}

	if err := s.MarkTranscribed(c, "", at.Add(time.Hour)); err != nil {
		t.Fatalf("MarkTranscribed: %v", err)
	}
	snaps, err := s.List(c)
	if err != nil {
		t.Fatal(err)
	}
	if !snaps[0].Success || !snaps[0].Transcribed {
		t.Errorf("Transcription flag landed on the wrong capture: success=%v transcribed=%v", snaps[0].Success, snaps[0].Transcribed)
	}
	if snaps[1].Transcribed {
		t.Error("Older same-second capture must not be flagged")
	}
}

func TestFailedAttemptStillPersisted(t *testing.T) {
	s := New(t.TempDir())
	c := testClinic()

	snap := newSnapshot(c, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	snap.Success = false
	snap.Outcome = model.OutcomeFailure
	snap.Error = "context deadline exceeded"

	if err := s.Append(c, snap, "html.html", nil); err != nil {
		t.Fatalf("Append: %v", err)
	}

	snaps, err := s.List(c)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("Expected exactly 1 metadata document, got %d", len(snaps))
	}
	got := snaps[0]
	if got.Success {
		t.Error("Failed attempt recorded as success")
	}
	if got.Error == "" {
		t.Error("Failed attempt has empty error")
	}
	if got.HasEvidence() {
		t.Errorf("Failed attempt should have no evidence file, got %s", got.EvidenceFile)
	}
}

func TestLatestNoSnapshots(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Latest(testClinic())
	if !errors.Is(err, ErrNoSnapshots) {
		t.Fatalf("Expected ErrNoSnapshots, got %v", err)
	}
}

func TestIngestFileMissingSource(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	c := testClinic()

	snap := newSnapshot(c, time.Now())
	snap.Origin = model.OriginManual
	err := s.IngestFile(c, snap, filepath.Join(root, "does-not-exist.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected os.ErrNotExist, got %v", err)
	}

	// Nothing must have been created.
	if entries, err := os.ReadDir(s.ClinicDir(c)); err == nil && len(entries) > 0 {
		t.Errorf("Ingest of missing file left %d entries behind", len(entries))
	}
}

func TestIngestFileCopiesEvidence(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	c := testClinic()

	src := filepath.Join(root, "manual.png")
	if err := os.WriteFile(src, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap := newSnapshot(c, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	snap.Origin = model.OriginManual
	if err := s.IngestFile(c, snap, src); err != nil {
		t.Fatalf("IngestFile: %v", err)
	}

	if snap.EvidenceFile == "" {
		t.Fatal("EvidenceFile not set")
	}
	data, err := os.ReadFile(filepath.Join(s.ClinicDir(c), snap.EvidenceFile))
	if err != nil {
		t.Fatalf("read copied evidence: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("Copied evidence mismatch: %q", data)
	}
}

func TestMarkTranscribed(t *testing.T) {
	s := New(t.TempDir())
	c := testClinic()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	old := newSnapshot(c, base)
	if err := s.Append(c, old, "html.html", []byte("old")); err != nil {
		t.Fatal(err)
	}
	recent := newSnapshot(c, base.Add(time.Hour))
	if err := s.Append(c, recent, "html.html", []byte("new")); err != nil {
		t.Fatal(err)
	}

	now := base.Add(2 * time.Hour)
	if err := s.MarkTranscribed(c, "copied into schedule", now); err != nil {
		t.Fatalf("MarkTranscribed: %v", err)
	}

	snaps, err := s.List(c)
	if err != nil {
		t.Fatal(err)
	}
	if !snaps[0].Transcribed {
		t.Error("Latest snapshot not marked transcribed")
	}
	if snaps[0].TranscriptionNotes != "copied into schedule" {
		t.Errorf("Notes = %q", snaps[0].TranscriptionNotes)
	}
	if snaps[1].Transcribed {
		t.Error("Older snapshot must not be touched")
	}
}

func TestMarkTranscribedNoSnapshots(t *testing.T) {
	s := New(t.TempDir())
	err := s.MarkTranscribed(testClinic(), "", time.Now())
	if !errors.Is(err, ErrNoSnapshots) {
		t.Fatalf("Expected ErrNoSnapshots, got %v", err)
	}
}

func TestEvidencePresent(t *testing.T) {
	s := New(t.TempDir())
	c := testClinic()

	snap := newSnapshot(c, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	if err := s.Append(c, snap, "html.html", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if !s.EvidencePresent(c, *snap) {
		t.Error("Evidence should be present right after append")
	}

	if err := os.Remove(filepath.Join(s.ClinicDir(c), snap.EvidenceFile)); err != nil {
		t.Fatal(err)
	}
	if s.EvidencePresent(c, *snap) {
		t.Error("Evidence reported present after removal")
	}
}
