// Package capture obtains evidence of a clinic source's current content
// and appends every attempt to the snapshot store — including failures,
// which prove the source was unreachable at that time.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"github.com/stompsid-lgtm/clinicsnap/internal/probe"
	"github.com/stompsid-lgtm/clinicsnap/internal/store"
)

// ErrNoDriver means a social capture was requested without a browser driver
var ErrNoDriver = errors.New("no browser driver configured")

// ErrManualOnly means the source type has no automated capture path
var ErrManualOnly = errors.New("source accepts manual evidence only")

// Capturer turns a clinic source into persisted snapshots
type Capturer struct {
	cfg        *model.Config
	store      *store.Store
	fetcher    *Fetcher
	classifier *probe.Classifier
	driver     Driver // nil when no browser is wired in
	pacer      *Pacer
	out        io.Writer // operator progress, normally stderr
}

// New creates a capturer. driver may be nil; social captures then record
// failed attempts instead of screenshots.
func New(cfg *model.Config, st *store.Store, driver Driver, out io.Writer) *Capturer {
	return &Capturer{
		cfg:        cfg,
		store:      st,
		fetcher:    NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes),
		classifier: probe.NewClassifier(cfg.Classifier),
		driver:     driver,
		pacer:      NewPacer(cfg.Capture.RequestsPerSecond),
		out:        out,
	}
}

// Capture runs one automated capture attempt and appends it to the store.
// The returned error covers persistence problems only; capture problems
// (network, driver, login wall) are recorded in the snapshot itself.
func (c *Capturer) Capture(ctx context.Context, clinic model.ClinicSource) (model.Snapshot, error) {
	snap := model.Snapshot{
		ClinicID:   clinic.ID,
		ClinicName: clinic.Name,
		SourceType: clinic.SourceType,
		Platform:   clinic.Platform,
		URL:        clinic.URL,
		CapturedAt: time.Now(),
		Origin:     model.OriginAutomated,
	}

	var (
		label    string
		evidence []byte
	)

	switch clinic.SourceType {
	case model.SourceSocial:
		label = "screenshot.png"
		evidence = c.captureSocial(ctx, clinic, &snap)
	case model.SourceWeb:
		label = "html.html"
		evidence = c.captureWeb(ctx, clinic, &snap)
	default:
		return model.Snapshot{}, fmt.Errorf("%s: %w", clinic.ID, ErrManualOnly)
	}

	if err := c.store.Append(clinic, &snap, label, evidence); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// captureSocial screenshots the page through the browser driver. A
// redirect to a login or checkpoint page still saves the screenshot (it
// shows the wall) but flags the attempt for manual follow-up.
func (c *Capturer) captureSocial(ctx context.Context, clinic model.ClinicSource, snap *model.Snapshot) []byte {
	if c.driver == nil {
		snap.Outcome = model.OutcomeFailure
		snap.Error = ErrNoDriver.Error()
		return nil
	}

	finalURL, screenshot, err := c.driver.Navigate(ctx, clinic.URL)
	if err != nil {
		snap.Outcome = model.OutcomeFailure
		snap.Error = err.Error()
		return nil
	}

	snap.Success = true
	if c.classifier.LoginURL(finalURL) {
		snap.Outcome = model.OutcomeLoginRequired
		snap.NeedsLogin = true
		fmt.Fprintf(c.out, "  %s: redirected to a login page, screenshot shows the wall\n", clinic.Name)
	} else {
		snap.Outcome = model.OutcomeSuccess
	}
	return screenshot
}

// captureWeb fetches the page over plain HTTP and saves the HTML
func (c *Capturer) captureWeb(ctx context.Context, clinic model.ClinicSource, snap *model.Snapshot) []byte {
	res, err := c.fetcher.Fetch(ctx, clinic.URL)
	if err != nil {
		snap.Outcome = model.OutcomeFailure
		snap.Error = err.Error()
		return nil
	}

	diag := c.classifier.Classify(&res.StatusCode, res.Body, res.FinalURL, true)
	snap.Success = true
	switch {
	case diag.BlockedByLogin:
		snap.Outcome = model.OutcomeLoginRequired
		snap.NeedsLogin = true
	case diag.BlockedByBotWall:
		snap.Outcome = model.OutcomeBotWall
		snap.BotWall = true
	default:
		snap.Outcome = model.OutcomeSuccess
	}
	return res.Body
}

// Ingest records an externally supplied evidence file (origin manual).
// The file must exist; nothing is written otherwise.
func (c *Capturer) Ingest(clinic model.ClinicSource, srcPath, note string) (model.Snapshot, error) {
	snap := model.Snapshot{
		ClinicID:           clinic.ID,
		ClinicName:         clinic.Name,
		SourceType:         clinic.SourceType,
		Platform:           clinic.Platform,
		CapturedAt:         time.Now(),
		Origin:             model.OriginManual,
		Outcome:            model.OutcomeSuccess,
		Success:            true,
		TranscriptionNotes: note,
	}
	if err := c.store.IngestFile(clinic, &snap, srcPath); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// BatchSummary counts the outcomes of a batch run
type BatchSummary struct {
	Attempted  int
	Succeeded  int
	NeedsLogin int
	Skipped    int
	Failed     int
}

// Batch captures each clinic sequentially with a pacing delay in between.
// Clinics without a URL are skipped with a warning; one clinic's failure
// never aborts the rest.
func (c *Capturer) Batch(ctx context.Context, clinics []model.ClinicSource) BatchSummary {
	var sum BatchSummary
	for _, clinic := range clinics {
		if clinic.URL == "" {
			fmt.Fprintf(c.out, "  %s: no source URL configured, skipping\n", clinic.Name)
			sum.Skipped++
			continue
		}

		if err := c.pacer.Wait(ctx, clinic.URL, c.delayFor(clinic.SourceType)); err != nil {
			fmt.Fprintf(c.out, "  %s: %v\n", clinic.Name, err)
			sum.Failed++
			continue
		}

		sum.Attempted++
		snap, err := c.Capture(ctx, clinic)
		if err != nil {
			fmt.Fprintf(c.out, "  %s: %v\n", clinic.Name, err)
			sum.Failed++
			continue
		}

		if snap.Success {
			sum.Succeeded++
			fmt.Fprintf(c.out, "  %s: evidence saved (%s)\n", clinic.Name, snap.EvidenceFile)
		} else {
			sum.Failed++
			fmt.Fprintf(c.out, "  %s: capture failed - %s\n", clinic.Name, snap.Error)
		}
		if snap.NeedsLogin {
			sum.NeedsLogin++
		}
	}
	return sum
}

func (c *Capturer) delayFor(t model.SourceType) time.Duration {
	switch t {
	case model.SourceSocial:
		return c.cfg.Capture.SocialDelay
	case model.SourceWeb:
		return c.cfg.Capture.WebDelay
	default:
		return 0
	}
}
