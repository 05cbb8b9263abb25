package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
)

// Prober runs the standalone anti-access audit: fetch a source once,
// classify the response, and fold in the robots.txt signal. Nothing is
// persisted by the prober itself.
type Prober struct {
	httpClient *http.Client
	classifier *Classifier
	robots     *RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewProber creates a prober from config
func NewProber(cfg *model.Config) *Prober {
	return &Prober{
		httpClient: &http.Client{Timeout: cfg.HTTP.Timeout},
		classifier: NewClassifier(cfg.Classifier),
		robots:     NewRobotsChecker(cfg.HTTP.UserAgent, cfg.Classifier.RobotsTimeout, cfg.Classifier.RobotsCacheTTL),
		userAgent:  cfg.HTTP.UserAgent,
		maxBytes:   cfg.HTTP.MaxBodyBytes,
	}
}

// Check probes one clinic source. Transport failures are folded into the
// diagnosis, not returned: an unreachable source is itself a finding.
func (p *Prober) Check(ctx context.Context, c model.ClinicSource) model.AccessDiagnosis {
	diag := model.AccessDiagnosis{
		Clinic:        c.Name,
		URL:           c.URL,
		RobotsAllowed: true,
		CheckedAt:     time.Now(),
	}

	allowed, robotsErr := p.robots.Check(ctx, c.URL)
	diag.RobotsAllowed = allowed
	if robotsErr != nil {
		diag.RobotsError = robotsErr.Error()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		diag.Error = fmt.Sprintf("create request: %v", err)
		return diag
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		diag.Error = err.Error()
		return diag
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		status := resp.StatusCode
		diag.StatusCode = &status
		diag.Error = fmt.Sprintf("read body: %v", err)
		return diag
	}

	status := resp.StatusCode
	classified := p.classifier.Classify(&status, body, resp.Request.URL.String(), allowed)
	classified.Clinic = diag.Clinic
	classified.RobotsError = diag.RobotsError
	classified.CheckedAt = diag.CheckedAt
	classified.Accessible = status >= 200 && status < 300
	if !classified.Accessible {
		classified.Error = fmt.Sprintf("unexpected status: %d %s", status, http.StatusText(status))
	}
	return classified
}
