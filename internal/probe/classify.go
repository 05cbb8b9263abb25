package probe

import (
	"strings"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"golang.org/x/net/html"
)

// Classifier labels a fetched page with the access obstacles it shows.
// It never attempts to defeat a protection; the output is advisory input
// for a human operator, not a gate on capture.
type Classifier struct {
	cfg model.ClassifierConfig
}

// NewClassifier creates a classifier with the given thresholds and markers
func NewClassifier(cfg model.ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify inspects a response without side effects. statusCode may be nil
// when the request never completed; finalURL is the address after redirects.
func (cl *Classifier) Classify(statusCode *int, body []byte, finalURL string, robotsAllowed bool) model.AccessDiagnosis {
	diag := model.AccessDiagnosis{
		URL:               finalURL,
		StatusCode:        statusCode,
		RobotsAllowed:     robotsAllowed,
		ResponseSizeBytes: len(body),
	}

	diag.BlockedByLogin = cl.LoginURL(finalURL)

	text := string(body)
	for _, marker := range cl.cfg.BotWallMarkers {
		if strings.Contains(text, marker) {
			diag.BlockedByBotWall = true
			break
		}
	}

	diag.RequiresJSRendering = cl.requiresJS(body)
	return diag
}

// LoginURL reports whether the final navigated address looks like a
// login or checkpoint page.
func (cl *Classifier) LoginURL(finalURL string) bool {
	lower := strings.ToLower(finalURL)
	for _, marker := range cl.cfg.LoginURLMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// requiresJS guesses whether the page is an empty JS-rendered shell:
// either the body is shorter than the configured minimum, or the parsed
// HTML contains no structural content at all (no table or block
// container). False positives and negatives are expected.
func (cl *Classifier) requiresJS(body []byte) bool {
	if len(body) < cl.cfg.MinBodyBytes {
		return true
	}
	return !hasStructuralContent(body)
}

func hasStructuralContent(body []byte) bool {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		// Unparseable bodies are treated as structureless.
		return false
	}

	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && (n.Data == "table" || n.Data == "div") {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}
