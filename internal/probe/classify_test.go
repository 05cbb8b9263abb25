package probe

import (
	"bytes"
	"testing"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
)

func testClassifier() *Classifier {
	return NewClassifier(model.DefaultConfig().Classifier)
}

func TestShortBodyRequiresJS(t *testing.T) {
	cl := testClassifier()
	body := bytes.Repeat([]byte("a"), 200)

	status := 200
	diag := cl.Classify(&status, body, "http://example.com/", true)
	if !diag.RequiresJSRendering {
		t.Error("200-byte body must flag requires_js_rendering")
	}
	if diag.ResponseSizeBytes != 200 {
		t.Errorf("ResponseSizeBytes = %d, want 200", diag.ResponseSizeBytes)
	}
}

func TestStructuredBodyDoesNotRequireJS(t *testing.T) {
	cl := testClassifier()
	body := []byte("<html><body><div>" + string(bytes.Repeat([]byte("schedule "), 100)) + "</div></body></html>")

	status := 200
	diag := cl.Classify(&status, body, "http://example.com/", true)
	if diag.RequiresJSRendering {
		t.Error("Long body with a div must not flag requires_js_rendering")
	}
}

func TestLongBodyWithoutStructureRequiresJS(t *testing.T) {
	cl := testClassifier()
	// Long enough, but no table or div anywhere.
	body := []byte("<html><body>" + string(bytes.Repeat([]byte("loading "), 200)) + "</body></html>")

	status := 200
	diag := cl.Classify(&status, body, "http://example.com/", true)
	if !diag.RequiresJSRendering {
		t.Error("Structureless body must flag requires_js_rendering")
	}
}

func TestBotWallMarker(t *testing.T) {
	cl := testClassifier()
	body := []byte("<html><div>" + string(bytes.Repeat([]byte("x"), 600)) + "cf-ray: 8abc</div></html>")

	status := 403
	diag := cl.Classify(&status, body, "http://example.com/", true)
	if !diag.BlockedByBotWall {
		t.Error("Body containing cf-ray must flag blocked_by_bot_wall")
	}
}

func TestCleanBodyHasNoBotWall(t *testing.T) {
	cl := testClassifier()
	body := []byte("<html><table>" + string(bytes.Repeat([]byte("row "), 200)) + "</table></html>")

	status := 200
	diag := cl.Classify(&status, body, "http://example.com/", true)
	if diag.BlockedByBotWall {
		t.Error("Unexpected bot-wall flag on a clean body")
	}
}

func TestLoginURL(t *testing.T) {
	cl := testClassifier()

	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.facebook.com/login/?next=...", true},
		{"https://www.facebook.com/checkpoint/?next=...", true},
		{"https://www.facebook.com/heanclinic", false},
		{"https://www.WEILI-clinic.com/LOGIN", true},
	}
	for _, tc := range cases {
		if got := cl.LoginURL(tc.url); got != tc.want {
			t.Errorf("LoginURL(%s) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestClassifyRecordsRobotsSignal(t *testing.T) {
	cl := testClassifier()
	body := []byte("<html><div>" + string(bytes.Repeat([]byte("x"), 600)) + "</div></html>")

	status := 200
	diag := cl.Classify(&status, body, "http://example.com/", false)
	if diag.RobotsAllowed {
		t.Error("Disallowed robots signal must be carried into the diagnosis")
	}
}
