package probe

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
)

func TestProberCheckAccessible(t *testing.T) {
	page := "<html><body><table>" + string(bytes.Repeat([]byte("row "), 200)) + "</table></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nAllow: /\n")
			return
		}
		_, _ = fmt.Fprint(w, page)
	}))
	defer server.Close()

	p := NewProber(model.DefaultConfig())
	diag := p.Check(context.Background(), model.ClinicSource{Name: "承新骨科", URL: server.URL + "/wn/hosp.php"})

	if !diag.Accessible {
		t.Errorf("Expected accessible, got error %q", diag.Error)
	}
	if diag.StatusCode == nil || *diag.StatusCode != 200 {
		t.Errorf("StatusCode = %v, want 200", diag.StatusCode)
	}
	if !diag.RobotsAllowed {
		t.Error("Robots should be allowed")
	}
	if diag.RequiresJSRendering {
		t.Error("Table-bearing page must not be flagged as JS-rendered")
	}
}

func TestProberCheckUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewProber(model.DefaultConfig())
	diag := p.Check(context.Background(), model.ClinicSource{Name: "x", URL: url})

	if diag.Accessible {
		t.Error("Unreachable source reported accessible")
	}
	if diag.Error == "" {
		t.Error("Transport failure must be folded into the diagnosis")
	}
	if !diag.RobotsAllowed {
		t.Error("Unreachable robots.txt must fail open")
	}
	if diag.RobotsError == "" {
		t.Error("The robots failure must be recorded for audit")
	}
}

func TestProberCheckHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = fmt.Fprint(w, "<html>Checking your browser before accessing</html>")
	}))
	defer server.Close()

	p := NewProber(model.DefaultConfig())
	diag := p.Check(context.Background(), model.ClinicSource{Name: "x", URL: server.URL})

	if diag.Accessible {
		t.Error("403 must not be accessible")
	}
	if !diag.BlockedByBotWall {
		t.Error("Interstitial marker must flag the bot wall")
	}
	if diag.StatusCode == nil || *diag.StatusCode != 403 {
		t.Errorf("StatusCode = %v, want 403", diag.StatusCode)
	}
}
