package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"github.com/stompsid-lgtm/clinicsnap/internal/store"
)

// RenderAudit writes the anti-access check results as a table
func RenderAudit(w io.Writer, diags []model.AccessDiagnosis) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Clinic", "Status", "Bot Wall", "Needs JS", "Robots", "Size", "Note"})

	for _, d := range diags {
		status := "ERR"
		if d.StatusCode != nil {
			status = fmt.Sprintf("%d", *d.StatusCode)
		}
		note := d.Error
		if note == "" {
			note = "OK"
		}
		t.AppendRow(table.Row{
			d.Clinic,
			status,
			warnMark(d.BlockedByBotWall),
			warnMark(d.RequiresJSRendering),
			okMark(d.RobotsAllowed),
			fmt.Sprintf("%d", d.ResponseSizeBytes),
			truncate(note, 40),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// SaveAudit persists the audit as a timestamped JSON document for later
// comparison between runs.
func SaveAudit(path string, diags []model.AccessDiagnosis) error {
	return store.WriteJSONAtomic(path, diags)
}

func warnMark(flagged bool) string {
	if flagged {
		return "warn"
	}
	return "ok"
}

func okMark(ok bool) string {
	if ok {
		return "ok"
	}
	return "warn"
}
