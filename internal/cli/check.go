package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"github.com/stompsid-lgtm/clinicsnap/internal/probe"
	"github.com/stompsid-lgtm/clinicsnap/internal/report"
)

var (
	checkClinic string
	checkNoSave bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe sources for access obstacles without capturing",
	Long: `Check fetches each web source once and classifies the response:
bot-wall markers, JS-rendering requirement, robots.txt signal. No
protection is circumvented and nothing is captured; the output tells
the operator what to expect before a capture run.

The robots.txt signal fails open — an unreadable robots.txt reads as
allowed, with the failure kept in the report for audit.

Example:
  clinicsnap check
  clinicsnap check --clinic c02`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkClinic, "clinic", "", "check one clinic by ID")
	checkCmd.Flags().BoolVar(&checkNoSave, "no-save", false, "skip writing the JSON audit report")
}

func runCheck(cmd *cobra.Command, args []string) error {
	comp, err := buildComponents()
	if err != nil {
		return err
	}

	var clinics []model.ClinicSource
	if checkClinic != "" {
		clinic, err := comp.registry.Get(checkClinic)
		if err != nil {
			return err
		}
		clinics = append(clinics, clinic)
	} else {
		clinics = comp.registry.BySourceType(model.SourceWeb)
	}

	prober := probe.NewProber(comp.cfg)
	ctx := context.Background()

	fmt.Fprintf(os.Stderr, "Checking %d sources...\n\n", len(clinics))
	var diags []model.AccessDiagnosis
	for i, clinic := range clinics {
		if clinic.URL == "" {
			fmt.Fprintf(os.Stderr, "  %s: no source URL configured, skipping\n", clinic.Name)
			continue
		}
		if i > 0 {
			time.Sleep(comp.cfg.Capture.CheckDelay)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "  checking %s (%s)\n", clinic.Name, clinic.URL)
		}
		diags = append(diags, prober.Check(ctx, clinic))
	}

	report.RenderAudit(os.Stdout, diags)

	accessible, botWall, needsJS := 0, 0, 0
	for _, d := range diags {
		if d.Accessible {
			accessible++
		}
		if d.BlockedByBotWall {
			botWall++
		}
		if d.RequiresJSRendering {
			needsJS++
		}
	}
	fmt.Fprintf(os.Stderr, "\nSummary: %d/%d accessible, %d behind bot walls, %d need JS rendering\n",
		accessible, len(diags), botWall, needsJS)

	if !checkNoSave && len(diags) > 0 {
		path := fmt.Sprintf("anti_scraping_report_%s.json", time.Now().Format("20060102_150405"))
		if err := report.SaveAudit(path, diags); err != nil {
			return fmt.Errorf("save audit report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report saved: %s\n", path)
	}
	return nil
}
