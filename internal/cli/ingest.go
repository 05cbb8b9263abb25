package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stompsid-lgtm/clinicsnap/internal/capture"
)

var (
	ingestClinic string
	ingestNote   string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <evidence-file>",
	Short: "Record a manually captured evidence file",
	Long: `Ingest copies an operator-supplied evidence file (a screenshot
taken behind a login wall, a photographed schedule image) into the
clinic's snapshot directory and records it as a manual capture.

Example:
  clinicsnap ingest --clinic c01 ~/Desktop/hean-fb.png --note "logged-in screenshot"
  clinicsnap ingest --clinic c08 schedule-photo.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestClinic, "clinic", "", "clinic ID (required)")
	ingestCmd.Flags().StringVar(&ingestNote, "note", "", "note recorded with the evidence")
	_ = ingestCmd.MarkFlagRequired("clinic")
}

func runIngest(cmd *cobra.Command, args []string) error {
	comp, err := buildComponents()
	if err != nil {
		return err
	}

	clinic, err := comp.registry.Get(ingestClinic)
	if err != nil {
		return err
	}

	capt := capture.New(comp.cfg, comp.store, nil, os.Stderr)
	snap, err := capt.Ingest(clinic, args[0], ingestNote)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%s: evidence recorded as %s\n", clinic.Name, snap.EvidenceFile)
	return nil
}
