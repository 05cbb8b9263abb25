package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verifyNote       string
	verifyUnverified bool
)

// verifyCmd groups the verification-record operations
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Manage per-clinic verification records",
	Long: `Verify tracks the human transcription state for clinics whose
evidence is reviewed as a whole (image sources): a single mutable record
per clinic with a full history of prior states and a next-review date.

Social and web sources track transcription per snapshot instead; see
'clinicsnap transcribed'.`,
}

var verifyInitCmd = &cobra.Command{
	Use:   "init <clinic-id>",
	Short: "Create the verification record for a clinic",
	Long: `Init creates an unverified record with an empty history and the
first review deadline. It refuses to overwrite an existing record —
re-initialization would discard prior human work.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comp, err := buildComponents()
		if err != nil {
			return err
		}
		clinic, err := comp.registry.Get(args[0])
		if err != nil {
			return err
		}
		rec, err := comp.verify.Init(clinic)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s: verification record created\n", clinic.Name)
		if rec.NextReviewDate != "" {
			fmt.Fprintf(os.Stderr, "Next review: %s\n", rec.NextReviewDate)
		}
		fmt.Fprintf(os.Stderr, "\nNext steps:\n")
		fmt.Fprintf(os.Stderr, "  1. ingest the source images: clinicsnap ingest --clinic %s <file>\n", clinic.ID)
		fmt.Fprintf(os.Stderr, "  2. check the transcribed data against the images\n")
		fmt.Fprintf(os.Stderr, "  3. clinicsnap verify update %s --note 'confirmed'\n", clinic.ID)
		return nil
	},
}

var verifyUpdateCmd = &cobra.Command{
	Use:   "update <clinic-id>",
	Short: "Record a verification pass",
	Long: `Update appends the current state to the record's history, then
applies the new verification state and recomputes the next review date.
The clinic's evidence directory is rescanned so the record lists what
currently backs the verification.

The record must exist; run 'verify init' first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comp, err := buildComponents()
		if err != nil {
			return err
		}
		clinic, err := comp.registry.Get(args[0])
		if err != nil {
			return err
		}
		rec, err := comp.verify.Update(clinic, !verifyUnverified, verifyNote)
		if err != nil {
			return err
		}
		state := "verified"
		if verifyUnverified {
			state = "marked unverified"
		}
		fmt.Fprintf(os.Stderr, "%s: %s (%d evidence files)\n", clinic.Name, state, len(rec.EvidenceFiles))
		if rec.NextReviewDate != "" {
			fmt.Fprintf(os.Stderr, "Next review: %s\n", rec.NextReviewDate)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.AddCommand(verifyInitCmd)
	verifyCmd.AddCommand(verifyUpdateCmd)

	verifyUpdateCmd.Flags().StringVar(&verifyNote, "note", "", "verification note")
	verifyUpdateCmd.Flags().BoolVar(&verifyUnverified, "unverified", false, "record the pass as not verified")
}
