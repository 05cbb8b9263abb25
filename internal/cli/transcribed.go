package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var transcribedNote string

// transcribedCmd represents the transcribed command
var transcribedCmd = &cobra.Command{
	Use:   "transcribed <clinic-id>",
	Short: "Mark the latest evidence as transcribed",
	Long: `Transcribed records that a human has copied the latest evidence
into the schedule data. For social and web sources this flags the latest
snapshot; for image sources it records a verification pass on the
clinic's record.

Example:
  clinicsnap transcribed c01 --note "two new evening slots"`,
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
		if err := comp.verify.MarkTranscribed(clinic, transcribedNote); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s: marked transcribed\n", clinic.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transcribedCmd)
	transcribedCmd.Flags().StringVar(&transcribedNote, "note", "", "transcription note")
}
