package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stompsid-lgtm/clinicsnap/internal/model"
)

var statusType string

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show snapshot and verification state for all clinics",
	Long: `Status renders one table across every registered clinic: latest
capture, whether its evidence file is still on disk, verification or
transcription state, and how urgent the next review is. Clinics without
any data yet show placeholders.

Example:
  clinicsnap status
  clinicsnap status --type image`,
	RunE: func(cmd *cobra.Command, args []string) error {
		comp, err := buildComponents()
		if err != nil {
			return err
		}

		clinics := comp.registry.All()
		if statusType != "" {
			clinics = comp.registry.BySourceType(model.SourceType(statusType))
		}

		rows, err := comp.reporter.Rows(clinics, time.Now())
		if err != nil {
			return err
		}
		comp.reporter.Render(os.Stdout, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusType, "type", "", "restrict to one source type (social|image|web)")
}
