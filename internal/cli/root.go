package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"github.com/stompsid-lgtm/clinicsnap/internal/registry"
	"github.com/stompsid-lgtm/clinicsnap/internal/report"
	"github.com/stompsid-lgtm/clinicsnap/internal/store"
	"github.com/stompsid-lgtm/clinicsnap/internal/verify"
)

var (
	cfgFile      string
	registryFile string
	snapshotDir  string
	verbose      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clinicsnap",
	Short: "Clinicsnap - clinic schedule evidence capture & verification",
	Long: `Clinicsnap gathers durable evidence of clinic schedule pages —
screenshots, HTML, manually supplied images — and tracks the human
transcription and verification work that turns that evidence into
schedule data.

Sources are rarely machine-parseable (login walls, bot walls, pages
that only render with JavaScript), so automated extraction is not
attempted. Clinicsnap instead keeps an append-only snapshot log per
clinic, classifies access obstacles for the operator, and schedules
periodic re-verification with expiry tracking.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("clinicsnap v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.clinicsnap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&registryFile, "registry", "", "clinic registry YAML (default: built-in clinic set)")
	rootCmd.PersistentFlags().StringVar(&snapshotDir, "snapshot-dir", "", "snapshot root directory (default: ./snapshots)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.clinicsnap")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CLINICSNAP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// activeConfig layers the config file and environment over the defaults
func activeConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: bad configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}
	cfg.Verbose = verbose
	if snapshotDir != "" {
		cfg.Capture.SnapshotDir = snapshotDir
	}
	return cfg
}

// components wires the shared pieces every command needs
type components struct {
	cfg      *model.Config
	registry *registry.Registry
	store    *store.Store
	verify   *verify.Manager
	reporter *report.Reporter
}

func buildComponents() (*components, error) {
	cfg := activeConfig()

	reg, err := registry.Load(registryFile)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	st := store.New(cfg.Capture.SnapshotDir)
	vm := verify.NewManager(st)

	return &components{
		cfg:      cfg,
		registry: reg,
		store:    st,
		verify:   vm,
		reporter: report.NewReporter(st, vm, cfg.Report.DueSoonDays),
	}, nil
}
