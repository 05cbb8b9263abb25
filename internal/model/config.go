package model

import "time"

// Config holds all tunable settings, layered by the CLI from defaults,
// the config file, CLINICSNAP_* environment variables, and flags.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Capture    CaptureConfig    `yaml:"capture" mapstructure:"capture"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Verbose    bool             `yaml:"verbose" mapstructure:"verbose"`
}

// HTTPConfig controls outbound fetches
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ClassifierConfig holds the anti-access heuristics. All of these are
// approximations; the classifier output is advisory, never a gate.
type ClassifierConfig struct {
	// MinBodyBytes: responses shorter than this are assumed to need JS rendering.
	MinBodyBytes int `yaml:"min_body_bytes" mapstructure:"min_body_bytes"`

	// BotWallMarkers are matched as substrings against the response body.
	BotWallMarkers []string `yaml:"bot_wall_markers" mapstructure:"bot_wall_markers"`

	// LoginURLMarkers are matched against the final navigated URL.
	LoginURLMarkers []string `yaml:"login_url_markers" mapstructure:"login_url_markers"`

	RobotsTimeout  time.Duration `yaml:"robots_timeout" mapstructure:"robots_timeout"`
	RobotsCacheTTL time.Duration `yaml:"robots_cache_ttl" mapstructure:"robots_cache_ttl"`
}

// CaptureConfig controls where evidence lands and how captures are paced
type CaptureConfig struct {
	SnapshotDir string `yaml:"snapshot_dir" mapstructure:"snapshot_dir"`

	// Per-source-type delay between sequential captures in a batch.
	// Deliberately slow: parallel capture would defeat the point.
	SocialDelay time.Duration `yaml:"social_delay" mapstructure:"social_delay"`
	WebDelay    time.Duration `yaml:"web_delay" mapstructure:"web_delay"`
	CheckDelay  time.Duration `yaml:"check_delay" mapstructure:"check_delay"`

	// RequestsPerSecond caps the per-host rate on top of the fixed delays.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ReportConfig controls the status table
type ReportConfig struct {
	// DueSoonDays: reviews closer than this many days are flagged DUE SOON.
	DueSoonDays int `yaml:"due_soon_days" mapstructure:"due_soon_days"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout: 15 * time.Second,
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
				"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			MaxBodyBytes: 2_000_000,
		},
		Classifier: ClassifierConfig{
			MinBodyBytes:    500,
			BotWallMarkers:  []string{"cloudflare", "cf-ray", "__cf_bm", "Checking your browser"},
			LoginURLMarkers: []string{"login", "checkpoint"},
			RobotsTimeout:   10 * time.Second,
			RobotsCacheTTL:  1 * time.Hour,
		},
		Capture: CaptureConfig{
			SnapshotDir:       "snapshots",
			SocialDelay:       3 * time.Second,
			WebDelay:          2 * time.Second,
			CheckDelay:        1 * time.Second,
			RequestsPerSecond: 1,
		},
		Report: ReportConfig{
			DueSoonDays: 30,
		},
	}
}
