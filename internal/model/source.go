package model

// SourceType identifies how a clinic publishes its schedule
type SourceType string

const (
	SourceSocial SourceType = "social" // Facebook / LINE VOOM pages, screenshot evidence
	SourceImage  SourceType = "image"  // static schedule images supplied by hand
	SourceWeb    SourceType = "web"    // plain web pages, HTML evidence
)

// Platform narrows the capture strategy within a source type
type Platform string

const (
	PlatformFacebook    Platform = "facebook"
	PlatformLineVoom    Platform = "line_voom" // usually readable without login
	PlatformGenericWeb  Platform = "generic_web"
	PlatformStaticImage Platform = "static_image"
)

// ClinicSource describes one registered data origin.
// Defined at process start from configuration; immutable afterwards.
type ClinicSource struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	SourceType SourceType `json:"source_type" yaml:"source_type"`
	Platform   Platform   `json:"platform" yaml:"platform"`

	// URL is the page to capture. Empty means the mapping is missing
	// upstream; batch operations skip such clinics with a warning.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// ReviewIntervalDays of 0 means no periodic re-verification.
	ReviewIntervalDays int `json:"review_interval_days" yaml:"review_interval_days"`
}

// NeedsReview reports whether this source is subject to periodic re-verification
func (c ClinicSource) NeedsReview() bool {
	return c.ReviewIntervalDays > 0
}
