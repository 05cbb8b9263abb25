package model

import "time"

// AccessDiagnosis is the transient result of probing a source for access
// obstacles. It is advisory: heuristic flags tell a human operator what to
// expect, they never gate a capture. Not persisted on its own — the audit
// report and snapshot metadata fold in the relevant fields.
type AccessDiagnosis struct {
	Clinic string `json:"clinic,omitempty"`
	URL    string `json:"url"`

	// StatusCode is nil when the request never completed.
	StatusCode *int `json:"status_code"`

	BlockedByLogin      bool `json:"blocked_by_login"`
	BlockedByBotWall    bool `json:"blocked_by_bot_wall"`
	RequiresJSRendering bool `json:"requires_js_rendering"`

	// RobotsAllowed defaults to true when robots.txt cannot be read
	// (fail-open); RobotsError preserves the failure for audit.
	RobotsAllowed bool   `json:"robots_allowed"`
	RobotsError   string `json:"robots_error,omitempty"`

	ResponseSizeBytes int    `json:"response_size_bytes"`
	Accessible        bool   `json:"accessible"`
	Error             string `json:"error,omitempty"`

	CheckedAt time.Time `json:"checked_at"`
}
