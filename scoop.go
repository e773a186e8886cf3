// Package scoop extracts structured article data (headline, link,
// thumbnail, body text, publish date) from configured news websites by
// driving a headless browser.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package scoop

// Mode selects how the browser executable is resolved.
type Mode string

// Mode constants.
const (
	// ModeLocal lets the browser launcher find or download a browser.
	ModeLocal Mode = "local"

	// ModeProduction uses an externally supplied browser executable.
	ModeProduction Mode = "production"
)
