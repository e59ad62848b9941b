package utils

import (
	"fmt"

	ua "github.com/mssola/user_agent"
)

// MaxUserAgentLen bounds what we persist on a session row
const MaxUserAgentLen = 4000

// SummarizeUserAgent reduces a raw User-Agent header to a short
// "Browser version on OS" form for session storage. Unparseable or empty
// input falls back to the (truncated) raw string.
func SummarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	parser := ua.New(raw)

	browser, version := parser.Browser()
	os := parser.OS()
	if browser == "" || os == "" {
		return TruncateUserAgent(raw)
	}

	kind := "desktop"
	if parser.Bot() {
		kind = "bot"
	} else if parser.Mobile() {
		kind = "mobile"
	}

	summary := fmt.Sprintf("%s %s on %s (%s)", browser, version, os, kind)
	return TruncateUserAgent(summary)
}

// TruncateUserAgent enforces the column bound on user_sessions.user_agent
func TruncateUserAgent(s string) string {
	if len(s) > MaxUserAgentLen {
		return s[:MaxUserAgentLen]
	}
	return s
}
