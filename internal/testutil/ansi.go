// Package testutil holds helpers shared by the CLI and app tests.
package testutil

import "regexp"

// csiSequence matches the ANSI control sequences emitted by the themes.
var csiSequence = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes returns s without color and style escape codes, so tests
// can assert on the text a user reads.
func StripAnsiCodes(s string) string {
	return csiSequence.ReplaceAllString(s, "")
}
