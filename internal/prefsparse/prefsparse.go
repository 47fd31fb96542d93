// Package prefsparse extracts preference assignments from Mozilla-style
// prefs.js files. A preferences file can run to thousands of lines, most of
// which are irrelevant to any given caller, so the parser works line by line
// and callers filter for the keys they care about.
package prefsparse

import (
	"strings"
)

// prefix starts every assignment line this parser recognizes.
const prefix = `user_pref("`

// Line extracts the key and value from a single prefs.js line of the form
//
//	user_pref("key", value);
//
// The value may be a quoted string, an integer, or a boolean; surrounding
// quotes are stripped. Comments, blank lines and malformed assignments
// return ok == false; callers skip such lines rather than failing the file.
func Line(line string) (key, value string, ok bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, prefix) {
		return "", "", false
	}
	s = s[len(prefix):]

	key, s, found := strings.Cut(s, `"`)
	if !found || key == "" {
		return "", "", false
	}
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] != ',' {
		return "", "", false
	}
	s = strings.TrimSpace(s[1:])

	// The value runs to the closing parenthesis. A reverse search keeps
	// parentheses inside quoted values (PAC URLs, typically) intact.
	end := strings.LastIndexByte(s, ')')
	if end < 0 {
		return "", "", false
	}
	s = strings.TrimSpace(s[:end])

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return key, s[1 : len(s)-1], true
	}
	if s == "" || strings.ContainsRune(s, '"') {
		return "", "", false
	}
	return key, s, true
}
