package eventlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatEntry renders e as a single log line. Paths and detail are quoted
// so values containing spaces survive ParseEntries.
func FormatEntry(e Entry) string {
	line := fmt.Sprintf("%s  outcome=%s  source=%q",
		e.Time.Format(time.RFC3339), e.Outcome, e.Source)
	if e.SourceSum != "" {
		line += "  sha256=" + e.SourceSum
	}
	if e.ICO != "" {
		line += fmt.Sprintf("  ico=%q", e.ICO)
	}
	if e.ICNS != "" {
		line += fmt.Sprintf("  icns=%q", e.ICNS)
	}
	if e.Detail != "" {
		line += fmt.Sprintf("  detail=%q", e.Detail)
	}
	return line
}

// ParseEntries parses log content line by line. Lines without a valid
// timestamp or outcome are skipped.
func ParseEntries(content string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		ts, ok := ExtractTimestamp(line)
		if !ok {
			continue
		}
		fields := parseFields(line[strings.Index(line, "  "):])
		if fields["outcome"] == "" {
			continue
		}
		entries = append(entries, Entry{
			Time:      ts,
			Outcome:   fields["outcome"],
			Source:    fields["source"],
			SourceSum: fields["sha256"],
			ICO:       fields["ico"],
			ICNS:      fields["icns"],
			Detail:    fields["detail"],
		})
	}
	return entries
}

// ExtractTimestamp parses the RFC3339 timestamp at the start of a log line.
func ExtractTimestamp(line string) (time.Time, bool) {
	tsEnd := strings.Index(line, "  ")
	if tsEnd < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[:tsEnd])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// parseFields scans key=value pairs left to right. Quoted values are
// consumed whole, so their contents never start a new field. The first
// occurrence of a key wins.
func parseFields(s string) map[string]string {
	fields := map[string]string{}
	for {
		s = strings.TrimLeft(s, " ")
		eq := strings.IndexByte(s, '=')
		if s == "" || eq < 0 {
			return fields
		}
		key, rest := s[:eq], s[eq+1:]
		if strings.ContainsRune(key, ' ') {
			// Not a key; skip the stray word.
			s = s[strings.IndexByte(s, ' '):]
			continue
		}

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := quotedLen(rest)
			if end < 0 {
				return fields
			}
			value = extractQuoted(rest[:end])
			rest = rest[end:]
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			value, rest = rest[:sp], rest[sp:]
		} else {
			value, rest = rest, ""
		}
		if _, seen := fields[key]; !seen {
			fields[key] = value
		}
		s = rest
	}
}

// quotedLen returns the length of the Go %q string at the start of s,
// including both quotes, or -1 if it is unterminated.
func quotedLen(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++ // skip escaped character
			continue
		}
		if s[i] == '"' {
			return i + 1
		}
	}
	return -1
}

// extractQuoted extracts a Go %q-encoded string from the start of s.
// It finds the matching closing quote (respecting backslash escapes),
// then uses strconv.Unquote to decode the value. Returns "" on failure.
func extractQuoted(s string) string {
	if len(s) == 0 || s[0] != '"' {
		return ""
	}
	end := quotedLen(s)
	if end < 0 {
		return ""
	}
	text, err := strconv.Unquote(s[:end])
	if err != nil {
		return ""
	}
	return text
}
