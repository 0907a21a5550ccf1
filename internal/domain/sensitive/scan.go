// Package sensitive scans arbitrary values for secret-shaped content before
// they are staged into an update proposal. It is a pure function over its
// inputs; the workflow layer treats any reported error as a hard gate.
package sensitive

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Result holds the outcome of a scan. Valid is false iff any error was
// recorded anywhere in the recursive walk.
type Result struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// sensitiveKeyFragments flag field names that commonly hold credentials.
// Matched case-insensitively as substrings of the key.
var sensitiveKeyFragments = []string{
	"password",
	"passwd",
	"secret",
	"api_key",
	"apikey",
	"token",
	"credential",
	"private_key",
}

type signature struct {
	name string
	re   *regexp.Regexp
}

// signatures match secret-shaped string content. Any match is an error.
var signatures = []signature{
	{"api key", regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}`)},
	{"bearer JWT", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)},
	{"connection string with credentials", regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^:/\s]+:[^@\s]+@`)},
	{"AWS access key", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"GitHub token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}`)},
	{"UUID-shaped value", regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)},
}

// suspectValue flags long plain alphanumeric/dash strings that look like
// opaque credentials but match no known signature. Soft warning only.
var suspectValue = regexp.MustCompile(`^[A-Za-z0-9-]{21,}$`)

// Scan checks a value, and optionally its field name, for sensitive content.
// Maps and slices are walked recursively; messages are prefixed with the
// field path of the offending element.
func Scan(value any, key string) Result {
	res := Result{Valid: true}
	scanValue(&res, value, key)
	res.Valid = len(res.Errors) == 0
	return res
}

func scanValue(res *Result, value any, path string) {
	if path != "" {
		lower := strings.ToLower(lastSegment(path))
		for _, fragment := range sensitiveKeyFragments {
			if strings.Contains(lower, fragment) {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: field name contains sensitive fragment %q", path, fragment))
				break
			}
		}
	}

	switch val := normalize(value).(type) {
	case map[string]any:
		for k, v := range val {
			scanValue(res, v, joinPath(path, k))
		}
	case []any:
		for i, v := range val {
			scanValue(res, v, fmt.Sprintf("%s[%d]", path, i))
		}
	case string:
		scanString(res, val, path)
	case nil:
		// nothing to check
	default:
		scanString(res, fmt.Sprintf("%v", val), path)
	}
}

func scanString(res *Result, s, path string) {
	matched := false
	for _, sig := range signatures {
		if sig.re.MatchString(s) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: value matches %s pattern", prefix(path), sig.name))
			matched = true
		}
	}
	if !matched && suspectValue.MatchString(s) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: long opaque string, double-check it is not a secret", prefix(path)))
	}
}

// normalize converts structs and typed slices into their JSON shape so the
// walk sees the same field names the wire payload would carry.
func normalize(value any) any {
	switch value.(type) {
	case nil, string, bool, float64, int, int64, map[string]any, []any:
		return value
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func prefix(path string) string {
	if path == "" {
		return "value"
	}
	return path
}
