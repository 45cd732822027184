package smell

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

// metricPatterns pull metric values out of free-text detector reasons,
// e.g. "WMC (57)" or "LCOM 0.82".
var metricPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"WMC", regexp.MustCompile(`\bWMC\s*\(?([0-9]+)\)?`)},
	{"CBO", regexp.MustCompile(`\bCBO\s*\(?([0-9]+)\)?`)},
	{"RFC", regexp.MustCompile(`\bRFC\s*\(?([0-9]+)\)?`)},
	{"LCOM", regexp.MustCompile(`\bLCOM\s*\(?([0-9]*\.?[0-9]+)\)?`)},
	{"LOC", regexp.MustCompile(`\bLOC\s*\(?([0-9]+)\)?`)},
	{"NMD", regexp.MustCompile(`\bNMD\s*\(?([0-9]+)\)?`)},
	{"NAD", regexp.MustCompile(`\bNAD\s*\(?([0-9]+)\)?`)},
}

// ExtractMetrics finds known metrics mentioned in a detector reason
func ExtractMetrics(reason string) Metrics {
	m := Metrics{}
	for _, mp := range metricPatterns {
		match := mp.pattern.FindStringSubmatch(reason)
		if match == nil {
			continue
		}
		if v, err := strconv.ParseFloat(match[1], 64); err == nil {
			m[mp.name] = v
		}
	}
	return m
}

// CaseID derives a stable case identifier: the project name with spaces
// replaced by underscores, then the first 12 hex digits of a SHA-1 over the
// identifying fields.
func CaseID(project, pkg, className, smellType, reason string) string {
	key := strings.Join([]string{project, pkg, className, smellType, reason}, "|")
	sum := sha1.Sum([]byte(key))
	return strings.ReplaceAll(project, " ", "_") + "_" + hex.EncodeToString(sum[:])[:12]
}

// SplitInner returns the outer type used for file resolution and, for
// dotted names, the full inner name.
func SplitInner(className string) (outer, inner string) {
	if idx := strings.Index(className, "."); idx >= 0 {
		return className[:idx], className
	}
	return className, ""
}
