// Package classify assigns ingested files to knowledge domains using
// filename keyword heuristics.
package classify

import (
	"path"
	"strings"

	"github.com/quadmind/ingestwatch/internal/model"
)

// Result is a classification outcome: the chosen domain and how confident
// the keyword heuristic is in it.
type Result struct {
	Domain     model.Domain
	Confidence float64
}

// Classify maps a filename to a knowledge domain. Matching is a
// case-insensitive substring test against ordered keyword rules; the first
// matching rule wins, so a filename containing both a Soul and a Body keyword
// resolves to Soul. Classification is total: filenames matching no rule fall
// back to Mind with reduced confidence.
func Classify(fileName string) Result {
	name := strings.ToLower(path.Base(fileName))

	for _, rule := range defaultRules() {
		for _, kw := range rule.Keywords {
			if strings.Contains(name, kw) {
				return Result{Domain: rule.Domain, Confidence: rule.Confidence}
			}
		}
	}

	return Result{Domain: model.DomainMind, Confidence: fallbackConfidence}
}
