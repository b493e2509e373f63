package classify

import "github.com/quadmind/ingestwatch/internal/model"

// Rule maps a set of filename keywords to a domain with a base confidence.
type Rule struct {
	Keywords   []string
	Domain     model.Domain
	Confidence float64
}

// fallbackConfidence is used when no keyword rule matches.
const fallbackConfidence = 0.75

// defaultRules returns the keyword rules in priority order. Soul outranks
// Body outranks Heart outranks Mind when a filename matches several rules.
func defaultRules() []Rule {
	return []Rule{
		{
			Domain:     model.DomainSoul,
			Keywords:   []string{"security", "audit", "compliance", "policy", "governance", "soul"},
			Confidence: 0.95,
		},
		{
			Domain:     model.DomainBody,
			Keywords:   []string{"log", "telemetry", "metric", "system", "performance", "body"},
			Confidence: 0.92,
		},
		{
			Domain:     model.DomainHeart,
			Keywords:   []string{"user", "persona", "preference", "feedback", "heart"},
			Confidence: 0.90,
		},
		{
			Domain:     model.DomainMind,
			Keywords:   []string{"spec", "api", "config", "manual", "guide", "mind", "tech", "code"},
			Confidence: 0.93,
		},
	}
}
