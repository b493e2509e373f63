// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// Domain is one of the four fixed knowledge domains files are ingested into.
type Domain string

const (
	// DomainMind holds technical and reference knowledge (specs, APIs, guides).
	DomainMind Domain = "mind"
	// DomainBody holds operational knowledge (logs, telemetry, system metrics).
	DomainBody Domain = "body"
	// DomainHeart holds user-centric knowledge (personas, preferences, feedback).
	DomainHeart Domain = "heart"
	// DomainSoul holds governance knowledge (security, audit, compliance).
	DomainSoul Domain = "soul"
)

// Domains lists all knowledge domains in classification priority order.
var Domains = []Domain{DomainSoul, DomainBody, DomainHeart, DomainMind}

// String returns the display name of the domain.
func (d Domain) String() string {
	switch d {
	case DomainMind:
		return "Mind"
	case DomainBody:
		return "Body"
	case DomainHeart:
		return "Heart"
	case DomainSoul:
		return "Soul"
	default:
		return string(d)
	}
}

// ParseDomain converts a stored domain name back to a Domain.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "mind", "Mind":
		return DomainMind, nil
	case "body", "Body":
		return DomainBody, nil
	case "heart", "Heart":
		return DomainHeart, nil
	case "soul", "Soul":
		return DomainSoul, nil
	default:
		return "", fmt.Errorf("unknown domain: %q", s)
	}
}
