package classifier

import (
	"strings"
	"time"

	"sentinel-monitor-go/internal/models"
)

// SeverityTier maps a keyword set to a severity. Tiers are evaluated in
// slice order; the first tier with a matching keyword wins.
type SeverityTier struct {
	Keywords []string
	Severity models.IncidentSeverity
}

// Rules drives message classification. NegativeSentinels are checked before
// DetectionMarkers and short-circuit them: a message that both denies and
// mentions a detection is not an incident.
type Rules struct {
	NegativeSentinels []string
	DetectionMarkers  []string
	SeverityTiers     []SeverityTier
	DefaultSeverity   models.IncidentSeverity
}

// DefaultRules returns the built-in rule set. The high-risk keyword list
// follows the threat vocabulary of the upstream detector.
func DefaultRules() Rules {
	return Rules{
		NegativeSentinels: []string{"no threat"},
		DetectionMarkers:  []string{"detected"},
		SeverityTiers: []SeverityTier{
			{
				Keywords: []string{
					"gun", "weapon", "violence", "knife",
					"handgun", "pistol", "rifle", "shotgun",
				},
				Severity: models.IncidentSeverityCritical,
			},
		},
		DefaultSeverity: models.IncidentSeverityHigh,
	}
}

// Classifier is the pure mapping from raw message text to zero-or-one
// incident draft.
type Classifier struct {
	rules Rules
}

func New(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify evaluates one raw feed message. The second return value is false
// when the message produces no incident: empty input, an explicit negative
// sentinel, or text matching no detection marker.
func (c *Classifier) Classify(message string) (models.IncidentDraft, bool) {
	if strings.TrimSpace(message) == "" {
		return models.IncidentDraft{}, false
	}

	lower := strings.ToLower(message)

	// Negative sentinel first. "No threat detected" must not alert even
	// though it contains a detection marker.
	for _, sentinel := range c.rules.NegativeSentinels {
		if strings.Contains(lower, sentinel) {
			return models.IncidentDraft{}, false
		}
	}

	marker := c.matchMarker(lower)
	if marker == "" {
		return models.IncidentDraft{}, false
	}

	return models.IncidentDraft{
		Type:       deriveType(message, marker),
		Severity:   c.severityFor(lower),
		RawMessage: message,
		DetectedAt: time.Now(),
	}, true
}

// matchMarker returns the first detection marker contained in the lowercased
// message, or "" when none matches.
func (c *Classifier) matchMarker(lower string) string {
	for _, marker := range c.rules.DetectionMarkers {
		if strings.Contains(lower, marker) {
			return marker
		}
	}
	return ""
}

// severityFor walks the tiers in priority order. The keyword check must
// precede the default tier; reordering changes results.
func (c *Classifier) severityFor(lower string) models.IncidentSeverity {
	for _, tier := range c.rules.SeverityTiers {
		for _, keyword := range tier.Keywords {
			if strings.Contains(lower, keyword) {
				return tier.Severity
			}
		}
	}
	return c.rules.DefaultSeverity
}

// deriveType turns "Cell phone detected!" into "cell_phone": the marker
// suffix is stripped and the remainder normalized into an identifier-safe
// lowercase token.
func deriveType(message, marker string) string {
	lower := strings.ToLower(message)
	if idx := strings.Index(lower, marker); idx >= 0 {
		lower = lower[:idx]
	}

	var b strings.Builder
	for _, field := range strings.Fields(lower) {
		field = strings.Map(keepTokenRune, field)
		if field == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(field)
	}

	if b.Len() == 0 {
		return "unspecified"
	}
	return b.String()
}

func keepTokenRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
		return r
	default:
		return -1
	}
}
