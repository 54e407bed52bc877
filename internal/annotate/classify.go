package annotate

import (
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// ClassifierRule maps a case-insensitive substring of the action text onto
// an activity category.
type ClassifierRule struct {
	Pattern  string
	Category domain.ActivityCategory
}

// Classifier assigns activity categories using an ordered rule list.
// The first matching rule wins.
type Classifier struct {
	rules []ClassifierRule
}

// DefaultClassifierRules returns the built-in rules. Each pattern names a
// distinct verb phrase so overlaps do not occur in practice.
func DefaultClassifierRules() []ClassifierRule {
	return []ClassifierRule{
		{Pattern: "lashed fiber", Category: domain.ActivityLashedFiber},
		{Pattern: "pulled fiber", Category: domain.ActivityPulledFiber},
		{Pattern: "strand", Category: domain.ActivityStrand},
		{Pattern: "drive off", Category: domain.ActivityDriveOff},
	}
}

// NewClassifier builds a Classifier. Rules with a blank pattern are ignored.
func NewClassifier(rules ...ClassifierRule) *Classifier {
	c := &Classifier{rules: make([]ClassifierRule, 0, len(rules))}
	for _, r := range rules {
		p := strings.ToLower(strings.TrimSpace(r.Pattern))
		if p == "" {
			continue
		}
		c.rules = append(c.rules, ClassifierRule{Pattern: p, Category: r.Category})
	}
	return c
}

// DefaultClassifier returns a Classifier over DefaultClassifierRules.
func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultClassifierRules()...)
}

// Classify returns the category of the first rule whose pattern occurs in
// text. Blank text and text matching nothing are Unclassified.
func (c *Classifier) Classify(text string) domain.ActivityCategory {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return domain.ActivityUnclassified
	}
	for _, r := range c.rules {
		if strings.Contains(lower, r.Pattern) {
			return r.Category
		}
	}
	return domain.ActivityUnclassified
}

// Rules returns a copy of the normalized rule list.
func (c *Classifier) Rules() []ClassifierRule {
	out := make([]ClassifierRule, len(c.rules))
	copy(out, c.rules)
	return out
}
