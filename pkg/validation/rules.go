package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/goliatone/go-formpipe/pkg/model"
)

// MessageMinLength is the minimum number of characters a free-text message
// must carry.
const MessageMinLength = 10

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	personalNamePattern = regexp.MustCompile(`^[\p{L}\s'-]{2,50}$`)
	phonePattern        = regexp.MustCompile(`^[\d\s+\-()]{10,20}$`)
)

// Rule is a shape check applied to a non-empty, trimmed value.
type Rule struct {
	// Match reports whether the trimmed value satisfies the rule.
	Match func(value string) bool
	// Message builds the failure message from the active table.
	Message func(m Messages) string
}

// RuleSet maps each role to its rule. Roles without an entry accept any
// non-empty value.
type RuleSet map[model.Role]Rule

// DefaultRules returns the built-in rule table.
func DefaultRules() RuleSet {
	return RuleSet{
		model.RoleEmail: {
			Match:   emailPattern.MatchString,
			Message: func(m Messages) string { return m.Email },
		},
		model.RolePersonalName: {
			Match:   personalNamePattern.MatchString,
			Message: func(m Messages) string { return m.PersonalName },
		},
		model.RolePhone: {
			Match:   phonePattern.MatchString,
			Message: func(m Messages) string { return m.Phone },
		},
		model.RoleMessage: {
			Match: func(value string) bool {
				return utf8.RuneCountInString(value) >= MessageMinLength
			},
			Message: func(m Messages) string { return m.messageTooShort(MessageMinLength) },
		},
	}
}

// Clone returns a copy that can be modified without touching rs.
func (rs RuleSet) Clone() RuleSet {
	out := make(RuleSet, len(rs))
	for role, rule := range rs {
		out[role] = rule
	}
	return out
}
