package importer

// validators.go provides the field validators shared by every entity
// ruleset. Messages are the Spanish strings shown in the import report;
// they name the problem, and where useful the accepted format, so a user
// can correct the source spreadsheet without guessing.

import (
	"regexp"
	"strings"
)

// MsgRequired is the message produced for empty required fields.
const MsgRequired = "Campo requerido"

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\d{9}$`)
)

// Required fails when the value is empty or missing.
func Required() Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return MsgRequired
		}
		return ""
	}
}

// Pattern fails with msg when a non-empty value does not match re.
// Empty values pass; combine with Required when the field is mandatory.
func Pattern(re *regexp.Regexp, msg string) Validator {
	return func(value string) string {
		if value == "" {
			return ""
		}
		if !re.MatchString(value) {
			return msg
		}
		return ""
	}
}

// OneOf fails with msg when a non-empty value is not in the allowed set.
// Comparison is case-insensitive.
func OneOf(msg string, allowed ...string) Validator {
	return func(value string) string {
		if value == "" {
			return ""
		}
		for _, a := range allowed {
			if strings.EqualFold(a, value) {
				return ""
			}
		}
		return msg
	}
}

// Email fails when a non-empty value is not a plausible email address.
func Email() Validator {
	return Pattern(emailRegex, "Email inválido")
}

// Phone fails when a non-empty value is not exactly nine digits.
func Phone() Validator {
	return Pattern(phoneRegex, "Teléfono inválido (9 dígitos)")
}
