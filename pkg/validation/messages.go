package validation

import (
	"fmt"
	"strings"
)

// Messages is the fixed table of user-facing strings the pipeline emits.
type Messages struct {
	Required        string `json:"required" yaml:"required" toml:"required"`
	Email           string `json:"email" yaml:"email" toml:"email"`
	PersonalName    string `json:"personalName" yaml:"personalName" toml:"personalName"`
	Phone           string `json:"phone" yaml:"phone" toml:"phone"`
	MessageTooShort string `json:"messageTooShort" yaml:"messageTooShort" toml:"messageTooShort"`
	MustAgree       string `json:"mustAgree" yaml:"mustAgree" toml:"mustAgree"`

	FormErrors      string `json:"formErrors" yaml:"formErrors" toml:"formErrors"`
	Sent            string `json:"sent" yaml:"sent" toml:"sent"`
	SendFailed      string `json:"sendFailed" yaml:"sendFailed" toml:"sendFailed"`
	ConnectionError string `json:"connectionError" yaml:"connectionError" toml:"connectionError"`
	Sending         string `json:"sending" yaml:"sending" toml:"sending"`
}

// DefaultMessages is the English table.
var DefaultMessages = Messages{
	Required:        "This field is required.",
	Email:           "Please enter a valid email address.",
	PersonalName:    "Name may only contain letters, spaces, hyphens and apostrophes.",
	Phone:           "Please enter a valid phone number.",
	MessageTooShort: "Message must be at least %d characters long.",
	MustAgree:       "You must agree to the terms.",
	FormErrors:      "Please correct the errors in the form.",
	Sent:            "Your message was sent successfully!",
	SendFailed:      "Something went wrong while sending. Please try again.",
	ConnectionError: "Connection error. Please try again later.",
	Sending:         "Sending...",
}

// SlovakMessages is the Slovak message table.
var SlovakMessages = Messages{
	Required:        "Toto pole je povinné.",
	Email:           "Zadajte platnú emailovú adresu.",
	PersonalName:    "Meno môže obsahovať len písmená, medzery, pomlčky a apostrofy.",
	Phone:           "Zadajte platné telefónne číslo.",
	MessageTooShort: "Správa musí obsahovať aspoň %d znakov.",
	MustAgree:       "Musíte súhlasiť s podmienkami.",
	FormErrors:      "Prosím, opravte chyby vo formulári.",
	Sent:            "Správa bola úspešne odoslaná!",
	SendFailed:      "Nastala chyba pri odosielaní. Skúste znova.",
	ConnectionError: "Chyba spojenia. Skúste to prosím neskôr.",
	Sending:         "Odosielanie...",
}

// MessagesFor returns the table registered for locale, falling back to
// DefaultMessages.
func MessagesFor(locale string) Messages {
	switch locale {
	case "sk", "sk-SK", "sk_SK":
		return SlovakMessages
	default:
		return DefaultMessages
	}
}

// Merge returns m with every empty entry filled from fallback.
func (m Messages) Merge(fallback Messages) Messages {
	pick := func(value, def string) string {
		if value != "" {
			return value
		}
		return def
	}
	return Messages{
		Required:        pick(m.Required, fallback.Required),
		Email:           pick(m.Email, fallback.Email),
		PersonalName:    pick(m.PersonalName, fallback.PersonalName),
		Phone:           pick(m.Phone, fallback.Phone),
		MessageTooShort: pick(m.MessageTooShort, fallback.MessageTooShort),
		MustAgree:       pick(m.MustAgree, fallback.MustAgree),
		FormErrors:      pick(m.FormErrors, fallback.FormErrors),
		Sent:            pick(m.Sent, fallback.Sent),
		SendFailed:      pick(m.SendFailed, fallback.SendFailed),
		ConnectionError: pick(m.ConnectionError, fallback.ConnectionError),
		Sending:         pick(m.Sending, fallback.Sending),
	}
}

func (m Messages) messageTooShort(min int) string {
	if !strings.Contains(m.MessageTooShort, "%d") {
		return m.MessageTooShort
	}
	return fmt.Sprintf(m.MessageTooShort, min)
}
