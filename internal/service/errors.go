package service

import (
	"fmt"
	"strings"

	"eshop-storefront/internal/model"
)

// LoginRequiredError is the short-circuit for mutations attempted without a
// session. No network call has been made when it is returned.
type LoginRequiredError struct {
	Action string
}

func (e *LoginRequiredError) Error() string {
	return "Please login to " + e.Action
}

func loginRequired(action string) error {
	return &LoginRequiredError{Action: action}
}

// ValidationError is a pre-flight input failure. It is returned to the
// caller directly and never written to the shared error slot.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validatePayment(p *model.Payment) error {
	if p.Method == "" {
		p.Method = "card"
	}
	if len(p.CardLastFour) != 4 || strings.IndexFunc(p.CardLastFour, notDigit) >= 0 {
		return &ValidationError{
			Field:   "card_last_four",
			Message: fmt.Sprintf("card_last_four must be exactly 4 digits, got %q", p.CardLastFour),
		}
	}
	return nil
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
