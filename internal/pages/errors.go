package pages

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudshop/uisuite/internal/browser"
)

// Page errors
var (
	ErrControlNotFound = errors.New("control not found")
	ErrLoginRejected   = errors.New("login rejected: still on the login page")
	ErrNotDeleted      = errors.New("product is still present after deletion")
)

// ActionError is a structural failure: a step could not find what it had to click or fill.
// Candidates lists the visible elements that were on the page instead.
type ActionError struct {
	Action     string
	Target     string
	Candidates []browser.Candidate
}

func (e *ActionError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%s: %q not found, no visible candidates on the page", e.Action, e.Target)
	}
	listed := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		listed[i] = c.String()
	}
	return fmt.Sprintf("%s: %q not found; visible candidates: %s", e.Action, e.Target, strings.Join(listed, ", "))
}

func (e *ActionError) Unwrap() error {
	return ErrControlNotFound
}
