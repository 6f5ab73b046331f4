package browser

import (
	"fmt"
	"time"
)

// Page is one browser tab.
// Query is the structured locator path; Evaluate is the escape hatch and only runs registered scripts.
type Page interface {
	Goto(url string) error
	URL() string
	Query(q Query) ([]Control, error)
	Evaluate(script Script, arg any) (any, error)
	Press(key string) error
	Wait(d time.Duration)
	Screenshot(path string) error
	Close() error
}

// Control is one element matched by a Query
type Control interface {
	Click() error
	Fill(value string) error
	Press(key string) error
	Visible() bool
	Enabled() bool
	Text() (string, error)
	ScrollIntoView() error
	Query(q Query) ([]Control, error)
}

// Candidate describes a visible element considered while looking for a target
type Candidate struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("<%s> %q", c.Tag, c.Text)
}

// FirstUsable returns the first control that is both visible and enabled
func FirstUsable(controls []Control) (Control, bool) {
	for _, c := range controls {
		if c.Visible() && c.Enabled() {
			return c, true
		}
	}
	return nil, false
}

// FirstVisible returns the first visible control
func FirstVisible(controls []Control) (Control, bool) {
	for _, c := range controls {
		if c.Visible() {
			return c, true
		}
	}
	return nil, false
}
