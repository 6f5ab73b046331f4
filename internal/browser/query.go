package browser

import (
	"strings"
)

// Role is the kind of control a query looks for
type Role string

// Control roles understood by CloudShop screens
const (
	RoleAny           Role = ""
	RoleInput         Role = "input"
	RoleTextInput     Role = "text-input"
	RoleNumberInput   Role = "number-input"
	RoleSearchInput   Role = "search-input"
	RoleEmailInput    Role = "email-input"
	RolePasswordInput Role = "password-input"
	RoleTextArea      Role = "textarea"
	RoleCheckbox      Role = "checkbox"
	RoleButton        Role = "button"
	RoleLink          Role = "link"
	RoleDropdown      Role = "dropdown"
	RoleOption        Role = "option"
	RoleRow           Role = "row"
	RoleModal         Role = "modal"
	RoleDialog        Role = "dialog"
)

var roleSelectors = map[Role]string{
	RoleAny:           "*",
	RoleInput:         "input",
	RoleTextInput:     `input[type="text"]`,
	RoleNumberInput:   `input[type="number"]`,
	RoleSearchInput:   `input[type="search"]`,
	RoleEmailInput:    `input[type="email"]`,
	RolePasswordInput: `input[type="password"]`,
	RoleTextArea:      "textarea",
	RoleCheckbox:      `input[type="checkbox"]`,
	RoleButton:        `:is(button, a.button, input[type="submit"])`,
	RoleLink:          "a",
	RoleDropdown:      ".ui.dropdown",
	RoleOption:        ".menu .item",
	RoleRow:           ":is(table tbody tr, .product-row)",
	RoleModal:         `:is(.cs.sidebar, [ui-view="modal"])`,
	RoleDialog:        `:is(.ui.modal, [role="dialog"])`,
}

// IsInput reports whether the role is some kind of <input>
func (r Role) IsInput() bool {
	switch r {
	case RoleInput, RoleTextInput, RoleNumberInput, RoleSearchInput, RoleEmailInput, RolePasswordInput, RoleCheckbox:
		return true
	}
	return false
}

// Query is a structured locator. Set fields narrow the match; zero fields are ignored.
type Query struct {
	// Within restricts matches to descendants of the controls it matches
	Within *Query
	Role   Role
	// Label matches the text of the enclosing .field row
	Label       string
	Placeholder string
	Name        string
	// Binding matches the ng-model attribute
	Binding   string
	Class     string
	Text      string
	ExactText bool
	// Cell matches controls holding a table cell whose whole text is Cell
	Cell string
}

// In returns a copy of q scoped to within
func (q Query) In(within Query) Query {
	q.Within = &within
	return q
}

// Generic reports whether q identifies controls only by role and scope.
// Generic text-input queries match the page search box first.
func (q Query) Generic() bool {
	return q.Label == "" && q.Placeholder == "" && q.Name == "" && q.Binding == "" && q.Class == "" && q.Text == "" && q.Cell == ""
}

// Selector renders q as a Playwright selector
func (q Query) Selector() string {
	var b strings.Builder
	if q.Within != nil {
		b.WriteString(q.Within.Selector())
		b.WriteByte(' ')
	}
	if q.Label != "" {
		b.WriteString(".field:has-text(" + quote(q.Label) + ") ")
	}
	q.writeCSS(&b)
	if q.Text != "" {
		if q.ExactText {
			b.WriteString(":text-is(" + quote(q.Text) + ")")
		} else {
			b.WriteString(":has-text(" + quote(q.Text) + ")")
		}
	}
	if q.Cell != "" {
		b.WriteString(":has(td:text-is(" + quote(q.Cell) + "))")
	}
	return b.String()
}

// CSS renders the part of q a plain document.querySelectorAll understands.
// Label, Text, Cell and Within are dropped.
func (q Query) CSS() string {
	var b strings.Builder
	q.writeCSS(&b)
	return b.String()
}

func (q Query) writeCSS(b *strings.Builder) {
	base, ok := roleSelectors[q.Role]
	if !ok {
		base = string(q.Role)
	}
	b.WriteString(base)
	for _, class := range strings.Fields(q.Class) {
		b.WriteString("." + class)
	}
	if q.Placeholder != "" {
		b.WriteString("[placeholder*=" + quote(q.Placeholder) + "]")
	}
	if q.Name != "" {
		b.WriteString("[name*=" + quote(q.Name) + "]")
	}
	if q.Binding != "" {
		b.WriteString("[ng-model*=" + quote(q.Binding) + "]")
	}
}

// String is the selector, for log fields
func (q Query) String() string {
	return q.Selector()
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
