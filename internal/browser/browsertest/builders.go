package browsertest

import "github.com/cloudshop/uisuite/internal/browser"

// Modal is the slide-in panel create and edit forms render into
func Modal(children ...*Element) *Element {
	return &Element{Role: browser.RoleModal, Class: "cs sidebar", Children: children}
}

// Field is a labelled form row around one control
func Field(label string, control *Element) *Element {
	return &Element{Class: "field", Label: label, Children: []*Element{{Text: label}, control}}
}

// Dropdown is a searchable single-choice dropdown
func Dropdown(options ...string) *Element {
	return dropdown(false, options)
}

// MultiDropdown is a searchable dropdown that accumulates choices
func MultiDropdown(options ...string) *Element {
	return dropdown(true, options)
}

func dropdown(multiple bool, options []string) *Element {
	items := make([]*Element, len(options))
	for i, o := range options {
		items[i] = &Element{Role: browser.RoleOption, Class: "item", Text: o}
	}
	return &Element{
		Role:     browser.RoleDropdown,
		Class:    "ui dropdown",
		Multiple: multiple,
		Children: []*Element{
			{Role: browser.RoleInput, Class: "search"},
			{Class: "menu", Children: items},
		},
	}
}

// Button is a clickable button with a caption
func Button(text string) *Element {
	return &Element{Role: browser.RoleButton, Text: text}
}

// Link is an anchor with a caption
func Link(text string) *Element {
	return &Element{Role: browser.RoleLink, Text: text}
}

// Row is a catalog table row whose cells hold texts, with a selection checkbox first
func Row(cells ...string) *Element {
	children := []*Element{{Role: browser.RoleCheckbox}}
	for _, c := range cells {
		children = append(children, &Element{Text: c})
	}
	return &Element{Role: browser.RoleRow, Children: children}
}
