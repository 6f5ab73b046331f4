// Package browsertest provides an in-memory document that implements
// browser.Page, so page objects can be tested without a browser.
//
// The document understands the same Query fields the Playwright adapter
// renders into selectors, plus the behaviour of Semantic UI searchable
// dropdowns: clicking opens the menu, typing into the inner search input
// filters options, Enter picks the first visible option and Escape closes.
package browsertest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudshop/uisuite/internal/browser"
)

// Element is one node of the fake document
type Element struct {
	Role        browser.Role
	Label       string
	Placeholder string
	Name        string
	Binding     string
	Class       string
	Text        string
	Value       string
	Hidden      bool
	Disabled    bool
	Checked     bool
	// Multiple marks a dropdown that keeps its menu open and accumulates selections
	Multiple bool
	OnClick  func(dom *DOM)
	OnPress  func(dom *DOM, key string)
	Children []*Element

	parent   *Element
	open     bool
	filter   string
	selected []string
}

// Selected returns the options picked in a dropdown
func (e *Element) Selected() []string {
	return append([]string(nil), e.selected...)
}

// IsOpen reports whether a dropdown menu is expanded
func (e *Element) IsOpen() bool {
	return e.open
}

func (e *Element) String() string {
	parts := []string{string(e.Role)}
	if e.Role == browser.RoleAny {
		parts[0] = "element"
	}
	if e.Label != "" {
		parts = append(parts, "label="+e.Label)
	}
	if e.Placeholder != "" {
		parts = append(parts, "placeholder="+e.Placeholder)
	}
	if e.Binding != "" {
		parts = append(parts, "ng-model="+e.Binding)
	}
	if e.Text != "" {
		parts = append(parts, "text="+e.Text)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ActionKind names a recorded interaction
type ActionKind string

// Recorded interactions
const (
	ActionGoto   ActionKind = "goto"
	ActionClick  ActionKind = "click"
	ActionFill   ActionKind = "fill"
	ActionPress  ActionKind = "press"
	ActionScroll ActionKind = "scroll"
	ActionWait   ActionKind = "wait"
	ActionScript ActionKind = "script"
)

// Action is one entry of the interaction journal. Target is nil for page-level actions.
type Action struct {
	Kind   ActionKind
	Target *Element
	Value  string
}

// ScriptFunc stands in for a registered browser script
type ScriptFunc func(dom *DOM, arg any) (any, error)

// ErrClosed is returned by every operation after Close
var ErrClosed = errors.New("page is closed")

// DOM is a fake page. It is not safe for concurrent use.
type DOM struct {
	// Scripts overrides the built-in script behaviour by script name
	Scripts map[string]ScriptFunc

	url         string
	body        []*Element
	routes      map[string]func(*DOM)
	actions     []Action
	screenshots []string
	closed      bool
}

// New returns a document at url containing body
func New(url string, body ...*Element) *DOM {
	d := &DOM{
		Scripts: map[string]ScriptFunc{},
		routes:  map[string]func(*DOM){},
		url:     url,
	}
	d.SetBody(body...)
	return d
}

// SetBody replaces the document content
func (d *DOM) SetBody(body ...*Element) {
	d.body = body
	for _, e := range body {
		link(e, nil)
	}
}

func link(e *Element, parent *Element) {
	e.parent = parent
	for _, c := range e.Children {
		link(c, e)
	}
}

// Route registers how the document looks after navigating to url
func (d *DOM) Route(url string, build func(*DOM)) {
	d.routes[url] = build
}

// Navigate changes the address the way the application would, without journaling
func (d *DOM) Navigate(url string) {
	d.url = url
	if build, ok := d.routes[url]; ok {
		build(d)
	}
}

// Actions returns the interaction journal
func (d *DOM) Actions() []Action {
	return append([]Action(nil), d.actions...)
}

// ActionsOf returns journal entries of one kind
func (d *DOM) ActionsOf(kind ActionKind) []Action {
	var out []Action
	for _, a := range d.actions {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// Touched reports whether e or anything inside it was interacted with
func (d *DOM) Touched(e *Element) bool {
	for _, a := range d.actions {
		for n := a.Target; n != nil; n = n.parent {
			if n == e {
				return true
			}
		}
	}
	return false
}

// Screenshots lists the paths passed to Screenshot
func (d *DOM) Screenshots() []string {
	return append([]string(nil), d.screenshots...)
}

// Closed reports whether Close was called
func (d *DOM) Closed() bool {
	return d.closed
}

func (d *DOM) record(kind ActionKind, target *Element, value string) {
	d.actions = append(d.actions, Action{Kind: kind, Target: target, Value: value})
}

func (d *DOM) walk(fn func(e *Element)) {
	var visit func(e *Element)
	visit = func(e *Element) {
		fn(e)
		for _, c := range e.Children {
			visit(c)
		}
	}
	for _, e := range d.body {
		visit(e)
	}
}

// Goto implements browser.Page
func (d *DOM) Goto(url string) error {
	if d.closed {
		return ErrClosed
	}
	d.record(ActionGoto, nil, url)
	d.Navigate(url)
	return nil
}

// URL implements browser.Page
func (d *DOM) URL() string {
	return d.url
}

// Query implements browser.Page
func (d *DOM) Query(q browser.Query) ([]browser.Control, error) {
	if d.closed {
		return nil, ErrClosed
	}
	var out []browser.Control
	d.walk(func(e *Element) {
		if matches(e, q) {
			out = append(out, &control{dom: d, el: e})
		}
	})
	return out, nil
}

// Evaluate implements browser.Page
func (d *DOM) Evaluate(script browser.Script, arg any) (any, error) {
	if d.closed {
		return nil, ErrClosed
	}
	d.record(ActionScript, nil, script.Name)
	if fn, ok := d.Scripts[script.Name]; ok {
		return fn(d, arg)
	}
	if fn, ok := builtinScripts[script.Name]; ok {
		return fn(d, arg)
	}
	return nil, fmt.Errorf("no fake for script %s", script.Name)
}

// Press implements browser.Page
func (d *DOM) Press(key string) error {
	if d.closed {
		return ErrClosed
	}
	d.record(ActionPress, nil, key)
	if key == "Escape" {
		d.closeDropdowns(nil)
	}
	return nil
}

// Wait implements browser.Page; it only records the pause
func (d *DOM) Wait(dur time.Duration) {
	d.record(ActionWait, nil, dur.String())
}

// Screenshot implements browser.Page
func (d *DOM) Screenshot(path string) error {
	if d.closed {
		return ErrClosed
	}
	d.screenshots = append(d.screenshots, path)
	return nil
}

// Close implements browser.Page
func (d *DOM) Close() error {
	d.closed = true
	return nil
}

func (d *DOM) closeDropdowns(except *Element) {
	d.walk(func(e *Element) {
		if e.Role == browser.RoleDropdown && e != except {
			e.open = false
		}
	})
}

func (d *DOM) click(e *Element) error {
	if err := d.interactable(e); err != nil {
		return err
	}
	d.record(ActionClick, e, "")

	switch e.Role {
	case browser.RoleDropdown:
		d.closeDropdowns(e)
		e.open = true
	case browser.RoleOption:
		if dd := dropdownOf(e); dd != nil {
			selectOption(dd, e)
		}
	case browser.RoleCheckbox:
		e.Checked = !e.Checked
	}

	if e.OnClick != nil {
		e.OnClick(d)
	}
	return nil
}

func (d *DOM) interactable(e *Element) error {
	if d.closed {
		return ErrClosed
	}
	if !visible(e) {
		return fmt.Errorf("element %s is not visible", e)
	}
	if !enabled(e) {
		return fmt.Errorf("element %s is disabled", e)
	}
	return nil
}

func selectOption(dd *Element, option *Element) {
	text := strings.TrimSpace(textContent(option))
	if dd.Multiple {
		dd.selected = append(dd.selected, text)
	} else {
		dd.selected = []string{text}
		dd.open = false
	}
	dd.filter = ""
	dd.Value = strings.Join(dd.selected, ", ")
}

func dropdownOf(e *Element) *Element {
	for n := e.parent; n != nil; n = n.parent {
		if n.Role == browser.RoleDropdown {
			return n
		}
	}
	return nil
}

func firstVisibleOption(dd *Element) *Element {
	var visit func(e *Element) *Element
	visit = func(e *Element) *Element {
		for _, child := range e.Children {
			if child.Role == browser.RoleOption && visible(child) {
				return child
			}
			if found := visit(child); found != nil {
				return found
			}
		}
		return nil
	}
	return visit(dd)
}

func visible(e *Element) bool {
	for n := e; n != nil; n = n.parent {
		if n.Hidden {
			return false
		}
	}
	if e.Role == browser.RoleOption {
		if dd := dropdownOf(e); dd != nil {
			if !dd.open {
				return false
			}
			if dd.filter != "" && !containsFold(textContent(e), dd.filter) {
				return false
			}
		}
	}
	return true
}

func enabled(e *Element) bool {
	for n := e; n != nil; n = n.parent {
		if n.Disabled {
			return false
		}
	}
	return true
}

func textContent(e *Element) string {
	parts := make([]string, 0, len(e.Children)+1)
	if e.Text != "" {
		parts = append(parts, e.Text)
	}
	for _, c := range e.Children {
		if t := textContent(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(strings.Join(strings.Fields(s), " ")), strings.ToLower(strings.TrimSpace(substr)))
}

func roleMatches(have, want browser.Role) bool {
	switch want {
	case browser.RoleAny:
		return true
	case browser.RoleInput:
		return have.IsInput()
	default:
		return have == want
	}
}

func matches(e *Element, q browser.Query) bool {
	if !roleMatches(e.Role, q.Role) {
		return false
	}
	if q.Label != "" && !labelled(e, q.Label) {
		return false
	}
	if q.Placeholder != "" && !strings.Contains(e.Placeholder, q.Placeholder) {
		return false
	}
	if q.Name != "" && !strings.Contains(e.Name, q.Name) {
		return false
	}
	if q.Binding != "" && !strings.Contains(e.Binding, q.Binding) {
		return false
	}
	if q.Class != "" {
		have := strings.Fields(e.Class)
		for _, want := range strings.Fields(q.Class) {
			if !contains(have, want) {
				return false
			}
		}
	}
	if q.Text != "" {
		if q.ExactText {
			if strings.TrimSpace(textContent(e)) != q.Text {
				return false
			}
		} else if !containsFold(textContent(e), q.Text) {
			return false
		}
	}
	if q.Cell != "" && !hasCell(e, q.Cell) {
		return false
	}
	if q.Within != nil {
		found := false
		for n := e.parent; n != nil; n = n.parent {
			if matches(n, *q.Within) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasCell reports whether a descendant of e has exactly the text cell, whitespace collapsed
func hasCell(e *Element, cell string) bool {
	for _, c := range e.Children {
		if strings.Join(strings.Fields(textContent(c)), " ") == cell || hasCell(c, cell) {
			return true
		}
	}
	return false
}

func labelled(e *Element, label string) bool {
	for n := e; n != nil; n = n.parent {
		if n.Label != "" && containsFold(n.Label, label) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type control struct {
	dom *DOM
	el  *Element
}

// ElementOf returns the node behind a control produced by this package
func ElementOf(c browser.Control) *Element {
	if ctl, ok := c.(*control); ok {
		return ctl.el
	}
	return nil
}

func (c *control) Click() error {
	return c.dom.click(c.el)
}

func (c *control) Fill(value string) error {
	if err := c.dom.interactable(c.el); err != nil {
		return err
	}
	if !c.el.Role.IsInput() && c.el.Role != browser.RoleTextArea {
		return fmt.Errorf("element %s is not an input", c.el)
	}
	c.dom.record(ActionFill, c.el, value)
	c.el.Value = value
	if dd := dropdownOf(c.el); dd != nil {
		dd.filter = value
	}
	return nil
}

func (c *control) Press(key string) error {
	if c.dom.closed {
		return ErrClosed
	}
	c.dom.record(ActionPress, c.el, key)
	switch key {
	case "Enter":
		if dd := dropdownOf(c.el); dd != nil && dd.open {
			if option := firstVisibleOption(dd); option != nil {
				selectOption(dd, option)
			}
		}
	case "Escape":
		c.dom.closeDropdowns(nil)
	}
	if c.el.OnPress != nil {
		c.el.OnPress(c.dom, key)
	}
	return nil
}

func (c *control) Visible() bool {
	return !c.dom.closed && visible(c.el)
}

func (c *control) Enabled() bool {
	return enabled(c.el)
}

func (c *control) Text() (string, error) {
	if c.dom.closed {
		return "", ErrClosed
	}
	return textContent(c.el), nil
}

func (c *control) ScrollIntoView() error {
	if c.dom.closed {
		return ErrClosed
	}
	c.dom.record(ActionScroll, c.el, "")
	return nil
}

func (c *control) Query(q browser.Query) ([]browser.Control, error) {
	if c.dom.closed {
		return nil, ErrClosed
	}
	var out []browser.Control
	var visit func(e *Element)
	visit = func(e *Element) {
		for _, child := range e.Children {
			if matches(child, q) {
				out = append(out, &control{dom: c.dom, el: child})
			}
			visit(child)
		}
	}
	visit(c.el)
	return out, nil
}
