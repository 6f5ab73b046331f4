package pages

import (
	"fmt"
	"strings"

	"github.com/cloudshop/uisuite/internal/browser"
	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/models"
	"go.uber.org/zap"
)

// Outcome of populating one field
type Outcome string

// Field outcomes
const (
	OutcomeFilled  Outcome = "filled"
	OutcomeSkipped Outcome = "skipped"
)

// Skip reasons
const (
	ReasonNotFound = "not found"
	ReasonHidden   = "hidden"
	ReasonDisabled = "disabled"
)

// FieldResult records what happened to one provided field
type FieldResult struct {
	Key     string
	Outcome Outcome
	Value   string
	Reason  string
}

// FillReport lists the provided fields in the order they were handled
type FillReport struct {
	Results []FieldResult
}

// Filled returns the keys of fields that were populated
func (r FillReport) Filled() []string {
	return r.keys(OutcomeFilled)
}

// Skipped returns the keys of fields that were provided but could not be populated
func (r FillReport) Skipped() []string {
	return r.keys(OutcomeSkipped)
}

// Outcome returns what happened to key; false means the field was not provided
func (r FillReport) Outcome(key string) (FieldResult, bool) {
	for _, res := range r.Results {
		if res.Key == key {
			return res, true
		}
	}
	return FieldResult{}, false
}

func (r FillReport) keys(outcome Outcome) []string {
	var keys []string
	for _, res := range r.Results {
		if res.Outcome == outcome {
			keys = append(keys, res.Key)
		}
	}
	return keys
}

var (
	saveButton   = browser.Query{Role: browser.RoleButton, Class: "green", Text: "Сохранить"}.In(modalQuery)
	searchInside = browser.Query{Role: browser.RoleInput, Class: "search"}
)

// ProductForm fills and submits the slide-in product form.
// Field population is best effort; only Submit fails hard.
type ProductForm struct {
	BasePage
	layout []Field
}

// NewProductForm returns a form driver using the standard layout
func NewProductForm(page browser.Page, cfg *config.CloudShopConfig, logger *zap.Logger) *ProductForm {
	return &ProductForm{
		BasePage: newBasePage(page, cfg, logger, "pages.form"),
		layout:   ProductLayout(),
	}
}

// Fill populates every provided field of p. Only a missing name is an error.
func (f *ProductForm) Fill(p models.Product) (FillReport, error) {
	if err := p.Validate(); err != nil {
		return FillReport{}, err
	}
	return f.populate(p, ""), nil
}

// Update populates the provided fields of changes on an already filled form.
// The card is scrolled to its bottom before the price, which sits below the fold in edit mode.
func (f *ProductForm) Update(changes models.Product) FillReport {
	return f.populate(changes, "price")
}

// populate fills every provided field in layout order, scrolling the form to its bottom
// before the field keyed scrollBefore
func (f *ProductForm) populate(p models.Product, scrollBefore string) FillReport {
	if modal, ok := f.usable(modalQuery); ok {
		if err := modal.ScrollIntoView(); err != nil {
			f.logger.Debug("could not focus form", zap.Error(err))
		}
	}

	var report FillReport
	for _, field := range f.layout {
		values := field.Values(p)
		if len(values) == 0 {
			continue
		}
		if field.Key == scrollBefore {
			f.scrollToBottom()
		}
		result := f.fillField(field, values)
		report.Results = append(report.Results, result)

		if result.Outcome == OutcomeFilled {
			f.logger.Info("field filled", zap.String("field", result.Key), zap.String("value", result.Value))
		} else {
			f.logger.Warn("field skipped", zap.String("field", result.Key), zap.String("reason", result.Reason))
		}
	}
	f.page.Wait(f.cfg.Timing.FillSettle)
	return report
}

func (f *ProductForm) fillField(field Field, values []string) FieldResult {
	result := FieldResult{Key: field.Key, Value: strings.Join(values, ", ")}

	control, reason := f.resolve(field.Targets)
	if control == nil {
		result.Outcome = OutcomeSkipped
		result.Reason = reason
		return result
	}

	var err error
	switch field.Kind {
	case DropdownField:
		err = f.choose(control, values[0])
	case MultiDropdownField:
		for _, v := range values {
			if err = f.choose(control, v); err != nil {
				break
			}
		}
		if pressErr := f.page.Press("Escape"); pressErr != nil && err == nil {
			err = pressErr
		}
	default:
		if scrollErr := control.ScrollIntoView(); scrollErr != nil {
			f.logger.Debug("scroll failed", zap.String("field", field.Key), zap.Error(scrollErr))
		}
		err = control.Fill(values[0])
	}

	if err != nil {
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		return result
	}
	result.Outcome = OutcomeFilled
	return result
}

// resolve tries each target in turn and returns the first visible, enabled control.
// Otherwise it returns the most specific reason seen.
func (f *ProductForm) resolve(targets []Target) (browser.Control, string) {
	reason := ReasonNotFound
	for _, t := range targets {
		controls, err := f.page.Query(t.Query)
		if err != nil {
			reason = err.Error()
			continue
		}
		if t.Query.Role == browser.RoleTextInput && t.Query.Generic() && len(controls) > 0 {
			// the first generic text input is the page search box
			controls = controls[1:]
		}
		if t.Nth >= len(controls) {
			continue
		}
		c := controls[t.Nth]
		if !c.Visible() {
			reason = ReasonHidden
			continue
		}
		if !c.Enabled() {
			reason = ReasonDisabled
			continue
		}
		return c, ""
	}
	return nil, reason
}

// choose opens a searchable dropdown, types value into its search box and commits the first match
func (f *ProductForm) choose(dropdown browser.Control, value string) error {
	if err := dropdown.ScrollIntoView(); err != nil {
		f.logger.Debug("scroll failed", zap.Error(err))
	}
	if err := dropdown.Click(); err != nil {
		return fmt.Errorf("open dropdown: %w", err)
	}

	var search browser.Control
	if controls, err := dropdown.Query(searchInside); err == nil {
		search, _ = browser.FirstUsable(controls)
	}
	if search != nil {
		if err := search.Fill(value); err != nil {
			return fmt.Errorf("type into dropdown search: %w", err)
		}
		f.page.Wait(f.cfg.Timing.Dropdown)
	}

	options, err := dropdown.Query(browser.Query{Role: browser.RoleOption, Text: value})
	if err == nil {
		if option, ok := browser.FirstVisible(options); ok {
			return option.Click()
		}
	}
	if search != nil {
		return search.Press("Enter")
	}
	return fmt.Errorf("no option matching %q", value)
}

// Submit clicks the green save button of the form.
// When the structured lookup fails it falls back to a text search script,
// and only then reports the visible buttons it could see.
func (f *ProductForm) Submit() error {
	f.scrollToBottom()

	if control, ok := f.usable(saveButton); ok {
		err := control.Click()
		if err == nil {
			f.logger.Info("form submitted")
			return nil
		}
		f.logger.Warn("save button click failed", zap.Error(err))
	}

	result, err := f.page.Evaluate(browser.ClickButtonByText, browser.QueryArgs(saveButton))
	if err == nil {
		if clicked, _ := browser.EvalBool(result); clicked {
			f.logger.Info("form submitted by script")
			return nil
		}
	} else {
		f.logger.Warn("save script failed", zap.Error(err))
	}

	return &ActionError{Action: "submit product form", Target: "Сохранить", Candidates: f.candidates(anyButton)}
}

func (f *ProductForm) scrollToBottom() {
	if _, err := f.page.Evaluate(browser.ScrollContainerBottom, browser.QueryArgs(modalQuery)); err != nil {
		f.logger.Debug("could not scroll form", zap.Error(err))
	}
}
