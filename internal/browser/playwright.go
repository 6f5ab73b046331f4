package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightPage adapts a playwright page to Page
type PlaywrightPage struct {
	page    playwright.Page
	context playwright.BrowserContext
}

// NewPlaywrightPage wraps page. The context, when not nil, is closed together with the page.
func NewPlaywrightPage(page playwright.Page, context playwright.BrowserContext) *PlaywrightPage {
	return &PlaywrightPage{page: page, context: context}
}

func (p *PlaywrightPage) Goto(url string) error {
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *PlaywrightPage) URL() string {
	return p.page.URL()
}

func (p *PlaywrightPage) Query(q Query) ([]Control, error) {
	return wrapLocators(p.page.Locator(q.Selector()).All())
}

func (p *PlaywrightPage) Evaluate(script Script, arg any) (any, error) {
	result, err := p.page.Evaluate(script.Source, arg)
	if err != nil {
		return nil, fmt.Errorf("script %s failed: %w", script.Name, err)
	}
	return result, nil
}

func (p *PlaywrightPage) Press(key string) error {
	return p.page.Keyboard().Press(key)
}

func (p *PlaywrightPage) Wait(d time.Duration) {
	if d <= 0 {
		return
	}
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *PlaywrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *PlaywrightPage) Close() error {
	if p.context != nil {
		return p.context.Close()
	}
	return p.page.Close()
}

type locatorControl struct {
	locator playwright.Locator
}

func wrapLocators(locators []playwright.Locator, err error) ([]Control, error) {
	if err != nil {
		return nil, err
	}
	controls := make([]Control, len(locators))
	for i, l := range locators {
		controls[i] = &locatorControl{locator: l}
	}
	return controls, nil
}

func (c *locatorControl) Click() error {
	return c.locator.Click()
}

func (c *locatorControl) Fill(value string) error {
	return c.locator.Fill(value)
}

func (c *locatorControl) Press(key string) error {
	return c.locator.Press(key)
}

func (c *locatorControl) Visible() bool {
	visible, err := c.locator.IsVisible()
	return err == nil && visible
}

func (c *locatorControl) Enabled() bool {
	enabled, err := c.locator.IsEnabled()
	return err == nil && enabled
}

func (c *locatorControl) Text() (string, error) {
	return c.locator.InnerText()
}

func (c *locatorControl) ScrollIntoView() error {
	return c.locator.ScrollIntoViewIfNeeded()
}

func (c *locatorControl) Query(q Query) ([]Control, error) {
	return wrapLocators(c.locator.Locator(q.Selector()).All())
}
