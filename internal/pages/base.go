// Package pages holds the page objects for the CloudShop screens the suite drives.
package pages

import (
	"github.com/cloudshop/uisuite/internal/browser"
	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/logging"
	"go.uber.org/zap"
)

var (
	modalQuery  = browser.Query{Role: browser.RoleModal}
	dialogQuery = browser.Query{Role: browser.RoleDialog}
	anyButton   = browser.Query{Role: browser.RoleButton}
)

// BasePage carries what every page object needs
type BasePage struct {
	page   browser.Page
	cfg    *config.CloudShopConfig
	logger *zap.Logger
}

func newBasePage(page browser.Page, cfg *config.CloudShopConfig, logger *zap.Logger, name string) BasePage {
	return BasePage{
		page:   page,
		cfg:    cfg,
		logger: logging.OrNop(logger).Named(name),
	}
}

// Page returns the browser tab the page object drives
func (b *BasePage) Page() browser.Page {
	return b.page
}

// URL returns the current address
func (b *BasePage) URL() string {
	return b.page.URL()
}

func (b *BasePage) open(url string, settle bool) error {
	if err := b.page.Goto(url); err != nil {
		return err
	}
	if settle {
		b.page.Wait(b.cfg.Timing.Open)
	}
	return nil
}

// usable returns the first visible and enabled control matched by any of the queries, in query order
func (b *BasePage) usable(queries ...browser.Query) (browser.Control, bool) {
	for _, q := range queries {
		controls, err := b.page.Query(q)
		if err != nil {
			b.logger.Debug("query failed", zap.Stringer("query", q), zap.Error(err))
			continue
		}
		if c, ok := browser.FirstUsable(controls); ok {
			return c, true
		}
	}
	return nil, false
}

// isVisible reports whether anything matched by q is visible
func (b *BasePage) isVisible(q browser.Query) bool {
	controls, err := b.page.Query(q)
	if err != nil {
		return false
	}
	_, ok := browser.FirstVisible(controls)
	return ok
}

// candidates lists visible elements like q for an ActionError
func (b *BasePage) candidates(q browser.Query) []browser.Candidate {
	result, err := b.page.Evaluate(browser.VisibleCandidates, browser.QueryArgs(q))
	if err != nil {
		b.logger.Warn("could not collect candidates", zap.Error(err))
		return nil
	}
	candidates, err := browser.EvalCandidates(result)
	if err != nil {
		b.logger.Warn("could not decode candidates", zap.Error(err))
		return nil
	}
	return candidates
}

// clickFirst clicks the first usable control among targets or returns an ActionError
// listing visible elements matched by around
func (b *BasePage) clickFirst(action, target string, around browser.Query, targets ...browser.Query) error {
	control, ok := b.usable(targets...)
	if !ok {
		return &ActionError{Action: action, Target: target, Candidates: b.candidates(around)}
	}
	if err := control.Click(); err != nil {
		b.logger.Warn("click failed", zap.String("action", action), zap.Error(err))
		return &ActionError{Action: action, Target: target, Candidates: b.candidates(around)}
	}
	b.logger.Debug("clicked", zap.String("action", action), zap.String("target", target))
	return nil
}

// containsText runs the page text lookup script
func (b *BasePage) containsText(text string) (bool, error) {
	result, err := b.page.Evaluate(browser.PageContainsText, browser.TextArgs(text))
	if err != nil {
		return false, err
	}
	return browser.EvalBool(result)
}
