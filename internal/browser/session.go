package browser

import (
	"fmt"

	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/logging"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// LaunchArgs are the Chromium flags every session starts with
var LaunchArgs = []string{
	"--no-sandbox",
	"--disable-gpu",
	"--disable-dev-shm-usage",
	"--start-maximized",
}

// Install downloads the Chromium build the driver expects
func Install() error {
	return playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	})
}

// Session owns a Playwright driver and one Chromium process.
// Every page it hands out lives in its own browser context.
type Session struct {
	browser playwright.Browser
	// stop shuts the driver down
	stop    func() error
	cfg     *config.CloudShopConfig
	logger  *zap.Logger
}

// Launch starts Playwright and Chromium according to cfg
func Launch(cfg *config.CloudShopConfig, logger *zap.Logger) (*Session, error) {
	logger = logging.OrNop(logger).Named("browser")

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	options := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     LaunchArgs,
	}
	if cfg.SlowMo > 0 {
		options.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}

	browser, err := pw.Chromium.Launch(options)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	logger.Info("browser launched",
		zap.Bool("headless", cfg.Headless),
		zap.Duration("slow_mo", cfg.SlowMo),
		zap.String("version", browser.Version()))

	return &Session{browser: browser, stop: pw.Stop, cfg: cfg, logger: logger}, nil
}

// NewPage opens a fresh context and page sized to the window
func (s *Session) NewPage() (*PlaywrightPage, error) {
	context, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		NoViewport: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	context.SetDefaultTimeout(float64(s.cfg.ActionTimeout.Milliseconds()))

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return NewPlaywrightPage(page, context), nil
}

// Close shuts down the browser and then the driver, even when the browser fails to close.
// Both failures are reported.
func (s *Session) Close() error {
	var browserErr, stopErr error
	if err := s.browser.Close(); err != nil {
		browserErr = fmt.Errorf("failed to close browser: %w", err)
	}
	if err := s.stop(); err != nil {
		stopErr = fmt.Errorf("failed to stop playwright: %w", err)
	}
	s.logger.Info("browser closed")
	return multierr.Combine(browserErr, stopErr)
}
