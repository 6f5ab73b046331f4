package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Paths of the CloudShop screens the suite drives
const (
	LoginPath   = "/anonymous/login/"
	CatalogPath = "/card/catalog/list"
	CreatePath  = "/card/catalog/create/"
	TrashPath   = "/card/trash/"
)

// DefaultEndpoint is the public CloudShop web application
const DefaultEndpoint = "https://web.cloudshop.ru"

// ErrMissingCredentials is returned when the account identifier or secret is not set
var ErrMissingCredentials = errors.New("CLOUDSHOP_EMAIL and CLOUDSHOP_PASSWORD are required")

// DeleteCheck selects how a deletion is confirmed after the dialog closes
type DeleteCheck string

// Post-delete verification modes
const (
	DeleteCheckTrash  DeleteCheck = "trash"
	DeleteCheckAbsent DeleteCheck = "absent"
	DeleteCheckEither DeleteCheck = "either"
)

// Timing holds the fixed pauses between UI actions
type Timing struct {
	Open        time.Duration
	CreateClick time.Duration
	Banner      time.Duration
	Dropdown    time.Duration
	FillSettle  time.Duration
	Save        time.Duration
	Login       time.Duration
}

// DefaultTiming returns the pauses the CloudShop front end needs to settle
func DefaultTiming() Timing {
	return Timing{
		Open:        3 * time.Second,
		CreateClick: 2 * time.Second,
		Banner:      1 * time.Second,
		Dropdown:    500 * time.Millisecond,
		FillSettle:  1 * time.Second,
		Save:        5 * time.Second,
		Login:       3 * time.Second,
	}
}

// Scale multiplies every pause by factor
func (t Timing) Scale(factor float64) Timing {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * factor)
	}
	return Timing{
		Open:        scale(t.Open),
		CreateClick: scale(t.CreateClick),
		Banner:      scale(t.Banner),
		Dropdown:    scale(t.Dropdown),
		FillSettle:  scale(t.FillSettle),
		Save:        scale(t.Save),
		Login:       scale(t.Login),
	}
}

// CloudShopConfig holds everything needed to drive a CloudShop account through a browser
type CloudShopConfig struct {
	Endpoint      string
	Identifier    string
	Secret        string
	Headless      bool
	SlowMo        time.Duration
	ActionTimeout time.Duration
	ScreenshotDir string
	DeleteCheck   DeleteCheck
	Timing        Timing
}

// LoadCloudShopConfig loads CloudShop configuration from environment variables.
// Missing credentials are not an error here; callers decide whether to skip.
func LoadCloudShopConfig(getenv func(string) string) (*CloudShopConfig, error) {
	config := &CloudShopConfig{
		Endpoint:      strings.TrimRight(getenv("CLOUDSHOP_URL"), "/"),
		Identifier:    getenv("CLOUDSHOP_EMAIL"),
		Secret:        getenv("CLOUDSHOP_PASSWORD"),
		Headless:      true,
		ActionTimeout: 30 * time.Second,
		ScreenshotDir: getenv("CLOUDSHOP_SCREENSHOT_DIR"),
		DeleteCheck:   DeleteCheck(strings.ToLower(getenv("CLOUDSHOP_DELETE_CHECK"))),
		Timing:        DefaultTiming(),
	}

	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.ScreenshotDir == "" {
		config.ScreenshotDir = "."
	}

	if v := getenv("CLOUDSHOP_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("CLOUDSHOP_HEADLESS must be a boolean: %w", err)
		}
		config.Headless = headless
	}

	if v := getenv("CLOUDSHOP_SLOWMO"); v != "" {
		slowMo, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CLOUDSHOP_SLOWMO must be a duration: %w", err)
		}
		config.SlowMo = slowMo
	}

	if v := getenv("CLOUDSHOP_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CLOUDSHOP_TIMEOUT must be a duration: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("CLOUDSHOP_TIMEOUT must be positive")
		}
		config.ActionTimeout = timeout
	}

	if v := getenv("CLOUDSHOP_WAIT_SCALE"); v != "" {
		factor, err := strconv.ParseFloat(v, 64)
		if err != nil || factor < 0 {
			return nil, fmt.Errorf("CLOUDSHOP_WAIT_SCALE must be a non-negative number")
		}
		config.Timing = config.Timing.Scale(factor)
	}

	switch config.DeleteCheck {
	case "":
		config.DeleteCheck = DeleteCheckEither
	case DeleteCheckTrash, DeleteCheckAbsent, DeleteCheckEither:
	default:
		return nil, fmt.Errorf("CLOUDSHOP_DELETE_CHECK must be one of trash, absent, either; got %q", config.DeleteCheck)
	}

	return config, nil
}

// HasCredentials reports whether both the identifier and the secret are set
func (c *CloudShopConfig) HasCredentials() bool {
	return c.Identifier != "" && c.Secret != ""
}

// RequireCredentials returns ErrMissingCredentials when HasCredentials is false
func (c *CloudShopConfig) RequireCredentials() error {
	if !c.HasCredentials() {
		return ErrMissingCredentials
	}
	return nil
}

// LoginURL returns the address of the login form
func (c *CloudShopConfig) LoginURL() string {
	return c.Endpoint + LoginPath
}

// CatalogURL returns the address of the product list
func (c *CloudShopConfig) CatalogURL() string {
	return c.Endpoint + CatalogPath
}

// CreateURL returns the address the create form opens at
func (c *CloudShopConfig) CreateURL() string {
	return c.Endpoint + CreatePath
}

// TrashURL returns the address of the deleted products list
func (c *CloudShopConfig) TrashURL() string {
	return c.Endpoint + TrashPath
}
