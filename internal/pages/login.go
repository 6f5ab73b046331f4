package pages

import (
	"strings"

	"github.com/cloudshop/uisuite/internal/browser"
	"github.com/cloudshop/uisuite/internal/config"
	"go.uber.org/zap"
)

var (
	emailTargets = []browser.Query{
		{Role: browser.RoleTextInput, Placeholder: "Email"},
		{Role: browser.RoleInput, Name: "email"},
		{Role: browser.RoleEmailInput},
	}
	passwordTargets = []browser.Query{
		{Role: browser.RolePasswordInput, Placeholder: "Пароль"},
		{Role: browser.RoleInput, Name: "password"},
		{Role: browser.RolePasswordInput},
	}
	loginButton   = browser.Query{Role: browser.RoleButton, Text: "войти"}
	logoutTargets = []browser.Query{
		{Role: browser.RoleLink, Text: "выход"},
		{Role: browser.RoleButton, Text: "выход"},
	}
	forgotPasswordLink = browser.Query{Role: browser.RoleLink, Text: "Забыли пароль?"}
	registerLink       = browser.Query{Role: browser.RoleLink, Text: "Регистрация"}
	anyInput           = browser.Query{Role: browser.RoleInput}
	anyLink            = browser.Query{Role: browser.RoleLink}
)

// LoginPage drives the anonymous login form
type LoginPage struct {
	BasePage
}

// NewLoginPage returns a login page object. cfg supplies the endpoint and the account.
func NewLoginPage(page browser.Page, cfg *config.CloudShopConfig, logger *zap.Logger) *LoginPage {
	return &LoginPage{BasePage: newBasePage(page, cfg, logger, "pages.login")}
}

// Open navigates to the login form
func (l *LoginPage) Open() error {
	return l.open(l.cfg.LoginURL(), true)
}

// Login submits identifier and secret. It does not judge whether the login worked.
func (l *LoginPage) Login(identifier, secret string) error {
	email, ok := l.usable(emailTargets...)
	if !ok {
		return &ActionError{Action: "fill email", Target: "Email", Candidates: l.candidates(anyInput)}
	}
	if err := email.Fill(identifier); err != nil {
		return err
	}

	password, ok := l.usable(passwordTargets...)
	if !ok {
		return &ActionError{Action: "fill password", Target: "Пароль", Candidates: l.candidates(anyInput)}
	}
	if err := password.Fill(secret); err != nil {
		return err
	}

	if err := l.clickFirst("submit login", "войти", anyButton, loginButton); err != nil {
		return err
	}
	l.page.Wait(l.cfg.Timing.Login)
	l.logger.Info("login submitted", zap.String("identifier", identifier), zap.String("url", l.page.URL()))
	return nil
}

// SignIn opens the form and logs in with the configured account
func (l *LoginPage) SignIn() error {
	if err := l.cfg.RequireCredentials(); err != nil {
		return err
	}
	if err := l.Open(); err != nil {
		return err
	}
	if err := l.Login(l.cfg.Identifier, l.cfg.Secret); err != nil {
		return err
	}
	if !l.IsLoginSuccessful() {
		return ErrLoginRejected
	}
	return nil
}

// IsLoginSuccessful infers success from having navigated away from the login address
func (l *LoginPage) IsLoginSuccessful() bool {
	return !strings.Contains(l.page.URL(), strings.TrimSuffix(config.LoginPath, "/"))
}

// Logout clicks the exit link of the account menu
func (l *LoginPage) Logout() error {
	if err := l.clickFirst("logout", "выход", anyLink, logoutTargets...); err != nil {
		return err
	}
	l.page.Wait(l.cfg.Timing.Login)
	return nil
}

// ClickForgotPassword follows the password recovery link
func (l *LoginPage) ClickForgotPassword() error {
	return l.clickFirst("open password recovery", "Забыли пароль?", anyLink, forgotPasswordLink)
}

// ClickRegister follows the registration link
func (l *LoginPage) ClickRegister() error {
	return l.clickFirst("open registration", "Регистрация", anyLink, registerLink)
}
