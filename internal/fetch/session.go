package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/jonathan/resumind/internal/types"
)

// Login page and landmarks of the signed-in flow.
const (
	DefaultLoginURL = "https://www.linkedin.com/login"
	LoginLandmark   = "#global-nav-search"
	ProfileLandmark = "main"
	usernameField   = "#username"
	passwordField   = "#password"
)

var (
	// ErrMissingCredentials is returned before any browser starts when the
	// login email or password is blank.
	ErrMissingCredentials = errors.New("LINKEDIN_EMAIL and LINKEDIN_PASSWORD must be set")
	// ErrProfileUnavailable is returned when only a sign-in wall came back.
	ErrProfileUnavailable = errors.New("profile is private or behind the sign-in wall")
)

// LoginFormError is returned when the login form never appeared.
type LoginFormError struct {
	URL     string
	Message string
	Cause   error
}

func (e *LoginFormError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("login form error at %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("login form error at %s: %s", e.URL, e.Message)
}

func (e *LoginFormError) Unwrap() error {
	return e.Cause
}

// SessionOptions configures a signed-in browser session.
type SessionOptions struct {
	Browser *BrowserOptions
	// LoginURL overrides the login page, mainly for tests.
	LoginURL     string
	LoginTimeout time.Duration
	PageTimeout  time.Duration
	// LoginSettle is the pause after a login whose landmark never appeared,
	// leaving room for redirects or a second factor prompt.
	LoginSettle time.Duration
}

// DefaultSessionOptions returns the timeouts of the signed-in flow.
func DefaultSessionOptions() *SessionOptions {
	b := DefaultBrowserOptions()
	b.Timeout = 3 * time.Minute
	return &SessionOptions{
		Browser:      b,
		LoginURL:     DefaultLoginURL,
		LoginTimeout: 20 * time.Second,
		PageTimeout:  12 * time.Second,
		LoginSettle:  5 * time.Second,
	}
}

// Session is one signed-in browser used for a single profile run. It is not
// safe for concurrent use.
type Session struct {
	ctx     context.Context
	release func()
	once    sync.Once
	creds   types.Credentials
	opts    *SessionOptions
	browser *BrowserOptions
}

// NewSession checks the credentials and starts a browser. Close must be called
// once the session is no longer needed.
func NewSession(ctx context.Context, creds types.Credentials, opts *SessionOptions) (*Session, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	d := DefaultSessionOptions()
	if opts == nil {
		opts = d
	}
	o := *opts
	if o.LoginURL == "" {
		o.LoginURL = d.LoginURL
	}
	if o.LoginTimeout <= 0 {
		o.LoginTimeout = d.LoginTimeout
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = d.PageTimeout
	}
	if o.Browser == nil {
		o.Browser = d.Browser
	}
	browser := o.Browser.withDefaults()

	browserCtx, release := newBrowser(ctx, browser)
	return &Session{
		ctx:     browserCtx,
		release: release,
		creds:   creds,
		opts:    &o,
		browser: browser,
	}, nil
}

// Login submits the credentials. Only a missing login form is an error; a
// post-login landmark that never shows up is logged and the run carries on.
func (s *Session) Login() error {
	logger := s.browser.Logger
	loginURL := s.opts.LoginURL

	if err := chromedp.Run(s.ctx, chromedp.Navigate(loginURL)); err != nil {
		return &LoginFormError{URL: loginURL, Message: "failed to open login page", Cause: err}
	}

	formCtx, cancel := context.WithTimeout(s.ctx, s.opts.LoginTimeout)
	err := chromedp.Run(formCtx,
		chromedp.WaitReady(usernameField, chromedp.ByQuery),
		chromedp.WaitReady(passwordField, chromedp.ByQuery),
	)
	cancel()
	if err != nil {
		return &LoginFormError{URL: loginURL, Message: "login fields not found", Cause: err}
	}

	err = chromedp.Run(s.ctx,
		chromedp.SetValue(usernameField, "", chromedp.ByQuery),
		chromedp.SendKeys(usernameField, s.creds.Email, chromedp.ByQuery),
		chromedp.SetValue(passwordField, "", chromedp.ByQuery),
		chromedp.SendKeys(passwordField, s.creds.Password+kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to submit login form, continuing signed out")
		return nil
	}

	if waitLandmark(s.ctx, LoginLandmark, s.opts.LoginTimeout, logger) {
		logger.Info().Msg("logged in")
	} else {
		settle(s.ctx, s.opts.LoginSettle)
	}
	return nil
}

// Page navigates to url and returns its HTML. Navigation problems and a
// missing landmark are logged; only an unreadable page is an error.
func (s *Session) Page(url, landmark string) (string, error) {
	logger := s.browser.Logger

	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("navigation did not complete")
	}
	if !waitLandmark(s.ctx, landmark, s.opts.PageTimeout, logger) {
		settle(s.ctx, s.browser.Settle)
	}

	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &Error{URL: url, Message: "failed to read page", Cause: err}
	}
	return html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() {
	s.once.Do(s.release)
}
