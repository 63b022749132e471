package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resumind/internal/types"
	"github.com/rs/zerolog"
)

// MinPublicPageSize is the smallest plain HTTP response taken as a real
// profile page rather than a redirect or stub.
const MinPublicPageSize = 3000

// Landmarks of the public profile page and the activity feed.
const (
	PublicLandmark   = "main.scaffold-layout__main"
	ActivityLandmark = "div.occludable-update"
)

// RenderFunc renders a page in a browser. WithBrowser is the default.
type RenderFunc func(ctx context.Context, url string, opts *BrowserOptions) (string, error)

// PublicOptions configures PublicProfile.
type PublicOptions struct {
	HTTP    *Options
	Browser *BrowserOptions
	Render  RenderFunc
	Logger  zerolog.Logger
}

// PageSet is the markup gathered for one profile.
type PageSet struct {
	Profile  string
	Activity string
}

// IsAuthWall reports whether the markup is the sign-in wall served instead of
// a profile.
func IsAuthWall(html string) bool {
	return strings.Contains(html, "authwall")
}

// acceptablePublicPage reports whether a plain HTTP response holds a profile.
func acceptablePublicPage(r *Result) bool {
	return r != nil &&
		r.StatusCode == 200 &&
		len(r.HTML) > MinPublicPageSize &&
		!strings.Contains(strings.ToLower(r.HTML), "sign in")
}

// PublicProfile fetches a profile without signing in. Plain HTTP is tried
// first; when that yields a stub or sign-in prompt the page is rendered in a
// headless browser instead.
func PublicProfile(ctx context.Context, profileURL string, opts *PublicOptions) (string, error) {
	if opts == nil {
		opts = &PublicOptions{Logger: zerolog.Nop()}
	}
	logger := opts.Logger

	result, err := URL(ctx, profileURL, opts.HTTP)
	if err == nil && acceptablePublicPage(result) {
		logger.Debug().Str("url", profileURL).Int("bytes", len(result.HTML)).Msg("fetched public profile over HTTP")
		return result.HTML, nil
	}
	if err != nil {
		logger.Info().Err(err).Msg("HTTP fetch failed, retrying with browser")
	} else {
		logger.Info().Int("status", result.StatusCode).Int("bytes", len(result.HTML)).Msg("HTTP page unusable, retrying with browser")
	}

	render := opts.Render
	if render == nil {
		render = WithBrowser
	}
	browser := opts.Browser.withDefaults()
	browser.Landmark = PublicLandmark
	if browser.Logger.GetLevel() == zerolog.Disabled {
		browser.Logger = logger
	}

	html, err := render(ctx, profileURL, browser)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	if strings.TrimSpace(html) == "" || IsAuthWall(html) {
		return "", ErrProfileUnavailable
	}
	return html, nil
}

// SignedInProfile logs in and reads the profile page and its activity page.
// The browser is released before returning, whatever the outcome. Failing to
// read the activity page only leaves Activity empty.
func SignedInProfile(ctx context.Context, profileURL string, creds types.Credentials, opts *SessionOptions) (*PageSet, error) {
	session, err := NewSession(ctx, creds, opts)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	logger := session.browser.Logger
	if err := session.Login(); err != nil {
		return nil, err
	}

	profile, err := session.Page(profileURL, ProfileLandmark)
	if err != nil {
		return nil, err
	}
	if IsAuthWall(profile) {
		logger.Warn().Str("url", profileURL).Msg("profile page still shows the sign-in wall")
	}

	pages := &PageSet{Profile: profile}
	activity, err := session.Page(ActivityURL(profileURL), ActivityLandmark)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read activity page")
		return pages, nil
	}
	pages.Activity = activity
	return pages, nil
}
