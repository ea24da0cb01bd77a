package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// BaseURL builds the absolute URLs embedded in every public document. The
// Open Badges verification protocol requires self-contained documents, so
// relative links are never acceptable. It is passed explicitly to whatever
// renders documents; there is no ambient global.
type BaseURL struct {
	base string
}

// ParseBaseURL validates and normalizes the configured base URL. The
// trailing slash is stripped so route helpers can concatenate blindly.
func ParseBaseURL(raw string) (BaseURL, error) {
	if raw == "" {
		return BaseURL{}, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return BaseURL{}, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return BaseURL{}, fmt.Errorf("base URL %q must be absolute", raw)
	}
	return BaseURL{base: strings.TrimSuffix(raw, "/")}, nil
}

func (b BaseURL) join(path string) string { return b.base + path }

func (b BaseURL) Issuer() string { return b.join("/organization/") }

func (b BaseURL) RevocationList() string { return b.join("/revoked/") }

func (b BaseURL) Badge(slug string) string {
	return b.join("/badge/" + url.PathEscape(slug) + "/")
}
func (b BaseURL) Assertion(uid string) string {
	return b.join("/assertion/" + url.PathEscape(uid) + "/")
}
func (b BaseURL) Criterion(slug string) string {
	return b.join("/criterion/" + url.PathEscape(slug) + "/")
}

// Media resolves a stored image name to its public URL. Names are built
// from slugs and uids, so they are embedded as-is; an empty name maps to
// an empty string so documents can render "no image" verbatim.
func (b BaseURL) Media(name string) string {
	if name == "" {
		return ""
	}
	return b.join("/media/" + name)
}

// BadgeImageForEmail is the public PNG endpoint for a recipient's badge,
// addressed by email.
func (b BaseURL) BadgeImageForEmail(slug, email string) string {
	return b.join("/badge_image_email/" + url.PathEscape(slug) + "/" + url.PathEscape(email) + "/image")
}
