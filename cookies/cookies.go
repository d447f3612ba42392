// Package cookies builds and parses the session cookie set. Issuance and
// clearing are defined side by side because they must stay structurally
// symmetric: a clearing cookie with a different path or attribute set
// targets a different cookie in the browser and silently fails to sign the
// user out.
package cookies

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/designofadecade/edge-auth/cdn"
)

// Cookie names on the wire. The CloudFront names are fixed by the CDN.
const (
	AccessTokenName  = "accessToken"
	IDTokenName      = "idToken"
	RefreshTokenName = "refreshToken"
	SessionInfoName  = "sessionInfo"

	PolicyName    = "CloudFront-Policy"
	SignatureName = "CloudFront-Signature"
	KeyPairIDName = "CloudFront-Key-Pair-Id"
)

// DefaultRefreshTokenMaxAge is the fixed refresh-token cookie lifetime.
// Refresh tokens outlive the short-lived access and id tokens.
const DefaultRefreshTokenMaxAge = 5 * 60 * 60

var idTokenPattern = regexp.MustCompile(`idToken=([^;]+)`)

// Session is the credential set issued as cookies. RefreshToken may be
// empty, in which case no refresh cookie is emitted; a refresh cycle rotates
// only the access and id tokens.
type Session struct {
	AccessToken  string
	IDToken      string
	RefreshToken string

	// MaxAge is the access/id cookie lifetime in seconds.
	MaxAge int
	// ExpiresAt is the session expiry as epoch seconds, exposed to clients
	// through the non-httpOnly sessionInfo cookie.
	ExpiresAt int64
}

// Codec builds the Set-Cookie list for a session and the matching
// expire-everything list for signout.
type Codec struct {
	AccessTokenPath  string
	RefreshTokenPath string
	// CDNPaths lists every path prefix resource-scoped cookies may have been
	// issued for; clearing covers all of them unconditionally.
	CDNPaths []string
	// RefreshTokenMaxAge defaults to DefaultRefreshTokenMaxAge when zero.
	RefreshTokenMaxAge int
}

// SessionCookies builds the full issuance set: the auth cookies plus four
// cookies per resource-scoped grant.
func (c *Codec) SessionCookies(s Session, grants []cdn.Grant) []*http.Cookie {
	set := []*http.Cookie{
		sensitive(AccessTokenName, s.AccessToken, c.accessPath(), s.MaxAge),
		sensitive(IDTokenName, s.IDToken, c.accessPath(), s.MaxAge),
	}
	if s.RefreshToken != "" {
		set = append(set, sensitive(RefreshTokenName, s.RefreshToken, c.refreshPath(), c.refreshMaxAge()))
	}

	expiry := strconv.FormatInt(s.ExpiresAt, 10)
	for _, g := range grants {
		set = append(set,
			sensitive(PolicyName, g.Policy, g.Path, s.MaxAge),
			sensitive(SignatureName, g.Signature, g.Path, s.MaxAge),
			sensitive(KeyPairIDName, g.KeyPairID, g.Path, s.MaxAge),
			readable(SessionInfoName, expiry, g.Path, s.MaxAge),
		)
	}
	return set
}

// ExpiredCookies builds the clearing set for every cookie ever potentially
// issued: the auth cookies unconditionally and the resource-scoped cookies
// for every configured path. Names, paths and attributes mirror issuance
// exactly; only values and lifetimes differ.
func (c *Codec) ExpiredCookies() []*http.Cookie {
	set := []*http.Cookie{
		expireSensitive(AccessTokenName, c.accessPath()),
		expireSensitive(IDTokenName, c.accessPath()),
		expireSensitive(RefreshTokenName, c.refreshPath()),
	}
	for _, path := range c.CDNPaths {
		set = append(set,
			expireSensitive(PolicyName, path),
			expireSensitive(SignatureName, path),
			expireSensitive(KeyPairIDName, path),
			expireReadable(SessionInfoName, path),
		)
	}
	return set
}

// RefreshTokenFromHeader extracts the refresh token from a raw Cookie
// header: the value of the first refreshToken= entry, taken verbatim after
// the first '=' so that token values containing '=' survive unchanged.
func RefreshTokenFromHeader(cookieHeader string) (string, bool) {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, RefreshTokenName+"="); ok {
			return value, true
		}
	}
	return "", false
}

// IDTokenFromIdentitySource extracts the id token from the identity-source
// string forwarded by the upstream layer.
func IDTokenFromIdentitySource(source string) (string, bool) {
	m := idTokenPattern.FindStringSubmatch(source)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (c *Codec) accessPath() string {
	if c.AccessTokenPath == "" {
		return "/"
	}
	return c.AccessTokenPath
}

func (c *Codec) refreshPath() string {
	if c.RefreshTokenPath == "" {
		return "/"
	}
	return c.RefreshTokenPath
}

func (c *Codec) refreshMaxAge() int {
	if c.RefreshTokenMaxAge == 0 {
		return DefaultRefreshTokenMaxAge
	}
	return c.RefreshTokenMaxAge
}

func sensitive(name, value, path string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// readable cookies are meant to be read by client-side code, so httpOnly is
// deliberately omitted.
func readable(name, value, path string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// A negative MaxAge serializes as Max-Age=0, which is the wire format the
// browser requires to delete the cookie immediately.
func expireSensitive(name, path string) *http.Cookie {
	c := sensitive(name, "", path, 0)
	c.MaxAge = -1
	return c
}

func expireReadable(name, path string) *http.Cookie {
	c := readable(name, "", path, 0)
	c.MaxAge = -1
	return c
}
