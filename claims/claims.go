// Package claims implements the claim-filtering policy applied before
// identity information leaves the service boundary. The same allow-list
// semantics are expressed from two ends: Suppressed computes the exclusion
// set handed to a token-issuance hook, while BuildContext copies allowed
// claims into an authorization context. Both honour the standard-claims
// exception.
package claims

import (
	"sort"
	"strings"

	"github.com/designofadecade/edge-auth/internal/utils"
)

// defaultUsernameClaim is the provider's username claim, which is treated as
// a standard claim alongside sub, iss and aud.
const defaultUsernameClaim = "cognito:username"

// customPrefix namespaces provider-defined custom claims. It is stripped
// from context keys.
const customPrefix = "custom:"

// Filter applies an allow-list of claim names. The zero value suppresses
// every non-standard claim.
type Filter struct {
	allowed  map[string]struct{}
	username string
}

// NewFilter builds a Filter for the given allow-list. An empty list means
// "suppress everything non-standard".
func NewFilter(allowed []string) *Filter {
	f := &Filter{username: defaultUsernameClaim}
	if len(allowed) > 0 {
		f.allowed = make(map[string]struct{}, len(allowed))
		for _, name := range allowed {
			f.allowed[name] = struct{}{}
		}
	}
	return f
}

// Standard reports whether name is a standard protocol claim that must never
// be suppressed, regardless of allow-list contents.
func (f *Filter) Standard(name string) bool {
	switch name {
	case "sub", "iss", "aud", f.username:
		return true
	}
	return false
}

// Suppressed returns the claim names to suppress: every name present that is
// neither standard nor allow-listed. The result is sorted for deterministic
// output.
func (f *Filter) Suppressed(present []string) []string {
	suppressed := make([]string, 0, len(present))
	for _, name := range present {
		if f.Standard(name) {
			continue
		}
		if _, ok := f.allowed[name]; ok {
			continue
		}
		suppressed = append(suppressed, name)
	}
	sort.Strings(suppressed)
	return suppressed
}

// BuildContext constructs the authorization context from a verified claim
// set: always sub, plus each exported claim that is present, keyed with any
// custom namespace prefix stripped. Values are stringified; absent claims
// are skipped.
func BuildContext(set map[string]any, export []string) map[string]string {
	ctx := make(map[string]string, len(export)+1)
	if sub, ok := set["sub"].(string); ok {
		ctx["sub"] = sub
	}
	for _, name := range export {
		v, ok := set[name]
		if !ok {
			continue
		}
		key := strings.TrimPrefix(name, customPrefix)
		ctx[key] = utils.ClaimString(v)
	}
	return ctx
}
