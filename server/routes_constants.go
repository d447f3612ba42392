package server

const (
	RouteCallback  = "/auth/callback"
	RouteRefresh   = "/auth/refresh"
	RouteSignout   = "/auth/signout"
	RouteAuthorize = "/auth/authorize"
	RouteTokenHook = "/hooks/token-issuance"
)

// OriginVerifyHeader carries the shared secret proving the request came
// through the intended front door.
const OriginVerifyHeader = "X-Origin-Verify"
