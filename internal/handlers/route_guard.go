package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// GuardDecision is the route guard's verdict for one request.
type GuardDecision string

const (
	DecisionAllow                          GuardDecision = "allow"
	DecisionRedirectToSignIn               GuardDecision = "redirect_to_signin"
	DecisionRedirectToCompleteRegistration GuardDecision = "redirect_to_complete_registration"
)

// GuardResult carries the decision and, for redirects, the target URL.
type GuardResult struct {
	Decision   GuardDecision
	RedirectTo string
}

// SessionState is the guard's view of the caller: whether a valid session
// exists and whether registration has been completed.
type SessionState struct {
	Authenticated        bool
	RegistrationComplete bool
}

// RouteGuard gates access to the protected page prefixes. Paths outside
// both the public and protected sets are open by default.
type RouteGuard struct {
	publicPrefixes    []string
	protectedPrefixes []string

	signInPath               string
	completeRegistrationPath string
}

func NewRouteGuard() *RouteGuard {
	return &RouteGuard{
		publicPrefixes: []string{
			"/api/auth",
			"/auth/signin",
			"/complete-registration",
		},
		protectedPrefixes: []string{
			"/dashboard",
			"/profile",
			"/admin",
		},
		signInPath:               "/auth/signin",
		completeRegistrationPath: "/complete-registration",
	}
}

// Decide evaluates the guard policy in order: public paths pass
// unconditionally, anonymous callers are sent to sign-in with the original
// path preserved as callback, incomplete registrations are sent to the
// completion page, everything else passes.
func (g *RouteGuard) Decide(path string, session *SessionState) GuardResult {
	if hasPrefix(path, g.publicPrefixes) {
		return GuardResult{Decision: DecisionAllow}
	}

	if !hasPrefix(path, g.protectedPrefixes) {
		return GuardResult{Decision: DecisionAllow}
	}

	if session == nil || !session.Authenticated {
		return GuardResult{
			Decision:   DecisionRedirectToSignIn,
			RedirectTo: g.signInPath + "?callbackUrl=" + url.QueryEscape(path),
		}
	}

	if !session.RegistrationComplete {
		return GuardResult{
			Decision:   DecisionRedirectToCompleteRegistration,
			RedirectTo: g.completeRegistrationPath,
		}
	}

	return GuardResult{Decision: DecisionAllow}
}

// Middleware applies the guard to page routes, translating redirect
// decisions into 302 responses.
func (g *RouteGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionStateFromContext(c)
		result := g.Decide(c.Request.URL.Path, session)

		if result.Decision != DecisionAllow {
			c.Redirect(http.StatusFound, result.RedirectTo)
			c.Abort()
			return
		}

		c.Next()
	}
}

func sessionStateFromContext(c *gin.Context) *SessionState {
	account, err := GetUserFromContext(c)
	if err != nil {
		return nil
	}
	return &SessionState{
		Authenticated:        true,
		RegistrationComplete: account.RegistrationComplete,
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
