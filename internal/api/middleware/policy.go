package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/videocatalog/video-metadata-service/internal/api/metrics"
	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// Access is the requirement a rule places on the caller.
type Access uint8

const (
	// AccessPublic lets every request through.
	AccessPublic Access = iota + 1
	// AccessAuthenticated requires any resolved identity.
	AccessAuthenticated
	// AccessRole requires an identity holding Rule.Role.
	AccessRole
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessRole:
		return "role"
	}
	return "unknown"
}

// Rule maps request patterns to an access requirement. A pattern is either an
// exact path or "prefix/**", which matches prefix and everything below it.
// An empty Method matches every method.
type Rule struct {
	Name     string
	Method   string
	Patterns []string
	Access   Access
	Role     domain.Role
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	for _, p := range r.Patterns {
		if matchPattern(p, path) {
			return true
		}
	}
	return false
}

// Policy is an ordered rule table; the first matching rule wins and
// unmatched requests fall through to the default rule.
type Policy struct {
	rules    []Rule
	fallback Rule
}

var defaultRule = Rule{Name: "default", Access: AccessAuthenticated}

// NewPolicy builds a policy from rules in evaluation order.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: append([]Rule(nil), rules...), fallback: defaultRule}
}

// DefaultRules is the access table of the catalog API.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "auth", Patterns: []string{"/auth/login", "/auth/register", "/auth/health"}, Access: AccessPublic},
		{Name: "docs", Patterns: []string{"/swagger/**"}, Access: AccessPublic},
		{Name: "health", Patterns: []string{"/health", "/health/**"}, Access: AccessPublic},
		{Name: "metrics", Patterns: []string{"/metrics"}, Access: AccessPublic},
		{Name: "video-import", Patterns: []string{"/videos/import"}, Access: AccessRole, Role: domain.RoleAdmin},
		{Name: "admin", Patterns: []string{"/admin/**"}, Access: AccessRole, Role: domain.RoleAdmin},
		{Name: "videos", Patterns: []string{"/videos", "/videos/**"}, Access: AccessAuthenticated},
	}
}

// DefaultPolicy returns a policy over DefaultRules.
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultRules()...)
}

// Match returns the rule governing a request. Paths with dot segments or
// empty segments never match a public rule.
func (p *Policy) Match(method, path string) Rule {
	suspicious := hasDotOrEmptySegments(path)
	for _, r := range p.rules {
		if !r.matches(method, path) {
			continue
		}
		if suspicious && r.Access == AccessPublic {
			return p.fallback
		}
		return r
	}
	return p.fallback
}

// PublicPatterns lists the patterns of every method-independent public rule,
// in order.
func (p *Policy) PublicPatterns() []string {
	var out []string
	for _, r := range p.rules {
		if r.Access == AccessPublic && r.Method == "" {
			out = append(out, r.Patterns...)
		}
	}
	return out
}

// Decide evaluates the policy for a caller. It returns domain.ErrUnauthorized
// when an identity is required and missing, and domain.ErrForbidden when the
// identity lacks the required role.
func (p *Policy) Decide(method, path string, id *domain.Identity) (Rule, error) {
	rule := p.Match(method, path)
	switch rule.Access {
	case AccessPublic:
		return rule, nil
	case AccessRole:
		if id == nil {
			return rule, domain.ErrUnauthorized
		}
		if !id.HasRole(rule.Role) {
			return rule, domain.ErrForbidden
		}
		return rule, nil
	default:
		if id == nil {
			return rule, domain.ErrUnauthorized
		}
		return rule, nil
	}
}

// Authorize enforces policy on every request. It must run after Authenticate.
func Authorize(policy *Policy, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id, _ := domain.IdentityFromContext(req.Context())

			rule, err := policy.Decide(req.Method, req.URL.Path, id)
			switch err {
			case nil:
				metrics.AuthzDecisionsTotal.WithLabelValues(rule.Name, "allow").Inc()
				return next(c)
			case domain.ErrUnauthorized:
				metrics.AuthzDecisionsTotal.WithLabelValues(rule.Name, "unauthorized").Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Str("rule", rule.Name).Msg("request rejected: no identity")
			case domain.ErrForbidden:
				metrics.AuthzDecisionsTotal.WithLabelValues(rule.Name, "forbidden").Inc()
				log.Info().Str("method", req.Method).Str("path", req.URL.Path).Str("rule", rule.Name).
					Str("username", id.Username).Str("role", string(id.Role)).Msg("request rejected: insufficient role")
			}
			return err
		}
	}
}

// PathMatcher reports whether a request path is covered by a pattern list.
type PathMatcher struct {
	patterns []string
}

func NewPathMatcher(patterns []string) *PathMatcher {
	clean := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return &PathMatcher{patterns: clean}
}

// Match never matches paths with dot or empty segments.
func (m *PathMatcher) Match(path string) bool {
	if hasDotOrEmptySegments(path) {
		return false
	}
	for _, p := range m.patterns {
		if matchPattern(p, path) {
			return true
		}
	}
	return false
}

// Skipper adapts the matcher to echo's middleware skipper signature.
func (m *PathMatcher) Skipper() func(echo.Context) bool {
	return func(c echo.Context) bool {
		return m.Match(c.Request().URL.Path)
	}
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}

func hasDotOrEmptySegments(path string) bool {
	if path == "" || path == "/" {
		return false
	}
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		if s == "." || s == ".." {
			return true
		}
		// a single trailing slash is allowed
		if s == "" && i != len(segments)-1 {
			return true
		}
	}
	return false
}
