package router

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/shopdesk/shopdesk/pkg/domain"
)

// Session is the slice of the session store the guard needs.
type Session interface {
	IsAuthenticated() bool
	User() *domain.User
	FetchUser(ctx context.Context) (*domain.User, error)
	ClearAuth(ctx context.Context) error
}

// Decision is the guard's verdict for one transition.
type Decision struct {
	// Redirect is the path to go to instead; "" means proceed.
	Redirect string
}

// Proceed reports whether navigation continues to the requested route.
func (d Decision) Proceed() bool {
	return d.Redirect == ""
}

func (d Decision) String() string {
	if d.Proceed() {
		return "proceed"
	}
	return "redirect " + d.Redirect
}

// Guard runs before every route transition.
type Guard struct {
	session Session
	logger  *log.Logger
}

// NewGuard returns a guard over s. A nil logger discards.
func NewGuard(s Session, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Guard{session: s, logger: logger}
}

// Before decides whether navigation to `to` may proceed.
//
// Without a session only public routes are reachable. With a session but no
// profile the profile is fetched first; if that fails the session is cleared
// and navigation is sent to the login page.
func (g *Guard) Before(ctx context.Context, to Route) Decision {
	if !g.session.IsAuthenticated() && !IsPublic(to.Name) {
		return Decision{Redirect: LoginPath}
	}

	if g.session.IsAuthenticated() && g.session.User() == nil {
		if _, err := g.session.FetchUser(ctx); err != nil {
			g.logger.Printf("router: profile fetch failed on the way to %s: %v", to.Path, err)
			if clearErr := g.session.ClearAuth(ctx); clearErr != nil {
				g.logger.Printf("router: %v", clearErr)
			}
			return Decision{Redirect: LoginPath}
		}
	}

	return Decision{}
}

// maxRedirects bounds redirect chains; each hop is guarded again.
const maxRedirects = 5

// Router resolves targets and applies the guard.
type Router struct {
	guard *Guard
}

// New returns a router applying g to every navigation.
func New(g *Guard) *Router {
	return &Router{guard: g}
}

// Navigate resolves target, runs the guard and follows redirects. It returns
// the route that navigation finally lands on. An unknown target that the
// guard lets through lands on the not-found page.
func (r *Router) Navigate(ctx context.Context, target string) (Route, error) {
	to := Resolve(target)
	for i := 0; i < maxRedirects; i++ {
		d := r.guard.Before(ctx, to)
		if d.Proceed() {
			if !to.Matched() {
				return mustName(NotFound), nil
			}
			return to, nil
		}
		to = Resolve(d.Redirect)
	}
	return Route{}, fmt.Errorf("router.Navigate: too many redirects resolving %q", target)
}
