package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"

	"github.com/shopdesk/shopdesk/internal/config"
	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/internal/session"
	"github.com/shopdesk/shopdesk/internal/storage"
	"github.com/shopdesk/shopdesk/internal/tui"
	"github.com/shopdesk/shopdesk/pkg/client"
)

// app is the wired process: one API client, one session store, one router.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	api     *client.Client
	session *session.Store
	router  *router.Router

	program atomic.Pointer[tea.Program]
	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg, logger: log.New(io.Discard, "", 0)}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "shopdesk")
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		a.logger = log.Default()
	}

	tokens, closeTokens, err := openTokenStore(cfg)
	if err != nil {
		a.Close() //nolint:errcheck
		return nil, err
	}
	if closeTokens != nil {
		a.closers = append(a.closers, closeTokens)
	}

	opts := []client.Option{client.WithTimeout(cfg.Timeout)}
	if cfg.AttachBearer {
		opts = append(opts, client.WithRequestDecorator(client.BearerToken(a.token)))
	}
	if cfg.LogoutOn401 {
		opts = append(opts, client.WithResponseHandler(client.OnUnauthorized(a.onUnauthorized)))
	}
	a.api = client.New(cfg.APIURL, opts...)

	a.session, err = session.Open(ctx, tokens, a.api,
		session.WithLogger(a.logger),
		session.WithToken(cfg.Token),
	)
	if err != nil {
		a.Close() //nolint:errcheck
		return nil, err
	}
	a.router = router.New(router.NewGuard(a.session, a.logger))
	return a, nil
}

// openTokenStore picks the backend named by cfg. The returned closer may be nil.
func openTokenStore(cfg config.Config) (storage.TokenStore, func() error, error) {
	switch cfg.TokenStore {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return storage.NewRedisStore(rdb, cfg.RedisPrefix, cfg.TokenKey), rdb.Close, nil
	case config.StoreMemory:
		return storage.NewMemoryStore(""), nil, nil
	default:
		dir := cfg.StateDir
		if dir == "" {
			var err error
			if dir, err = storage.DefaultDir(); err != nil {
				return nil, nil, err
			}
		}
		return storage.NewFileStore(dir, cfg.TokenKey), nil, nil
	}
}

// token feeds the bearer decorator. The session does not exist yet while
// the client is built, so it is read late.
func (a *app) token() string {
	if a.session == nil {
		return ""
	}
	return a.session.Token()
}

func (a *app) onUnauthorized() {
	if a.session == nil || !a.session.IsAuthenticated() {
		return
	}
	a.logger.Printf("api answered 401, ending session")
	if err := a.session.ClearAuth(context.Background()); err != nil {
		a.logger.Printf("%v", err)
	}
	if p := a.program.Load(); p != nil {
		go p.Send(tui.SessionExpiredMsg{})
	}
}

func (a *app) runTUI(ctx context.Context) error {
	m := tui.NewApp(tui.Deps{
		Auth:    a.api,
		Catalog: a.api,
		Session: a.session,
		Router:  a.router,
		WebURL:  a.cfg.WebURL,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	a.program.Store(p)
	defer a.program.Store(nil)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// Close releases the log file and the Redis connection.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
