package echoapi

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/event"
	"github.com/taufwerk/baptizo/core/person"
	"github.com/taufwerk/baptizo/core/reminder"
)

type (
	// RunLister exposes the persisted reconciliation run log; satisfied by the
	// database and in-memory run repositories.
	RunLister interface {
		RecentRuns(ctx context.Context, limit int) ([]person.RunRecord, error)
	}

	Options struct {
		Address        string
		DisableReqLogs bool

		PersonSvc   person.Service
		EventSvc    event.Service
		ReminderSvc reminder.Service
		Settings    core.SettingsStore
		Runs        RunLister // may be nil
		Logger      core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, func() {
		_ = s.Stop(context.Background())
	})
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1", keyAuthMiddleware())

	registerPersonAPI(v1, s.opts.PersonSvc, s.opts.Runs)
	registerEventAPI(v1, s.opts.EventSvc)
	registerSettingsAPI(v1, s.opts.Settings)
	registerReminderAPI(v1, s.opts.ReminderSvc)
}

// keyAuthMiddleware guards the API with the static admin key from the
// configuration ("Authorization: Bearer <key>").
func keyAuthMiddleware() echo.MiddlewareFunc {
	return middleware.KeyAuth(func(key string, ctx echo.Context) (bool, error) {
		return subtle.ConstantTimeCompare([]byte(key), []byte(core.Conf.Server.AdminAPIKey)) == 1, nil
	})
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Baptizo API!")
}
