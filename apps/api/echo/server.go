package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/season"
	"github.com/aimelive/mcsa-awards/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger         core.Logger
		UserSvc        *user.Service
		ProfileSvc     *user.ProfileService
		SeasonSvc      *season.Service
		ActivitySvc    *activity.Service
		PerformanceSvc *performance.Service
		AwardSvc       *award.Service

		// SignalShutdown is called when an unrecoverable error is caught.
		SignalShutdown func()
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
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
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

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerProfileAPI(v1, jwt, s.opts.ProfileSvc)
	registerSeasonAPI(v1, jwt, s.opts.SeasonSvc, s.opts.PerformanceSvc, s.opts.AwardSvc)
	registerActivityAPI(v1, jwt, s.opts.ActivitySvc)
	registerPerformanceAPI(v1, jwt, s.opts.PerformanceSvc)
	registerAwardAPI(v1, jwt, s.opts.AwardSvc)
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
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
