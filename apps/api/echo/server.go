package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/contribution"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/staff"
	"github.com/trezcool/shule/core/student"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		StaffSvc   *staff.Service
		StudentSvc *student.Service
		ContribSvc *contribution.Service
		ReportSvc  *report.Service
		InvoiceSvc core.InvoiceService
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps         ServerDeps
		app          *echo.Echo
		errChan      chan error
		shutdownChan chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:         deps,
		app:          echo.New(),
		errChan:      make(chan error, 1),
		shutdownChan: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(portalGuardMiddleware(conf))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	v1.GET("/ping", ping)

	registerAuthAPI(v1, s.deps)
	registerContributionAPI(v1, s.deps)
	registerReportAPI(v1, s.deps)
	registerDonationAPI(v1, s.deps)
}

func (s *server) Start() {
	signal.Notify(s.shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	s.errChan <- s.app.Start(s.deps.Conf.Server.Addr)
}

func (s *server) Errors() <-chan error               { return s.errChan }
func (s *server) ShutdownSignal() <-chan os.Signal   { return s.shutdownChan }
func (s *server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }
func (s *server) Close() error                       { return s.app.Close() }
func (s *server) signalShutdown()                    { s.shutdownChan <- syscall.SIGTERM }

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Shule API!")
}

func ping(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"ping": "pong"})
}
