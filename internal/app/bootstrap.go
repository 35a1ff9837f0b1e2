package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const (
	bodyLimit       = 8 * 1024 * 1024
	shutdownTimeout = 10 * time.Second
	wsPath          = "/ws/analyses"
)

type App struct {
	Fiber     *fiber.App
	WS        *http.Server
	container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, c.Log)
	registerRoutes(f, c)

	mux := http.NewServeMux()
	mux.Handle(wsPath, ws.NewHandler(c.Hub, c.TokenValidator(), c.Log))

	a := &App{Fiber: f, container: c}
	if c.Config.App.WSPort != "" {
		if addr, err := ListenAddr(c.Config.App.WSPort); err == nil {
			a.WS = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		}
	}
	return a
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	checks := map[string]handler.Pinger{"redis": c.Cache}
	if c.DB != nil {
		checks["database"] = c.DB
	}

	routes.NewRegistry(routes.Handlers{
		Health:     handler.NewHealthHandler(checks),
		Evaluation: handler.NewEvaluationHandler(c.Evaluation),
		Analysis:   handler.NewAnalysisHandler(c.Analysis),
		Auth:       middleware.NewAuthMiddleware(c.JWT),
	}).Register(app)
}

// Serve runs the HTTP API and the websocket listener until ctx is cancelled,
// then shuts both down.
func (a *App) Serve(ctx context.Context) error {
	log := a.container.Log

	httpAddr, err := ListenAddr(a.container.Config.App.HTTPPort)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.container.Start(ctx)

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.Fiber.Listen(httpAddr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	log.Info("http listening", zap.String("addr", httpAddr))

	if a.WS != nil {
		go func() {
			if err := a.WS.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("websocket server: %w", err)
			}
		}()
		log.Info("websocket listening", zap.String("addr", a.WS.Addr), zap.String("path", wsPath))
	}

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if err := a.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("http shutdown error", zap.Error(err))
	}
	if a.WS != nil {
		if err := a.WS.Shutdown(shutdownCtx); err != nil {
			log.Warn("websocket shutdown error", zap.Error(err))
		}
	}
	cancel()
	log.Info("server stopped")
	return serveErr
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
