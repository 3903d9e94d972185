package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkly/inkly/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with every route registered. Routes under
// /api require a bearer token.
func NewRouter(svc Services, secretKey []byte, logger logging.Logger) *gin.Engine {
	h := &handlers{svc: svc, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", h.healthz)

	api := r.Group("/api", accessToken(secretKey, logger))
	{
		api.POST("/account", h.ensureAccount)

		api.GET("/onboarding", h.onboardingStatus)
		api.POST("/onboarding/complete", h.completeOnboarding)
		api.POST("/onboarding/reset", h.resetOnboarding)
		api.POST("/onboarding/step", h.advanceStep)
		api.GET("/onboarding/username", h.checkUsername)

		api.GET("/profile", h.getProfile)
		api.PUT("/profile", h.updateProfile)

		api.GET("/notifications/settings", h.getNotificationSettings)
		api.PUT("/notifications/settings", h.updateNotificationSettings)

		api.POST("/inks", h.createInk)
		api.GET("/inks", h.listInks)
		api.POST("/inks/preview", h.previewInk)

		api.POST("/avatar/upload-url", h.avatarUploadURL)
		api.GET("/avatar/view-url", h.avatarViewURL)
	}

	return r
}

type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(address string, handler http.Handler, l logging.Logger) *HTTPServer {
	return &HTTPServer{
		address: address,
		handler: handler,
		logger:  l.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}
