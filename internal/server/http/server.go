// Package http exposes AuthService as a JSON API over gin.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

// AuthService is the subset of services.AuthService the handlers call.
type AuthService interface {
	Register(ctx context.Context, email, password, confirmation string) (string, error)
	Verify(ctx context.Context, email, code string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword, confirmation string) (string, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) (string, error)
	Me(ctx context.Context, claims *auth.Claims) (*models.User, error)
}

type HTTPServer struct {
	address string
	prefix  string
	auth    AuthService
	logger  logging.Logger
}

func NewHTTPServer(a, prefix string, l logging.Logger, svc AuthService) (*HTTPServer, error) {
	if svc == nil {
		return nil, errors.New("auth service is required")
	}
	return &HTTPServer{
		address: a,
		prefix:  prefix,
		auth:    svc,
		logger:  l.With("module", "http_server"),
	}, nil
}

// Router builds the gin engine with every route mounted under the prefix.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	g := r.Group(s.prefix)
	g.POST("/register", s.register)
	g.POST("/verify", s.verify)
	g.POST("/resend", s.resend)
	g.POST("/login", s.login)
	g.POST("/forgot-password", s.forgotPassword)
	g.POST("/reset-forgotten-password", s.resetPassword)

	protected := g.Group("", s.bearerAuth())
	protected.POST("/logout", s.logout)
	protected.GET("/me", s.me)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address, "prefix", s.prefix)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
