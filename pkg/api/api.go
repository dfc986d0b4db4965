package api

import (
	"birthdayy-bot/pkg"
	"birthdayy-bot/pkg/birthday"
	"birthdayy-bot/pkg/report"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
)

const (
	pathHealth         = "/health"
	pathBirthdayCreate = "/birthday/create"

	requestTimeout = 10 * time.Second
)

type ErrorCode string

const (
	ErrorCodeDuplicateEntry    ErrorCode = "duplicate_entry"
	ErrorCodeUnknownError      ErrorCode = "unknown_error"
	ErrorCodeInvalidDateFormat ErrorCode = "invalid_date_format"
	ErrorCodeInvalidParameter  ErrorCode = "invalid_parameter"
	ErrorCodeMissingParameter  ErrorCode = "missing_parameter"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeRateLimited       ErrorCode = "rate_limited"
)

type Store interface {
	UpsertUser(ctx context.Context, userID snowflake.ID, username string) error
	CreateBirthday(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, date birthday.Date) error
}

// Members is satisfied by rest.Rest.
type Members interface {
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
}

type Overview interface {
	Update(ctx context.Context, guildID snowflake.ID) error
}

type API struct {
	config   pkg.APIConfig
	engine   *gin.Engine
	store    Store
	members  Members
	overview Overview
	now      func() time.Time
}

type Error struct {
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message"`
}

type Response struct {
	Success bool   `json:"success"`
	Error   *Error `json:"error,omitempty"`
}

func New(config pkg.APIConfig, store Store, members Members, overview Overview) *API {
	a := &API{
		config:   config,
		engine:   gin.New(),
		store:    store,
		members:  members,
		overview: overview,
		now:      time.Now,
	}
	a.engine.Use(
		gin.CustomRecovery(recoveryHandler),
		loggingMiddleware(),
	)
	r := a.engine.Group(config.Prefix)
	r.Use(newLimiter(config.RateLimit, config.RateBurst).middleware())
	r.GET(pathHealth, a.healthCheck)
	r.POST(pathBirthdayCreate, a.authMiddleware(), handle(a.createBirthday))
	return a
}

func (a *API) Handler() http.Handler {
	return a.engine
}

// Serve listens on the configured address until ctx is done and then drains open requests for up to shutdownTimeout.
func (a *API) Serve(ctx context.Context, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              a.config.Listen,
		Handler:           a.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("birthdayy: error while shutting down api", tint.Err(err))
		}
	}()
	slog.Info("birthdayy: api is listening", slog.String("api.listen", a.config.Listen), slog.String("api.prefix", a.config.Prefix))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if subtle.ConstantTimeCompare([]byte(token), []byte(a.config.Secret)) != 1 {
			fail(c, http.StatusUnauthorized, ErrorCodeUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}

// handle reports errors returned by a route to Sentry and answers with a 500.
func handle(fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := fn(c)
		if err == nil {
			return
		}
		_ = c.Error(err)
		report.CaptureRouteError(c.Request.Method, c.FullPath(), err)
		fail(c, http.StatusInternalServerError, ErrorCodeUnknownError, "Internal Server Error")
	}
}

func recoveryHandler(c *gin.Context, recovered any) {
	err := fmt.Errorf("panic: %v", recovered)
	report.CaptureRouteError(c.Request.Method, c.FullPath(), err)
	fail(c, http.StatusInternalServerError, ErrorCodeUnknownError, "Internal Server Error")
}

func fail(c *gin.Context, status int, code ErrorCode, message string) {
	c.AbortWithStatusJSON(status, Response{
		Error: &Error{Code: code, Message: message},
	})
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		attrs := []any{
			slog.String("http.method", c.Request.Method),
			slog.String("http.path", c.Request.URL.Path),
			slog.String("http.client_ip", c.ClientIP()),
			slog.Duration("http.duration", time.Since(start)),
			slog.Group("response",
				slog.Int("status_code", c.Writer.Status()),
				slog.Int("body_size", c.Writer.Size())),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			slog.Error("birthdayy: api request finished with errors", append(attrs, slog.String("errors", errs.String()))...)
			return
		}
		slog.Info("birthdayy: api request finished", attrs...)
	}
}
