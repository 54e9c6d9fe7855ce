package mockapi

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/auth"
	"github.com/labstack/echo/v4"
)

// Context keys set by requireAuth.
const (
	userKey   = "user"
	claimsKey = "claims"
)

// requestLogger logs every request once it completes. The level follows
// the status: 5xx error, 4xx warn, otherwise info.
func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the status before it is logged.
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			args := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency", time.Since(start),
				"request_id", req.Header.Get(common.RequestIDHeaderName),
			}
			if req.URL.RawQuery != "" {
				args = append(args, "query", req.URL.RawQuery)
			}

			ctx := req.Context()
			switch {
			case res.Status >= 500:
				logger.Error(ctx, "request", args...)
			case res.Status >= 400:
				logger.Warn(ctx, "request", args...)
			default:
				logger.Info(ctx, "request", args...)
			}
			return nil
		}
	}
}

// recovery turns a handler panic into a 500 and logs the stack.
func recovery(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(c.Request().Context(), "panic recovered",
						"panic", r,
						"stack", string(debug.Stack()),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
					)
					returnErr = fmt.Errorf("panic: %v", r)
				}
			}()

			return next(c)
		}
	}
}

// requireAuth resolves the bearer token to a live, non-revoked account.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			return common.ErrorUnauthorized
		}

		claims, err := auth.ParseToken(token, []byte(s.config.SecretKey))
		if err != nil {
			return err
		}
		if s.store.Revoked(claims.ID) {
			return common.ErrTokenRevoked
		}

		u, err := s.store.User(claims.UserID)
		if err != nil {
			// The account was deleted after the token was issued.
			return common.ErrorUnauthorized
		}

		c.Set(userKey, u)
		c.Set(claimsKey, claims)
		return next(c)
	}
}

// requireRole admits only accounts holding role. It runs after requireAuth.
func requireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if currentUser(c).Role != role {
				return common.ErrorForbidden
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) models.UserProfile {
	u, _ := c.Get(userKey).(models.UserProfile)
	return u
}

func currentClaims(c echo.Context) *auth.Claims {
	cl, _ := c.Get(claimsKey).(*auth.Claims)
	return cl
}
