package middleware

import (
	"net/http"
	"slices"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/pkg/tokens"
)

const (
	CtxClaims = "claims"
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxExp    = "exp"

	MsgUnauthorized = "token not found or invalid"
	MsgForbidden    = "forbidden role"
)

// RequireAuth reads the bearer token from the Authorization header and puts
// the caller identity on the echo context.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	jwtMW := echojwt.WithConfig(echojwt.Config{
		ContextKey:  CtxClaims,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.AccessClaimsFromToken(auth, secret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthorized)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMW(func(c echo.Context) error {
			claims, ok := c.Get(CtxClaims).(*tokens.AccessClaims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthorized)
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			if claims.ExpiresAt != nil {
				c.Set(CtxExp, claims.ExpiresAt.Time)
			}
			return next(c)
		})
	}
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthorized)
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(tokens.RoleAdmin)
}

// Expiry returns the expiry of the token that authenticated the request.
func Expiry(c echo.Context) time.Time {
	exp, _ := c.Get(CtxExp).(time.Time)
	return exp
}
