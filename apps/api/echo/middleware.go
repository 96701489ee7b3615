package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
)

// portalGuardMiddleware gates the teacher and principal portal sections
// behind their respective session cookies; anything else passes through.
// Unauthenticated portal requests are redirected to the login page.
func portalGuardMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path
			if path == loginPath {
				return next(ctx)
			}

			var cookieName string
			switch {
			case isPortalPath(path, "/teacher"):
				cookieName = teacherCookieName
			case isPortalPath(path, "/principal"):
				cookieName = principalCookieName
			default:
				return next(ctx)
			}

			cookie, err := ctx.Cookie(cookieName)
			if err != nil {
				return ctx.Redirect(http.StatusFound, loginPath)
			}
			sess, err := decodeSession(cookie.Value)
			if err != nil || !sess.Valid() {
				return ctx.Redirect(http.StatusFound, loginPath)
			}

			setContextSession(ctx, sess)
			return next(ctx)
		}
	}
}

func isPortalPath(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
