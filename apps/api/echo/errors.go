package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/contribution"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/staff"
	"github.com/trezcool/shule/core/student"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that maps all
// faults to the error taxonomy before responding; nothing crosses the
// boundary unmapped. signalShutdown is called whenever a core.shutdown error
// is caught.
func newAppHTTPErrorHandler(deps ServerDeps, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch cause := errors.Cause(err); cause {
		case staff.ErrInvalidCredentials:
			code = http.StatusUnauthorized
			message = cause.Error()
		case staff.ErrTooManyLoginAttempts:
			code = http.StatusTooManyRequests
			message = cause.Error()
		case contribution.ErrDuplicatePayment:
			code = http.StatusBadRequest
			message = cause.Error()
		case staff.ErrNotFound, student.ErrNotFound, report.ErrNotFound, contribution.ErrNotFound:
			code = http.StatusNotFound
			message = cause.Error()
		default:
			code, message = mapErrorTypes(err, ctx, deps, signalShutdown)
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func mapErrorTypes(err error, ctx echo.Context, deps ServerDeps, signalShutdown func()) (int, interface{}) {
	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
		}
		return origErr.Code, origErr.Message
	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fldErrs[vErr.Field()] = vErr.Translate(deps.Translator)
		}
		return http.StatusBadRequest, fldErrs
	case *core.ValidationError:
		if origErr.Fields != nil {
			fldErrs := make(map[string]string, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			return http.StatusBadRequest, fldErrs
		}
		return http.StatusBadRequest, origErr.Error()
	default: // any other error is a server error
		msg := http.StatusText(http.StatusInternalServerError)

		args := []interface{}{errors.Wrap(err, msg)}
		if sess, ok := getContextSession(ctx); ok {
			args = append(args, sess.Staff)
		}
		deps.Logger.Error(msg, args...)

		// shutting down...
		if core.IsShutdown(err) {
			signalShutdown()
		}
		return http.StatusInternalServerError, msg
	}
}
