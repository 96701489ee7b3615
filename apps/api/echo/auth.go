package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/staff"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

type authApi struct {
	conf     *core.Config
	svc      *staff.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, deps ServerDeps) {
	api := authApi{
		conf:     deps.Conf,
		svc:      deps.StaffSvc,
		validate: deps.Validate,
	}

	ag := g.Group("/auth")
	ag.POST("/teacher/login", api.teacherLogin)
	ag.POST("/principal/login", api.principalLogin)
}

// Handlers

func (api *authApi) teacherLogin(ctx echo.Context) error {
	return api.login(ctx, staff.RoleTeacher)
}

func (api *authApi) principalLogin(ctx echo.Context) error {
	return api.login(ctx, staff.RolePrincipal)
}

func (api *authApi) login(ctx echo.Context, role string) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Authenticate(data.Email, role)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}

	sess := newSession(s, api.conf)
	cookie, err := newSessionCookie(sess, api.conf)
	if err != nil {
		return errors.Wrap(err, "creating session cookie")
	}
	ctx.SetCookie(cookie)

	return ctx.JSON(http.StatusOK, sess)
}
