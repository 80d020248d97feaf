package api

import (
	"context"
	"net/http"
	"strings"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/routing"
	"gatehouse/internal/services"
)

// AuthAPI is the slice of the auth service the controller calls.
type AuthAPI interface {
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Signup(ctx context.Context, in services.SignupInput) (*services.SignupResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthController serves signup, login and logout.
type AuthController struct {
	responder
	auth      AuthAPI
	validator *Validator
	limiter   Limiter
}

// NewAuthController wires the controller. limiter may be nil.
func NewAuthController(auth AuthAPI, v *Validator, limiter Limiter, logger corelog.Logger) *AuthController {
	return &AuthController{
		responder: newResponder(AuthControllerName, logger),
		auth:      auth,
		validator: v,
		limiter:   limiter,
	}
}

func (c *AuthController) Routes() []routing.Descriptor {
	return []routing.Descriptor{
		{Method: http.MethodPost, Path: "/signup", Handler: rateLimit(c.limiter, c.signup)},
		{Method: http.MethodPut, Path: "/login", Handler: rateLimit(c.limiter, c.login)},
		{Method: http.MethodPost, Path: "/logout", Handler: c.logout},
	}
}

func (c *AuthController) signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := c.bind(w, r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.auth.Signup(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := c.bind(w, r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.auth.Login(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}

func (c *AuthController) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		c.fail(w, r, coreerrors.New(coreerrors.CodeUnauthorized, "Missing bearer token"))
		return
	}
	if err := c.auth.Logout(r.Context(), token); err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, map[string]string{"message": "Logged out"})
}

func (c *AuthController) bind(w http.ResponseWriter, r *http.Request, v any) error {
	if err := decodeJSON(w, r, v); err != nil {
		return err
	}
	return c.validator.Struct(v)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
