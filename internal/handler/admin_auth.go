package handler

import (
	"github.com/deppfellow/commerce/internal/middleware"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/deppfellow/commerce/internal/service"
	"github.com/labstack/echo/v4"
)

// AdminAuthHandler serves the admin cookie session endpoints.
type AdminAuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAdminAuthHandler(s *server.Server, services *service.Services) *AdminAuthHandler {
	return &AdminAuthHandler{
		Handler: NewHandler(s),
		auth:    services.Auth,
	}
}

type UserResponse struct {
	User *model.User `json:"user"`
}

func (h *AdminAuthHandler) Login(c echo.Context, req *LoginRequest) (*UserResponse, error) {
	user, err := h.auth.AuthenticateUser(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := h.server.Sessions.SetUser(c.Response(), c.Request(), user.ID); err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

func (h *AdminAuthHandler) GetSession(c echo.Context, _ *EmptyRequest) (*UserResponse, error) {
	user, err := h.auth.RetrieveUser(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

func (h *AdminAuthHandler) Logout(c echo.Context, _ *EmptyRequest) (*struct{}, error) {
	if err := h.server.Sessions.ClearUser(c.Response(), c.Request()); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
