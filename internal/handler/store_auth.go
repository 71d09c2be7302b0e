package handler

import (
	"net/url"

	"github.com/deppfellow/commerce/internal/featureflag"
	"github.com/deppfellow/commerce/internal/middleware"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/deppfellow/commerce/internal/service"
	"github.com/deppfellow/commerce/internal/validation"
	"github.com/labstack/echo/v4"
)

// StoreAuthHandler serves the storefront customer session endpoints.
type StoreAuthHandler struct {
	Handler
	auth      *service.AuthService
	customers *service.CustomerService
}

func NewStoreAuthHandler(s *server.Server, services *service.Services) *StoreAuthHandler {
	return &StoreAuthHandler{
		Handler:   NewHandler(s),
		auth:      services.Auth,
		customers: services.Customer,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate(featureflag.Flags) error {
	return validation.Struct(r)
}

type EmailRequest struct {
	Email string `param:"email" validate:"required"`
}

func (r *EmailRequest) Validate(featureflag.Flags) error {
	return validation.Struct(r)
}

type CustomerResponse struct {
	Customer *model.Customer `json:"customer"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// GetSession returns the customer the request is authenticated as.
func (h *StoreAuthHandler) GetSession(c echo.Context, _ *EmptyRequest) (*CustomerResponse, error) {
	customer, err := h.customers.Retrieve(c.Request().Context(), middleware.GetCustomerID(c))
	if err != nil {
		return nil, err
	}
	return &CustomerResponse{Customer: customer}, nil
}

// Exists reports whether a registered customer uses the email.
func (h *StoreAuthHandler) Exists(c echo.Context, req *EmailRequest) (*ExistsResponse, error) {
	// Path params keep their escaping when the URL had any, e.g. %40.
	email, err := url.PathUnescape(req.Email)
	if err != nil {
		email = req.Email
	}

	exists, err := h.customers.EmailExists(c.Request().Context(), email)
	if err != nil {
		return nil, err
	}
	return &ExistsResponse{Exists: exists}, nil
}

// Login checks the credentials and binds the customer to the session.
func (h *StoreAuthHandler) Login(c echo.Context, req *LoginRequest) (*CustomerResponse, error) {
	ctx := c.Request().Context()

	authenticated, err := h.auth.AuthenticateCustomer(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := h.server.Sessions.SetCustomer(c.Response(), c.Request(), authenticated.ID); err != nil {
		return nil, err
	}

	customer, err := h.customers.Retrieve(ctx, authenticated.ID)
	if err != nil {
		return nil, err
	}
	return &CustomerResponse{Customer: customer}, nil
}

// Logout ends the customer login. An admin login in the same session is
// kept. It succeeds without a session.
func (h *StoreAuthHandler) Logout(c echo.Context, _ *EmptyRequest) (*struct{}, error) {
	if err := h.server.Sessions.ClearCustomer(c.Response(), c.Request()); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

// Token exchanges credentials for a bearer token accepted on customer
// routes.
func (h *StoreAuthHandler) Token(c echo.Context, req *LoginRequest) (*TokenResponse, error) {
	customer, err := h.auth.AuthenticateCustomer(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := h.auth.IssueCustomerToken(customer)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token}, nil
}
