package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/commerce/internal/errs"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository"
	"github.com/deppfellow/commerce/internal/sqlerr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

const (
	RealmAdmin = "admin"
	RealmStore = "store"

	tokenIssuer   = "commerce"
	tokenAudience = "store"
)

// CustomerClaims are carried by storefront bearer tokens.
type CustomerClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// AuthService checks credentials for admin users and storefront
// customers and issues customer bearer tokens.
type AuthService struct {
	users     repository.UserRepository
	customers repository.CustomerRepository
	secret    []byte
	tokenTTL  time.Duration
	attempts  *prometheus.CounterVec
	now       func() time.Time
}

// NewAuthService builds the service. attempts may be nil.
func NewAuthService(
	users repository.UserRepository,
	customers repository.CustomerRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	attempts *prometheus.CounterVec,
) *AuthService {
	return &AuthService{
		users:     users,
		customers: customers,
		secret:    []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		attempts:  attempts,
		now:       time.Now,
	}
}

func invalidCredentials() error {
	return errs.NewUnauthorizedError("Invalid email or password", true)
}

func (s *AuthService) record(realm string, ok bool) {
	if s.attempts == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	s.attempts.WithLabelValues(realm, outcome).Inc()
}

// checkPassword compares against a real hash even when the account is
// missing so both cases take the same time.
func checkPassword(hash *string, password string) bool {
	if hash == nil || *hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("commerce-dummy-password"), bcrypt.DefaultCost)

// AuthenticateCustomer verifies a registered customer's credentials.
func (s *AuthService) AuthenticateCustomer(ctx context.Context, email, password string) (*model.Customer, error) {
	customer, err := s.customers.GetRegisteredByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, sqlerr.HandleError(err)
	}

	var hash *string
	if customer != nil {
		hash = customer.PasswordHash
	}
	if !checkPassword(hash, password) {
		s.record(RealmStore, false)
		return nil, invalidCredentials()
	}

	s.record(RealmStore, true)
	return customer, nil
}

// AuthenticateUser verifies an admin user's credentials.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, sqlerr.HandleError(err)
	}

	var hash *string
	if user != nil {
		hash = user.PasswordHash
	}
	if !checkPassword(hash, password) {
		s.record(RealmAdmin, false)
		return nil, invalidCredentials()
	}

	s.record(RealmAdmin, true)
	return user, nil
}

// UserByAPIToken resolves an admin bearer token.
func (s *AuthService) UserByAPIToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	user, err := s.users.GetByAPIToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return user, nil
}

// RetrieveUser loads the admin user bound to a session.
func (s *AuthService) RetrieveUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NewNotFoundError(fmt.Sprintf("User with id: %s was not found", id), true, nil)
	}
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return user, nil
}

// IssueCustomerToken signs an HS256 token for customer.
func (s *AuthService) IssueCustomerToken(customer *model.Customer) (string, error) {
	now := s.now()
	claims := CustomerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customer.ID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			ID:        uuid.NewString(),
		},
		Email: customer.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing customer token: %w", err)
	}
	return signed, nil
}

// ParseCustomerToken validates a token and returns the customer id it
// was issued for. It does not touch the database.
func (s *AuthService) ParseCustomerToken(tokenString string) (string, error) {
	claims := &CustomerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", errs.NewUnauthorizedError("Unauthorized", false)
	}
	return claims.Subject, nil
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CreateUserInput describes an admin user created from the command line.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      model.UserRole
}

// CreateUser stores a new admin user with a hashed password and a fresh
// API token. The token is returned in the user's APIToken field.
func (s *AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	token, err := newAPIToken()
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.UserRoleAdmin
	}

	user := &model.User{
		ID:           "usr_" + uuid.NewString(),
		Email:        in.Email,
		FirstName:    optionalString(in.FirstName),
		LastName:     optionalString(in.LastName),
		Role:         role,
		PasswordHash: &hash,
		APIToken:     &token,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return created, nil
}

func newAPIToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating api token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
