// Package repotest provides in-memory repositories for service and
// handler tests.
//
// The fakes mirror the observable behaviour of the pgx repositories:
// lookups that match nothing return repository.ErrNotFound and setting
// Err makes every call fail with it.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is a Transactor that runs fn directly and records the outcome.
type Tx struct {
	mu         sync.Mutex
	Calls      int
	Committed  int
	RolledBack int
}

var _ repository.Transactor = (*Tx)(nil)

func (t *Tx) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.DBTX) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()

	err := fn(ctx, nil)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.RolledBack++
	} else {
		t.Committed++
	}
	return err
}

type CurrencyRepo struct {
	mu         sync.Mutex
	Currencies map[string]*model.Currency
	Err        error
}

var _ repository.CurrencyRepository = (*CurrencyRepo)(nil)

func NewCurrencyRepo(currencies ...model.Currency) *CurrencyRepo {
	r := &CurrencyRepo{Currencies: map[string]*model.Currency{}}
	for i := range currencies {
		c := currencies[i]
		r.Currencies[c.Code] = &c
	}
	return r
}

func (r *CurrencyRepo) WithTx(repository.DBTX) repository.CurrencyRepository { return r }

func (r *CurrencyRepo) GetByCode(_ context.Context, code string) (*model.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.Currencies[strings.ToLower(code)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *CurrencyRepo) List(_ context.Context, filter model.CurrencyFilter) ([]model.Currency, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}

	matched := []model.Currency{}
	for _, c := range r.Currencies {
		q := strings.ToLower(filter.Q)
		if q != "" && !strings.Contains(c.Code, q) && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		if filter.Code != "" && c.Code != strings.ToLower(filter.Code) {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })

	count := len(matched)
	start := min(filter.Offset, count)
	end := count
	if filter.Limit > 0 {
		end = min(start+filter.Limit, count)
	}
	return matched[start:end], count, nil
}

func (r *CurrencyRepo) Update(_ context.Context, code string, update model.CurrencyUpdate) (*model.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.Currencies[strings.ToLower(code)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.IncludesTax != nil {
		c.IncludesTax = *update.IncludesTax
	}
	copied := *c
	return &copied, nil
}

type ShippingOptionRepo struct {
	mu      sync.Mutex
	Options map[string]*model.ShippingOption
	// InUse marks options referenced by an open order.
	InUse  map[string]bool
	Locked []string
	Err    error
}

var _ repository.ShippingOptionRepository = (*ShippingOptionRepo)(nil)

func NewShippingOptionRepo(options ...model.ShippingOption) *ShippingOptionRepo {
	r := &ShippingOptionRepo{
		Options: map[string]*model.ShippingOption{},
		InUse:   map[string]bool{},
	}
	for i := range options {
		o := options[i]
		r.Options[o.ID] = &o
	}
	return r
}

func (r *ShippingOptionRepo) WithTx(repository.DBTX) repository.ShippingOptionRepository { return r }

func (r *ShippingOptionRepo) get(id string) (*model.ShippingOption, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	o, ok := r.Options[id]
	if !ok || o.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *ShippingOptionRepo) GetByID(_ context.Context, id string) (*model.ShippingOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *ShippingOptionRepo) GetByIDForUpdate(_ context.Context, id string) (*model.ShippingOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Locked = append(r.Locked, id)
	return r.get(id)
}

func (r *ShippingOptionRepo) HasOpenOrderReferences(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	return r.InUse[id], nil
}

func (r *ShippingOptionRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(id); err != nil {
		return err
	}
	delete(r.Options, id)
	return nil
}

type CustomerRepo struct {
	mu        sync.Mutex
	Customers map[string]*model.Customer
	Err       error
	// Reads counts every lookup.
	Reads int
}

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func NewCustomerRepo(customers ...model.Customer) *CustomerRepo {
	r := &CustomerRepo{Customers: map[string]*model.Customer{}}
	for i := range customers {
		c := customers[i]
		r.Customers[c.ID] = &c
	}
	return r
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.Customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *CustomerRepo) GetRegisteredByEmail(_ context.Context, email string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	if r.Err != nil {
		return nil, r.Err
	}
	for _, c := range r.Customers {
		if c.HasAccount && strings.EqualFold(c.Email, email) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CustomerRepo) RegisteredEmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetRegisteredByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

type UserRepo struct {
	mu      sync.Mutex
	Users   map[string]*model.User
	Created []*model.User
	Err     error
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo(users ...model.User) *UserRepo {
	r := &UserRepo{Users: map[string]*model.User{}}
	for i := range users {
		u := users[i]
		r.Users[u.ID] = &u
	}
	return r
}

func (r *UserRepo) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.Users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepo) GetByAPIToken(_ context.Context, token string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.APIToken != nil && *u.APIToken == token })
}

func (r *UserRepo) Create(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.Users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, &pgconn.PgError{Code: "23505", TableName: "user", ConstraintName: "user_email_key"}
		}
	}
	r.Created = append(r.Created, user)
	r.Users[user.ID] = user
	return user, nil
}
