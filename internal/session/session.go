// Package session manages cookie sessions for admin users and storefront
// customers.
//
// Session payloads live in Redis (see RedisStore); the cookie only
// carries the signed session id.
package session

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	customerIDKey = "customer_id"
	userIDKey     = "user_id"
)

// idDeleter is implemented by stores that keep session state server side.
type idDeleter interface {
	Delete(ctx context.Context, id string) error
}

// Manager reads and writes the authenticated identities stored in the
// session.
type Manager struct {
	store sessions.Store
	name  string
}

func NewManager(store sessions.Store, name string) *Manager {
	return &Manager{store: store, name: name}
}

func (m *Manager) session(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

func (m *Manager) stringValue(r *http.Request, key string) (string, bool) {
	sess, err := m.session(r)
	if err != nil {
		return "", false
	}
	value, ok := sess.Values[key].(string)
	return value, ok && value != ""
}

// CustomerID returns the logged in customer, if any.
func (m *Manager) CustomerID(r *http.Request) (string, bool) {
	return m.stringValue(r, customerIDKey)
}

// UserID returns the logged in admin user, if any.
func (m *Manager) UserID(r *http.Request) (string, bool) {
	return m.stringValue(r, userIDKey)
}

// SetCustomer binds customerID to the session and writes the cookie.
func (m *Manager) SetCustomer(w http.ResponseWriter, r *http.Request, customerID string) error {
	return m.set(w, r, customerIDKey, customerID)
}

// SetUser binds userID to the session and writes the cookie.
func (m *Manager) SetUser(w http.ResponseWriter, r *http.Request, userID string) error {
	return m.set(w, r, userIDKey, userID)
}

func (m *Manager) set(w http.ResponseWriter, r *http.Request, key, value string) error {
	// A cookie that no longer decodes yields a fresh session alongside the
	// error; logging in again should replace it.
	sess, _ := m.session(r)
	if sess == nil {
		sess = sessions.NewSession(m.store, m.name)
	}

	if err := m.rotate(r.Context(), sess); err != nil {
		return err
	}

	sess.Values[key] = value
	return sess.Save(r, w)
}

// rotate drops the current session id so Save issues a new one. The old id
// is removed from the store and a cookie captured before login no longer
// resolves. Values carry over, so the other realm stays logged in.
func (m *Manager) rotate(ctx context.Context, sess *sessions.Session) error {
	if sess.ID == "" {
		return nil
	}
	if store, ok := m.store.(idDeleter); ok {
		if err := store.Delete(ctx, sess.ID); err != nil {
			return err
		}
	}
	sess.ID = ""
	return nil
}

// ClearCustomer logs the customer out. An admin login sharing the session
// is kept; an otherwise empty session is destroyed.
func (m *Manager) ClearCustomer(w http.ResponseWriter, r *http.Request) error {
	return m.clear(w, r, customerIDKey)
}

// ClearUser logs the admin user out, keeping any customer login.
func (m *Manager) ClearUser(w http.ResponseWriter, r *http.Request) error {
	return m.clear(w, r, userIDKey)
}

func (m *Manager) clear(w http.ResponseWriter, r *http.Request, key string) error {
	sess, err := m.session(r)
	if err != nil || sess == nil || sess.IsNew {
		return m.Destroy(w, r)
	}

	delete(sess.Values, key)
	if len(sess.Values) == 0 {
		return m.Destroy(w, r)
	}
	return sess.Save(r, w)
}

// Destroy removes the session from the store and expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.session(r)
	if err != nil || sess == nil || sess.IsNew {
		http.SetCookie(w, &http.Cookie{Name: m.name, Path: "/", MaxAge: -1, HttpOnly: true})
		return nil
	}

	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
