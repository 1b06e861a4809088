// Package identity holds the per-request authenticated identity.
//
// A Holder starts Anonymous. The only ways to bind a user are Login, which
// goes through credential verification, and Resume, which rebinds a session
// that an earlier Login created.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Authenticator verifies credentials. A miss or bad password is (nil, false, nil).
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, bool, error)
}

// SessionResolver maps a live server session to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*models.User, bool, error)
}

// UserFinder re-reads a user record.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, bool, error)
}

type Holder struct {
	mu        sync.RWMutex
	user      *models.User
	sessionID string
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return Anonymous
	}
	return Authenticated
}

// User returns a copy of the bound user and whether one is bound.
func (h *Holder) User() (models.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return models.User{}, false
	}
	return *h.user, true
}

// UserID returns the bound user's id or 0.
func (h *Holder) UserID() (int64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return 0, false
	}
	return h.user.ID, true
}

func (h *Holder) SessionID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessionID
}

// Login verifies credentials through a and binds the user on success. A
// failed login leaves the holder unchanged.
func (h *Holder) Login(ctx context.Context, a Authenticator, email, password string) (bool, error) {
	u, ok, err := a.Authenticate(ctx, email, password)
	if err != nil || !ok {
		return false, err
	}
	h.bind(u, "")
	return true, nil
}

// Resume binds the user owning sessionID, if that session is live.
func (h *Holder) Resume(ctx context.Context, r SessionResolver, sessionID string) (bool, error) {
	u, ok, err := r.ResolveSession(ctx, sessionID)
	if err != nil || !ok {
		return false, err
	}
	h.bind(u, sessionID)
	return true, nil
}

// AttachSession records the server session that now backs an authenticated
// holder. It does nothing for an anonymous holder.
func (h *Holder) AttachSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.user != nil {
		h.sessionID = sessionID
	}
}

// Refresh re-reads the bound user. The binding is kept unless the user no
// longer exists, in which case the holder drops to Anonymous.
func (h *Holder) Refresh(ctx context.Context, f UserFinder) error {
	id, ok := h.UserID()
	if !ok {
		return common.ErrUnauthenticated
	}

	u, found, err := f.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		h.Logout()
		return fmt.Errorf("%w: user no longer exists", common.ErrUnauthenticated)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.user != nil && h.user.ID == u.ID {
		h.user = u
	}
	return nil
}

func (h *Holder) Logout() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = nil
	h.sessionID = ""
}

func (h *Holder) bind(u *models.User, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = u
	h.sessionID = sessionID
}

type ctxKey struct{}

func WithHolder(ctx context.Context, h *Holder) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext returns the holder stored in ctx or a fresh anonymous one.
func FromContext(ctx context.Context) *Holder {
	if h, ok := ctx.Value(ctxKey{}).(*Holder); ok && h != nil {
		return h
	}
	return NewHolder()
}
