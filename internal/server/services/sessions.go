package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/server/auth"
	"github.com/dmitrijs2005/visitkeeper/internal/server/config"
	"github.com/dmitrijs2005/visitkeeper/internal/server/identity"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Token is what a client presents on every authenticated call.
type Token struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
}

// SessionService ties an identity.Holder to a server-side session and the
// signed access token that names it.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *UserService
	jwtSecret   []byte
	validity    time.Duration
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, users *UserService, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		users:       users,
		jwtSecret:   []byte(cfg.SecretKey),
		validity:    cfg.SessionValidityDuration,
		now:         time.Now,
	}
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", common.ErrUnauthenticated)

// Login authenticates through holder and, on success, opens a session and
// returns its token. Unknown email and wrong password fail identically.
func (s *SessionService) Login(ctx context.Context, holder *identity.Holder, email, password string) (*Token, error) {
	ok, err := holder.Login(ctx, s.users, email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errBadCredentials
	}

	userID, _ := holder.UserID()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.validity).UTC().Truncate(time.Second),
	}
	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		holder.Logout()
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	access, err := auth.GenerateToken(userID, session.ID, s.jwtSecret, session.ExpiresAt)
	if err != nil {
		holder.Logout()
		return nil, fmt.Errorf("error signing token: %w", err)
	}

	holder.AttachSession(session.ID)
	return &Token{AccessToken: access, SessionID: session.ID, ExpiresAt: session.ExpiresAt}, nil
}

// Resume validates an access token and returns a holder bound to the
// session's user. Any unusable token or session is ErrUnauthenticated.
func (s *SessionService) Resume(ctx context.Context, token string) (*identity.Holder, error) {
	sub, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthenticated, err)
	}

	holder := identity.NewHolder()
	ok, err := holder.Resume(ctx, s, sub.SessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: session is no longer valid", common.ErrUnauthenticated)
	}

	if id, _ := holder.UserID(); id != sub.UserID {
		return nil, fmt.Errorf("%w: token does not match session", common.ErrUnauthenticated)
	}
	return holder, nil
}

// ResolveSession implements identity.SessionResolver. Expired sessions are
// removed and reported as a miss.
func (s *SessionService) ResolveSession(ctx context.Context, sessionID string) (*models.User, bool, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if session.Expired(s.now()) {
		if err := repo.Delete(ctx, sessionID); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return s.users.FindByID(ctx, session.UserID)
}

// Logout ends the holder's session. An anonymous holder is left as is.
func (s *SessionService) Logout(ctx context.Context, holder *identity.Holder) error {
	if holder.State() == identity.Anonymous {
		return nil
	}
	if sid := holder.SessionID(); sid != "" {
		if err := s.repomanager.Sessions(s.db).Delete(ctx, sid); err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
	}
	holder.Logout()
	return nil
}

// ChangePassword changes the bound user's password and refreshes the holder
// so it carries the new hash.
func (s *SessionService) ChangePassword(ctx context.Context, holder *identity.Holder, oldPassword, newPassword, confirmPassword string) error {
	userID, ok := holder.UserID()
	if !ok {
		return fmt.Errorf("%w: login required", common.ErrUnauthenticated)
	}
	if err := s.users.ChangePassword(ctx, userID, oldPassword, newPassword, confirmPassword); err != nil {
		return err
	}
	return holder.Refresh(ctx, s.users)
}
