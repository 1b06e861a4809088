package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/auth"
	"github.com/dmitrijs2005/visitkeeper/internal/server/identity"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	users    *UserService
	sessions *SessionService
	st       *memStore
	tx       func(bool)
	aliceID  int64
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	t.Cleanup(func() { require.NoError(t, mock.ExpectationsWereMet()) })

	st := newMemStore()
	rm := &fakeRepoManager{st}
	cfg := testConfig()
	users := NewUserService(db, rm, cfg)

	tx := func(commit bool) { expectTx(mock, commit) }
	tx(true)
	alice, err := users.Register(context.Background(), "alice", "alice@example.com", "secret1", "")
	require.NoError(t, err)

	return &sessionFixture{
		users:    users,
		sessions: NewSessionService(db, rm, users, cfg),
		st:       st,
		tx:       tx,
		aliceID:  alice.ID,
	}
}

func TestSessionLogin_Success(t *testing.T) {
	f := newSessionFixture(t)
	h := identity.NewHolder()

	tok, err := f.sessions.Login(context.Background(), h, "alice@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, identity.Authenticated, h.State())
	assert.Equal(t, tok.SessionID, h.SessionID())
	require.Contains(t, f.st.sessions, tok.SessionID)
	assert.Equal(t, f.aliceID, f.st.sessions[tok.SessionID].UserID)

	sub, err := auth.ParseToken(tok.AccessToken, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, f.aliceID, sub.UserID)
	assert.Equal(t, tok.SessionID, sub.SessionID)
}

func TestSessionLogin_FailuresLookTheSame(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	h := identity.NewHolder()
	_, errWrongPw := f.sessions.Login(ctx, h, "alice@example.com", "nope")
	assert.Equal(t, identity.Anonymous, h.State())

	_, errNoUser := f.sessions.Login(ctx, h, "ghost@example.com", "secret1")
	assert.Equal(t, identity.Anonymous, h.State())

	require.ErrorIs(t, errWrongPw, common.ErrUnauthenticated)
	require.ErrorIs(t, errNoUser, common.ErrUnauthenticated)
	assert.Equal(t, errWrongPw.Error(), errNoUser.Error())
	assert.Empty(t, f.st.sessions)
}

func TestSessionLogin_StoreErrorLeavesHolderAnonymous(t *testing.T) {
	f := newSessionFixture(t)
	h := identity.NewHolder()

	// Authenticate reads through the same store, so fail only the session write.
	svc := f.sessions
	svc.repomanager = &failingSessionsManager{fakeRepoManager{f.st}}

	_, err := svc.Login(context.Background(), h, "alice@example.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, identity.Anonymous, h.State())
}

func TestSessionResume(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	tok, err := f.sessions.Login(ctx, identity.NewHolder(), "alice@example.com", "secret1")
	require.NoError(t, err)

	h, err := f.sessions.Resume(ctx, tok.AccessToken)
	require.NoError(t, err)
	id, ok := h.UserID()
	require.True(t, ok)
	assert.Equal(t, f.aliceID, id)
	assert.Equal(t, tok.SessionID, h.SessionID())
}

func TestSessionResume_Rejects(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.sessions.Resume(ctx, "not-a-token")
		require.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("unknown session", func(t *testing.T) {
		tok, err := auth.GenerateToken(f.aliceID, "no-such-session", []byte("test-secret"), time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = f.sessions.Resume(ctx, tok)
		require.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("expired session is removed", func(t *testing.T) {
		tok, err := f.sessions.Login(ctx, identity.NewHolder(), "alice@example.com", "secret1")
		require.NoError(t, err)
		f.st.sessions[tok.SessionID].ExpiresAt = time.Now().Add(-time.Minute)

		_, err = f.sessions.Resume(ctx, tok.AccessToken)
		require.ErrorIs(t, err, common.ErrUnauthenticated)
		assert.NotContains(t, f.st.sessions, tok.SessionID)
	})

	t.Run("token for another user", func(t *testing.T) {
		tok, err := f.sessions.Login(ctx, identity.NewHolder(), "alice@example.com", "secret1")
		require.NoError(t, err)
		forged, err := auth.GenerateToken(f.aliceID+100, tok.SessionID, []byte("test-secret"), time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = f.sessions.Resume(ctx, forged)
		require.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("store failure is not unauthenticated", func(t *testing.T) {
		tok, err := f.sessions.Login(ctx, identity.NewHolder(), "alice@example.com", "secret1")
		require.NoError(t, err)

		f.st.err = errBoom{}
		defer func() { f.st.err = nil }()
		_, err = f.sessions.Resume(ctx, tok.AccessToken)
		require.ErrorIs(t, err, errBoom{})
	})
}

func TestSessionLogout_TokenBecomesUnusable(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	h := identity.NewHolder()
	tok, err := f.sessions.Login(ctx, h, "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.sessions.Logout(ctx, h))
	assert.Equal(t, identity.Anonymous, h.State())
	assert.Empty(t, f.st.sessions)

	_, err = f.sessions.Resume(ctx, tok.AccessToken)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	require.NoError(t, f.sessions.Logout(ctx, identity.NewHolder()))
}

func TestSessionChangePassword_KeepsHolderWithNewHash(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	h := identity.NewHolder()
	_, err := f.sessions.Login(ctx, h, "alice@example.com", "secret1")
	require.NoError(t, err)
	before, _ := h.User()

	f.tx(true)
	require.NoError(t, f.sessions.ChangePassword(ctx, h, "secret1", "secret2", "secret2"))

	assert.Equal(t, identity.Authenticated, h.State())
	after, _ := h.User()
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)
	ok, err := auth.CheckPassword(after.PasswordHash, "secret2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionChangePassword_Errors(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	err := f.sessions.ChangePassword(ctx, identity.NewHolder(), "secret1", "secret2", "secret2")
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	h := identity.NewHolder()
	_, err = f.sessions.Login(ctx, h, "alice@example.com", "secret1")
	require.NoError(t, err)

	f.tx(false)
	err = f.sessions.ChangePassword(ctx, h, "wrong", "secret2", "secret2")
	require.ErrorIs(t, err, common.ErrAuthorization)
	assert.Equal(t, identity.Authenticated, h.State())
}

type failingSessionsManager struct{ fakeRepoManager }

func (m *failingSessionsManager) Sessions(db dbx.DBTX) sessions.Repository {
	return &fakeSessions{&memStore{err: errBoom{}}}
}
