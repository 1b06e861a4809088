package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/config"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/places"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/visits"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func testConfig() *config.Config {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.SecretKey = "test-secret"
	cfg.SessionValidityDuration = time.Hour
	return &cfg
}

// --- in-memory repositories ---

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type memStore struct {
	users     map[int64]*models.User
	places    map[int64]*models.Place
	visits    map[int64]*models.Visit
	sessions  map[string]*models.Session
	nextID    int64
	err       error
	visitsErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*models.User{},
		places:   map[int64]*models.Place{},
		visits:   map[int64]*models.Visit{},
		sessions: map[string]*models.Session{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addPlace(name string) *models.Place {
	p := &models.Place{ID: m.id(), Name: name, CreatedAt: epoch}
	m.places[p.ID] = p
	return p
}

type fakeRepoManager struct{ st *memStore }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return &fakeUsers{f.st} }
func (f *fakeRepoManager) Places(dbx.DBTX) places.Repository          { return &fakePlaces{f.st} }
func (f *fakeRepoManager) Visits(dbx.DBTX) visits.Repository          { return &fakeVisits{f.st} }
func (f *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository      { return &fakeSessions{f.st} }

type fakeUsers struct{ st *memStore }

func (r *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.st.err != nil {
		return nil, r.st.err
	}
	for _, e := range r.st.users {
		if e.UserName == u.UserName || e.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	c := *u
	c.ID = r.st.id()
	c.CreatedAt = epoch
	r.st.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	if r.st.err != nil {
		return nil, r.st.err
	}
	for _, u := range r.st.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUsers) GetByUserName(_ context.Context, name string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.UserName == name })
}

func (r *fakeUsers) List(context.Context) ([]*models.User, error) {
	if r.st.err != nil {
		return nil, r.st.err
	}
	out := make([]*models.User, 0, len(r.st.users))
	for _, u := range r.st.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUsers) update(id int64, fn func(*models.User)) error {
	if r.st.err != nil {
		return r.st.err
	}
	u, ok := r.st.users[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(u)
	return nil
}

func (r *fakeUsers) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	return r.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (r *fakeUsers) UpdateDescription(_ context.Context, id int64, d string) error {
	return r.update(id, func(u *models.User) { u.Description = d })
}

func (r *fakeUsers) Delete(_ context.Context, id int64) error {
	if r.st.err != nil {
		return r.st.err
	}
	if _, ok := r.st.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.st.users, id)
	for vid, v := range r.st.visits {
		if v.UserID == id {
			delete(r.st.visits, vid)
		}
	}
	return nil
}

type fakePlaces struct{ st *memStore }

func (r *fakePlaces) Create(_ context.Context, p *models.Place) (*models.Place, error) {
	if r.st.err != nil {
		return nil, r.st.err
	}
	c := *p
	c.ID = r.st.id()
	c.CreatedAt = epoch
	r.st.places[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakePlaces) GetByID(_ context.Context, id int64) (*models.Place, error) {
	if r.st.err != nil {
		return nil, r.st.err
	}
	p, ok := r.st.places[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakePlaces) Exists(_ context.Context, id int64) (bool, error) {
	if r.st.err != nil {
		return false, r.st.err
	}
	_, ok := r.st.places[id]
	return ok, nil
}

func (r *fakePlaces) List(context.Context) ([]*models.Place, error) {
	if r.st.err != nil {
		return nil, r.st.err
	}
	out := make([]*models.Place, 0, len(r.st.places))
	for _, p := range r.st.places {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeVisits struct{ st *memStore }

func (r *fakeVisits) fail() error {
	if r.st.visitsErr != nil {
		return r.st.visitsErr
	}
	return r.st.err
}

func (r *fakeVisits) Create(_ context.Context, v *models.Visit) (*models.Visit, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	c := *v
	c.ID = r.st.id()
	c.CreatedAt = epoch.Add(time.Duration(c.ID) * time.Second)
	r.st.visits[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeVisits) GetByID(_ context.Context, id int64) (*models.Visit, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	v, ok := r.st.visits[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *v
	return &c, nil
}

func (r *fakeVisits) Delete(_ context.Context, id int64) error {
	if err := r.fail(); err != nil {
		return err
	}
	if _, ok := r.st.visits[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.st.visits, id)
	return nil
}

func (r *fakeVisits) UpdateNotes(_ context.Context, id int64, comment *string, rating *int) (*models.Visit, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	v, ok := r.st.visits[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	v.Comment, v.Rating = comment, rating
	c := *v
	return &c, nil
}

func (r *fakeVisits) Exists(_ context.Context, userID, placeID int64) (bool, error) {
	if err := r.fail(); err != nil {
		return false, err
	}
	for _, v := range r.st.visits {
		if v.UserID == userID && v.PlaceID == placeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVisits) filter(keep func(*models.Visit) bool) ([]*models.Visit, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	out := []*models.Visit{}
	for _, v := range r.st.visits {
		if keep(v) {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeVisits) ListAll(context.Context) ([]*models.Visit, error) {
	return r.filter(func(*models.Visit) bool { return true })
}

func (r *fakeVisits) ListByUser(_ context.Context, userID int64) ([]*models.Visit, error) {
	return r.filter(func(v *models.Visit) bool { return v.UserID == userID })
}

func (r *fakeVisits) ListByPlace(_ context.Context, placeID int64) ([]*models.Visit, error) {
	return r.filter(func(v *models.Visit) bool { return v.PlaceID == placeID })
}

func (r *fakeVisits) ListRecent(ctx context.Context, limit int) ([]*models.Visit, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeVisits) CountForPlace(ctx context.Context, placeID int64) (int64, error) {
	vs, err := r.ListByPlace(ctx, placeID)
	return int64(len(vs)), err
}

func (r *fakeVisits) AverageRatingForPlace(ctx context.Context, placeID int64) (float64, error) {
	vs, err := r.ListByPlace(ctx, placeID)
	if err != nil {
		return 0, err
	}
	var sum, n int
	for _, v := range vs {
		if v.Rating != nil {
			sum += *v.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

type fakeSessions struct{ st *memStore }

func (r *fakeSessions) Create(_ context.Context, s *models.Session) error {
	if r.st.err != nil {
		return r.st.err
	}
	c := *s
	c.CreatedAt = epoch
	r.st.sessions[s.ID] = &c
	s.CreatedAt = c.CreatedAt
	return nil
}

func (r *fakeSessions) Find(_ context.Context, id string) (*models.Session, error) {
	if r.st.err != nil {
		return nil, r.st.err
	}
	s, ok := r.st.sessions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (r *fakeSessions) Delete(_ context.Context, id string) error {
	if r.st.err != nil {
		return r.st.err
	}
	delete(r.st.sessions, id)
	return nil
}
