package grpc

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/logging"
	"github.com/dmitrijs2005/visitkeeper/internal/server/identity"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/dmitrijs2005/visitkeeper/internal/server/services"
)

// world is a tiny in-memory backend behind all four service fakes.
type world struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	pw       map[int64]string
	tokens   map[string]int64
	places   map[int64]*models.Place
	visits   map[int64]*models.Visit
	nextID   int64
	failWith error
}

func newWorld() *world {
	return &world{
		users:  map[int64]*models.User{},
		pw:     map[int64]string{},
		tokens: map[string]int64{},
		places: map[int64]*models.Place{},
		visits: map[int64]*models.Visit{},
	}
}

func (w *world) id() int64 {
	w.nextID++
	return w.nextID
}

func (w *world) server() *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, fakeUsers{w}, fakeSessions{w}, fakePlaces{w}, fakeVisits{w})
}

type fakeUsers struct{ w *world }

func (f fakeUsers) Register(_ context.Context, username, email, password, description string) (*models.User, error) {
	w := f.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failWith != nil {
		return nil, w.failWith
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
	}
	for _, u := range w.users {
		if u.UserName == username || u.Email == email {
			return nil, fmt.Errorf("%w: username or email is taken", common.ErrConflict)
		}
	}
	u := &models.User{ID: w.id(), UserName: username, Email: email, Description: description, CreatedAt: time.Now()}
	w.users[u.ID] = u
	w.pw[u.ID] = password
	c := *u
	return &c, nil
}

func (f fakeUsers) FindByID(_ context.Context, id int64) (*models.User, bool, error) {
	w := f.w
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.users[id]
	if !ok {
		return nil, false, nil
	}
	c := *u
	return &c, true, nil
}

func (f fakeUsers) UpdateDescription(_ context.Context, id int64, d string) error {
	w := f.w
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Description = d
	return nil
}

func (f fakeUsers) Authenticate(_ context.Context, email, password string) (*models.User, bool, error) {
	w := f.w
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, u := range w.users {
		if u.Email == email && w.pw[id] == password {
			c := *u
			return &c, true, nil
		}
	}
	return nil, false, nil
}

type fakeSessions struct{ w *world }

func (f fakeSessions) Login(ctx context.Context, h *identity.Holder, email, password string) (*services.Token, error) {
	ok, err := h.Login(ctx, fakeUsers(f), email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid email or password", common.ErrUnauthenticated)
	}
	id, _ := h.UserID()

	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	tok := fmt.Sprintf("token-%d-%d", id, f.w.id())
	f.w.tokens[tok] = id
	h.AttachSession(tok)
	return &services.Token{AccessToken: tok, SessionID: tok, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f fakeSessions) ResolveSession(_ context.Context, sid string) (*models.User, bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if f.w.failWith != nil {
		return nil, false, f.w.failWith
	}
	id, ok := f.w.tokens[sid]
	if !ok {
		return nil, false, nil
	}
	c := *f.w.users[id]
	return &c, true, nil
}

func (f fakeSessions) Resume(ctx context.Context, token string) (*identity.Holder, error) {
	h := identity.NewHolder()
	ok, err := h.Resume(ctx, f, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: session is no longer valid", common.ErrUnauthenticated)
	}
	return h, nil
}

func (f fakeSessions) Logout(_ context.Context, h *identity.Holder) error {
	f.w.mu.Lock()
	delete(f.w.tokens, h.SessionID())
	f.w.mu.Unlock()
	h.Logout()
	return nil
}

func (f fakeSessions) ChangePassword(ctx context.Context, h *identity.Holder, oldPw, newPw, confirm string) error {
	id, ok := h.UserID()
	if !ok {
		return common.ErrUnauthenticated
	}
	f.w.mu.Lock()
	if f.w.pw[id] != oldPw {
		f.w.mu.Unlock()
		return fmt.Errorf("%w: current password is incorrect", common.ErrAuthorization)
	}
	if newPw != confirm {
		f.w.mu.Unlock()
		return fmt.Errorf("%w: new password and confirmation differ", common.ErrValidation)
	}
	f.w.pw[id] = newPw
	f.w.mu.Unlock()
	return h.Refresh(ctx, fakeUsers(f))
}

type fakePlaces struct{ w *world }

func (f fakePlaces) AddPlace(_ context.Context, name, description string, lat, lon float64) (*models.Place, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: place name is required", common.ErrValidation)
	}
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	p := &models.Place{ID: f.w.id(), Name: name, Description: description, Latitude: lat, Longitude: lon}
	f.w.places[p.ID] = p
	c := *p
	return &c, nil
}

func (f fakePlaces) GetPlace(_ context.Context, id int64) (*models.Place, bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	p, ok := f.w.places[id]
	if !ok {
		return nil, false, nil
	}
	c := *p
	return &c, true, nil
}

func (f fakePlaces) ListPlaces(context.Context) ([]*models.Place, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []*models.Place{}
	for _, p := range f.w.places {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeVisits struct{ w *world }

func (f fakeVisits) RecordVisit(_ context.Context, userID, placeID int64, comment *string, rating *int) (*services.RecordResult, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if f.w.failWith != nil {
		return nil, f.w.failWith
	}
	if _, ok := f.w.places[placeID]; !ok {
		return nil, fmt.Errorf("%w: unknown place %d", common.ErrValidation, placeID)
	}
	res := &services.RecordResult{}
	for _, v := range f.w.visits {
		if v.UserID == userID && v.PlaceID == placeID {
			res.AlreadyVisited = true
		}
	}
	id := f.w.id()
	v := &models.Visit{ID: id, UserID: userID, PlaceID: placeID, Comment: comment, Rating: rating,
		CreatedAt: time.Unix(id, 0)}
	f.w.visits[id] = v
	c := *v
	res.Visit = &c
	return res, nil
}

func (f fakeVisits) filter(keep func(*models.Visit) bool) []*models.Visit {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []*models.Visit{}
	for _, v := range f.w.visits {
		if keep(v) {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f fakeVisits) ListAll(context.Context) ([]*models.Visit, error) {
	return f.filter(func(*models.Visit) bool { return true }), nil
}

func (f fakeVisits) ListByUser(_ context.Context, id int64) ([]*models.Visit, error) {
	return f.filter(func(v *models.Visit) bool { return v.UserID == id }), nil
}

func (f fakeVisits) ListByPlace(_ context.Context, id int64) ([]*models.Visit, error) {
	return f.filter(func(v *models.Visit) bool { return v.PlaceID == id }), nil
}

func (f fakeVisits) ListRecent(ctx context.Context, limit int) ([]*models.Visit, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", common.ErrValidation)
	}
	all, _ := f.ListAll(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f fakeVisits) DeleteVisit(_ context.Context, actorID, visitID int64) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	v, ok := f.w.visits[visitID]
	if !ok {
		return fmt.Errorf("%w: visit %d", common.ErrNotFound, visitID)
	}
	if v.UserID != actorID {
		return fmt.Errorf("%w: visit %d belongs to another user", common.ErrAuthorization, visitID)
	}
	delete(f.w.visits, visitID)
	return nil
}

func (f fakeVisits) UpdateVisit(_ context.Context, actorID, visitID int64, comment *string, rating *int) (*models.Visit, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	v, ok := f.w.visits[visitID]
	if !ok {
		return nil, fmt.Errorf("%w: visit %d", common.ErrNotFound, visitID)
	}
	if v.UserID != actorID {
		return nil, fmt.Errorf("%w: visit %d belongs to another user", common.ErrAuthorization, visitID)
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", common.ErrValidation)
	}
	v.Comment, v.Rating = comment, rating
	c := *v
	return &c, nil
}

func (f fakeVisits) HasVisited(_ context.Context, userID, placeID int64) (bool, error) {
	return len(f.filter(func(v *models.Visit) bool { return v.UserID == userID && v.PlaceID == placeID })) > 0, nil
}

func (f fakeVisits) PlaceStats(ctx context.Context, placeID int64) (*models.PlaceStats, error) {
	vs, _ := f.ListByPlace(ctx, placeID)
	st := &models.PlaceStats{PlaceID: placeID, VisitCount: int64(len(vs))}
	var sum, n int
	for _, v := range vs {
		if v.Rating != nil {
			sum += *v.Rating
			n++
		}
	}
	if n > 0 {
		st.AverageRating = float64(sum) / float64(n)
	}
	return st, nil
}
