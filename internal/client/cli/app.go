package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/api"
	"github.com/dmitrijs2005/visitkeeper/internal/client/client"
	"github.com/dmitrijs2005/visitkeeper/internal/client/config"
	"github.com/dmitrijs2005/visitkeeper/internal/client/state"
	"github.com/dmitrijs2005/visitkeeper/internal/filex"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// apiClient is the part of client.GRPCClient the commands use.
type apiClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, email string, password []byte, description string) (*api.RegisterResponse, error)
	Login(ctx context.Context, email string, password []byte) (*api.LoginResponse, error)
	Logout(ctx context.Context) (*api.LogoutResponse, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirm []byte) (*api.ChangePasswordResponse, error)
	Me(ctx context.Context) (*api.User, error)
	UpdateDescription(ctx context.Context, description string) (*api.UpdateDescriptionResponse, error)
	AddPlace(ctx context.Context, name, description string, lat, lon float64) (*api.AddPlaceResponse, error)
	GetPlace(ctx context.Context, id int64) (*api.Place, error)
	ListPlaces(ctx context.Context) ([]api.Place, error)
	RecordVisit(ctx context.Context, placeID int64, comment *string, rating *int) (*api.RecordVisitResponse, error)
	ListVisits(ctx context.Context, req *api.ListVisitsRequest) ([]api.Visit, error)
	DeleteVisit(ctx context.Context, id int64) (*api.DeleteVisitResponse, error)
	UpdateVisit(ctx context.Context, id int64, comment *string, rating *int) (*api.UpdateVisitResponse, error)
	HasVisited(ctx context.Context, userID, placeID int64) (bool, error)
	PlaceStats(ctx context.Context, placeID int64) (*api.PlaceStatsResponse, error)
	AccessToken() string
	SetAccessToken(token string)
	Close() error
}

type sessionStore interface {
	Save(ctx context.Context, sess *state.Session) error
	Load(ctx context.Context) (*state.Session, bool, error)
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	config *config.Config
	client apiClient
	store  sessionStore
	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	userName string
	mode     Mode
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	path, err := filex.StatePath(c.StatePath, ".visitkeeper", "state.db")
	if err != nil {
		return nil, err
	}

	store, err := state.Open(ctx, path)
	if err != nil {
		log.Printf("error opening local state: %s", err.Error())
		return nil, err
	}

	grpcClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.CallTimeout)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		config: c,
		client: grpcClient,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintln(a.out, "visitkeeper CLI (type 'help' for commands)")
	a.resume(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	if err := a.client.Close(); err != nil {
		log.Printf("close client: %v", err)
	}
	if err := a.store.Close(); err != nil {
		log.Printf("close state: %v", err)
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	return a.client.AccessToken() != ""
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// resume picks up the session saved by an earlier run. A token the server
// rejects is forgotten; an unreachable server keeps it for later.
func (a *App) resume(ctx context.Context) {
	sess, ok, err := a.store.Load(ctx)
	if err != nil {
		log.Printf("load session: %v", err)
		return
	}
	if !ok {
		return
	}

	a.client.SetAccessToken(sess.AccessToken)
	me, err := a.client.Me(ctx)
	switch {
	case err == nil:
		a.setUser(me.Username)
		a.setMode(ModeOnline)
		fmt.Fprintf(a.out, "Welcome back, %s\n", me.Username)
	case errors.Is(err, client.ErrUnavailable):
		a.setUser(sess.Username)
		a.setMode(ModeOffline)
	default:
		a.client.SetAccessToken("")
		if err := a.store.Clear(ctx); err != nil {
			log.Printf("clear session: %v", err)
		}
		fmt.Fprintln(a.out, "Saved session expired, please login")
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
