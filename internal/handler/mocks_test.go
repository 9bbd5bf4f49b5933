package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviehub/catalog/internal/config"
	"github.com/moviehub/catalog/internal/handler"
	"github.com/moviehub/catalog/internal/queue"
	"github.com/moviehub/catalog/internal/repository"
	"github.com/moviehub/catalog/internal/router"
	"github.com/moviehub/catalog/internal/utils"
)

const testSecret = "handler-test-secret"

// ----- in-memory stores -----

type fakeUserStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]repository.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, name, email, password, role string, cost int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.seq++
	now := time.Now().UTC()
	s.users[s.seq] = repository.User{
		ID: s.seq, Name: name, Email: email, PasswordHash: hash, Role: role,
		CreatedAt: now, UpdatedAt: now,
	}
	return s.seq, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserStore) Update(_ context.Context, id uint64, name, email, password, role string, cost int) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, other := range s.users {
		if other.ID != id && other.Email == email {
			return repository.User{}, repository.ErrEmailExists
		}
	}
	u.Name, u.Email = name, email
	if password != "" {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return repository.User{}, err
		}
		u.PasswordHash = hash
	}
	if role != "" {
		u.Role = role
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeMovieStore struct {
	mu         sync.Mutex
	seq        uint64
	movies     map[uint64]repository.Movie
	categories map[uint64]string
	referenced map[uint64]bool // movie ids held by order items
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{
		movies:     map[uint64]repository.Movie{},
		categories: map[uint64]string{1: "Drama", 2: "Sci-Fi"},
		referenced: map[uint64]bool{},
	}
}

func (s *fakeMovieStore) add(title string, categoryID uint64, price uint32) repository.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	m := repository.Movie{
		ID: s.seq, Title: title, Description: title + " description",
		PriceCents: price, CategoryID: categoryID, CategoryName: s.categories[categoryID],
	}
	s.movies[m.ID] = m
	return m
}

func (s *fakeMovieStore) List(_ context.Context) ([]repository.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeMovieStore) GetByID(_ context.Context, id uint64) (repository.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return repository.Movie{}, repository.ErrMovieNotFound
	}
	return m, nil
}

func (s *fakeMovieStore) Create(_ context.Context, m *repository.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.categories[m.CategoryID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	s.seq++
	m.ID = s.seq
	m.CategoryName = name
	s.movies[m.ID] = *m
	return nil
}

func (s *fakeMovieStore) Update(_ context.Context, m *repository.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[m.ID]; !ok {
		return repository.ErrMovieNotFound
	}
	name, ok := s.categories[m.CategoryID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	m.CategoryName = name
	s.movies[m.ID] = *m
	return nil
}

func (s *fakeMovieStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[id]; !ok {
		return repository.ErrMovieNotFound
	}
	if s.referenced[id] {
		return repository.ErrMovieReferenced
	}
	delete(s.movies, id)
	return nil
}

type fakeCategoryStore struct{ movies *fakeMovieStore }

func (s *fakeCategoryStore) List(_ context.Context) ([]repository.Category, error) {
	s.movies.mu.Lock()
	defer s.movies.mu.Unlock()
	out := make([]repository.Category, 0, len(s.movies.categories))
	for id, name := range s.movies.categories {
		out = append(out, repository.Category{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type favKey struct{ userID, movieID uint64 }

type fakeFavoriteStore struct {
	mu     sync.Mutex
	seq    uint64
	pairs  map[favKey]repository.Favorite
	movies *fakeMovieStore
}

func newFakeFavoriteStore(movies *fakeMovieStore) *fakeFavoriteStore {
	return &fakeFavoriteStore{pairs: map[favKey]repository.Favorite{}, movies: movies}
}

func (s *fakeFavoriteStore) Add(ctx context.Context, userID, movieID uint64) (repository.Favorite, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return repository.Favorite{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := favKey{userID, movieID}
	if _, ok := s.pairs[k]; ok {
		return repository.Favorite{}, repository.ErrAlreadyFavorited
	}
	s.seq++
	f := repository.Favorite{ID: s.seq, UserID: userID, MovieID: movieID, CreatedAt: time.Now().UTC()}
	s.pairs[k] = f
	return f, nil
}

func (s *fakeFavoriteStore) Remove(_ context.Context, userID, movieID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := favKey{userID, movieID}
	if _, ok := s.pairs[k]; !ok {
		return repository.ErrFavoriteNotFound
	}
	delete(s.pairs, k)
	return nil
}

func (s *fakeFavoriteStore) ListByUser(ctx context.Context, userID uint64) ([]repository.Movie, error) {
	s.mu.Lock()
	favs := make([]repository.Favorite, 0)
	for k, f := range s.pairs {
		if k.userID == userID {
			favs = append(favs, f)
		}
	}
	s.mu.Unlock()
	sort.Slice(favs, func(i, j int) bool { return favs[i].ID < favs[j].ID })

	out := make([]repository.Movie, 0, len(favs))
	for _, f := range favs {
		m, err := s.movies.GetByID(ctx, f.MovieID)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	seq    uint64
	orders []repository.Order
	movies *fakeMovieStore
}

func newFakeOrderStore(movies *fakeMovieStore) *fakeOrderStore {
	return &fakeOrderStore{movies: movies}
}

func (s *fakeOrderStore) Create(ctx context.Context, userID uint64, items []repository.OrderItemInput) (repository.Order, error) {
	if len(items) == 0 {
		return repository.Order{}, repository.ErrEmptyOrder
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	o := repository.Order{ID: s.seq, UserID: userID, CreatedAt: time.Now().UTC()}
	for i, in := range items {
		m, err := s.movies.GetByID(ctx, in.MovieID)
		if err != nil {
			return repository.Order{}, err
		}
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		o.Items = append(o.Items, repository.OrderItem{
			ID: s.seq*100 + uint64(i), OrderID: o.ID,
			MovieID: m.ID, MovieTitle: m.Title, Quantity: qty, PriceCents: m.PriceCents,
		})
		o.TotalCents += uint64(m.PriceCents) * uint64(qty)
		s.movies.referenced[m.ID] = true
	}
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, userID uint64) ([]repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			out = append(out, s.orders[i])
		}
	}
	return out, nil
}

// ----- app wiring -----

type testApp struct {
	e         *echo.Echo
	users     *fakeUserStore
	movies    *fakeMovieStore
	favorites *fakeFavoriteStore
	orders    *fakeOrderStore
	published []queue.OrderPlacedEvent
}

// newTestApp wires the real handlers, router and guard middleware on top
// of in-memory stores, so requests exercise the same path production does.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		JWTSecret:    testSecret,
		TokenTTLDays: 7,
		BcryptCost:   bcrypt.MinCost, // keep hashing cheap in tests
	}

	app := &testApp{
		e:      echo.New(),
		users:  newFakeUserStore(),
		movies: newFakeMovieStore(),
	}
	app.favorites = newFakeFavoriteStore(app.movies)
	app.orders = newFakeOrderStore(app.movies)

	authH := handler.NewAuthHandler(cfg, app.users)
	catalogH := handler.NewCatalogHandler(app.movies, &fakeCategoryStore{movies: app.movies})
	favoriteH := handler.NewFavoriteHandler(app.favorites, app.movies)
	orderH := handler.NewOrderHandler(app.orders, func(_ context.Context, ev queue.OrderPlacedEvent) error {
		app.published = append(app.published, ev)
		return nil
	})
	adminH := handler.NewAdminUserHandler(cfg, app.users)

	router.RegisterPublic(app.e, authH, catalogH)
	router.RegisterAuthenticated(app.e, authH, favoriteH, orderH, cfg.JWTSecret)
	router.RegisterAdmin(app.e, adminH, catalogH, cfg.JWTSecret)
	return app
}

// do performs a request against the app, optionally with a bearer token
// and a JSON body.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns its id.
func (a *testApp) register(t *testing.T, name, email, password string) uint64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/register", "", echo.Map{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

// login authenticates through the API and returns the token.
func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/login", "", echo.Map{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

// adminToken creates an admin directly in the store and returns a token
// for it.
func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	id, err := a.users.Create(context.Background(), "Root", "root@x.com", "rootpass", repository.RoleAdmin, bcrypt.MinCost)
	require.NoError(t, err)
	tok, err := utils.NewAuthToken(testSecret, id, "root@x.com", repository.RoleAdmin, 7)
	require.NoError(t, err)
	return tok.Token
}
