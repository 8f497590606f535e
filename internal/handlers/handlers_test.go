package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/C241-PS090/backend-api/internal/services"
	"github.com/C241-PS090/backend-api/internal/storage"
	"github.com/C241-PS090/backend-api/internal/store"
	"github.com/C241-PS090/backend-api/types"
)

const testSecret = "test-secret"

// memUserRepo is an in-memory services.UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]types.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]types.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now()
	user.ID = fmt.Sprintf("user-%d", m.seq)
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) GetByToken(ctx context.Context, token string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Token != nil && *user.Token == token {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) List(ctx context.Context) ([]types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []types.User{}
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *memUserRepo) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Gender != nil {
		user.Gender = update.Gender
	}
	if update.Age != nil {
		user.Age = update.Age
	}
	if update.ProfilePictureURL != nil {
		user.ProfilePictureURL = update.ProfilePictureURL
	}
	user.UpdatedAt = time.Now()
	m.users[id] = user
	return user, nil
}

func (m *memUserRepo) SetToken(ctx context.Context, id string, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Token = token
	m.users[id] = user
	return nil
}

// memPredictionRepo is an in-memory services.PredictionRepository.
type memPredictionRepo struct {
	predictions []types.Prediction
}

func (m *memPredictionRepo) ListByUserID(ctx context.Context, userID string) ([]types.Prediction, error) {
	out := []types.Prediction{}
	for _, p := range m.predictions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPredictionRepo) Create(ctx context.Context, p types.Prediction) (types.Prediction, error) {
	m.predictions = append(m.predictions, p)
	return p, nil
}

// memObjectStorage is an in-memory storage.ObjectStorage.
type memObjectStorage struct {
	objects map[string][]byte
	deleted []string
}

func newMemObjectStorage() *memObjectStorage {
	return &memObjectStorage{objects: map[string][]byte{}}
}

func (m *memObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (m *memObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memObjectStorage) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return nil
}

func (m *memObjectStorage) PublicURL(key string) string {
	return "https://storage.googleapis.com/test-bucket/" + key
}

func (m *memObjectStorage) Bucket() string { return "test-bucket" }

type testEnv struct {
	router      http.Handler
	users       *memUserRepo
	predictions *memPredictionRepo
	objects     *memObjectStorage
}

// newTestEnv wires the handlers onto a router the way the server does,
// backed by in-memory fakes.
func newTestEnv() *testEnv {
	log := logrus.New()
	log.SetOutput(io.Discard)

	users := newMemUserRepo()
	predictions := &memPredictionRepo{}
	objects := newMemObjectStorage()

	userService := services.NewUserService(users)
	predictionService := services.NewPredictionService(predictions, log)
	pictureService := services.NewProfilePictureService(storage.NewStorage(objects), log)

	authHandler := NewAuthHandler(userService, testSecret)
	userHandler := NewUserHandler(userService, pictureService)
	predictionHandler := NewPredictionHandler(predictionService)
	requireAuth := RequireAuth(testSecret)

	router := chi.NewRouter()
	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)
	router.Delete("/logout", authHandler.Logout)
	router.Route("/users", func(r chi.Router) {
		r.With(requireAuth).Get("/", userHandler.ListUsers)
		r.Route("/{userID}", func(r chi.Router) {
			r.With(requireAuth).Get("/", userHandler.GetUser)
			r.With(requireAuth).Put("/", userHandler.UpdateProfile)
			r.Get("/predictions", predictionHandler.ListByUser)
		})
	})

	return &testEnv{
		router:      router,
		users:       users,
		predictions: predictions,
		objects:     objects,
	}
}
