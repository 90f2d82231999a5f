package services_test

import (
	"context"
	"net/url"

	"marketspace/internal/backend"
	"marketspace/internal/models"
	"marketspace/internal/repositories"
	"marketspace/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockBackendAPI is a mock implementation of backend.API.
type MockBackendAPI struct {
	mock.Mock
}

func (m *MockBackendAPI) SignIn(ctx context.Context, email, password string) (*backend.SessionResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.SessionResult), args.Error(1)
}

func (m *MockBackendAPI) CreateUser(ctx context.Context, input backend.CreateUserInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockBackendAPI) FetchProducts(ctx context.Context, token string, params url.Values) ([]models.Product, error) {
	args := m.Called(ctx, token, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockBackendAPI) FetchOwnProducts(ctx context.Context, token string) ([]models.Product, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockBackendAPI) FetchProduct(ctx context.Context, token, productID string) (*models.Product, error) {
	args := m.Called(ctx, token, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockBackendAPI) CreateProduct(ctx context.Context, token string, input backend.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, token, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockBackendAPI) UpdateProduct(ctx context.Context, token, productID string, input backend.ProductInput) error {
	args := m.Called(ctx, token, productID, input)
	return args.Error(0)
}

func (m *MockBackendAPI) SetProductActive(ctx context.Context, token, productID string, active bool) error {
	args := m.Called(ctx, token, productID, active)
	return args.Error(0)
}

func (m *MockBackendAPI) DeleteProduct(ctx context.Context, token, productID string) error {
	args := m.Called(ctx, token, productID)
	return args.Error(0)
}

func (m *MockBackendAPI) UploadProductImages(ctx context.Context, token, productID string, images []models.ImageAttachment) ([]models.ProductImage, error) {
	args := m.Called(ctx, token, productID, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductImage), args.Error(1)
}

func (m *MockBackendAPI) DeleteProductImages(ctx context.Context, token string, imageIDs []string) error {
	args := m.Called(ctx, token, imageIDs)
	return args.Error(0)
}

func (m *MockBackendAPI) ImageURL(path string) string {
	args := m.Called(path)
	return args.String(0)
}

// signedInSessions builds a session service already signed in as a fixed
// test user, backed by the in-memory store.
func signedInSessions(api backend.API) *services.SessionService {
	store := repositories.NewMockSessionRepository()
	_ = store.Save(models.NewSession(models.User{
		ID:    "user-1",
		Name:  "Maria Gomes",
		Email: "maria@example.com",
		Tel:   "11999990000",
	}, "token-123"))

	sessions := services.NewSessionService(api, store)
	_ = sessions.Restore()
	return sessions
}

// newEmptySessionStore returns a store with nothing persisted, for tests that
// exercise the signed-out path.
func newEmptySessionStore() repositories.SessionRepository {
	return repositories.NewMockSessionRepository()
}
