package repositories

import (
	"sync"

	"marketspace/internal/models"

	"github.com/google/uuid"
)

// MockSessionRepository is an in-memory implementation of SessionRepository.
type MockSessionRepository struct {
	session *models.Session
	mu      sync.RWMutex
}

// NewMockSessionRepository creates a new instance of MockSessionRepository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Save stores the session in memory, replacing any previous one.
func (r *MockSessionRepository) Save(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	copied := *session
	r.session = &copied
	return nil
}

// Load returns the stored session, or nil when signed out.
func (r *MockSessionRepository) Load() (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.session == nil {
		return nil, nil
	}
	copied := *r.session
	return &copied, nil
}

// Clear drops the stored session.
func (r *MockSessionRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = nil
	return nil
}
