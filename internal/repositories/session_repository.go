package repositories

import (
	"marketspace/internal/models"
)

// SessionRepository defines the interface for the locally persisted session.
// At most one session is meaningful at a time; Save replaces whatever is
// stored, Load returns the one stored session or nil when signed out.
type SessionRepository interface {
	Save(session *models.Session) error
	Load() (*models.Session, error)
	Clear() error
}
