package repositories

import (
	"fmt"

	"marketspace/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSessionDB opens the session database for the given driver. sqlite is
// the default and plays the role of the app's on-device storage; postgres is
// for shared deployments of the gateway.
func OpenSessionDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported session db driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session schema: %w", err)
	}

	return db, nil
}

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Save stores the session, replacing any previously persisted one.
func (r *GORMSessionRepository) Save(session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		// Only one signed-in session exists at a time.
		if err := tx.Where("1 = 1").Delete(&models.Session{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous session: %w", err)
		}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
}

// Load retrieves the persisted session, or nil when there is none.
func (r *GORMSessionRepository) Load() (*models.Session, error) {
	var session models.Session
	if err := r.db.Order("created_at DESC").First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

// Clear removes the persisted session. Clearing an empty store is not an error.
func (r *GORMSessionRepository) Clear() error {
	if err := r.db.Where("1 = 1").Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
