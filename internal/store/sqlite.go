package store

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-authgate/idgate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DemoUserEmail is the account seeded into an empty database so the login
// screen can be exercised without registration.
const DemoUserEmail = "demo@example.com"

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.KitProfile{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	store := &Store{db: db}

	if err := store.seedData(); err != nil {
		log.Printf("Warning: failed to seed data: %v", err)
	}

	return store, nil
}

func (s *Store) seedData() error {
	var userCount int64
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    DemoUserEmail,
		FullName: "Demo User",
		Provider: models.ProviderLocal,
		IsActive: true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return err
	}
	log.Printf("Created demo user: %s", user.Email)
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// User operations
func (s *Store) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByExternalID(externalID, provider string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("external_id = ? AND provider = ?", externalID, provider).
		First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, err := s.GetUserByEmail(user.Email); err == nil {
		return ErrEmailConflict
	}
	return s.db.Create(user).Error
}

func (s *Store) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// UpsertExternalUser links an account owned by an external backend to a
// local user row, matching first by external ID and then by email.
func (s *Store) UpsertExternalUser(
	provider, externalID, email, customerID string,
) (*models.User, error) {
	user, err := s.GetUserByExternalID(externalID, provider)
	if errors.Is(err, ErrRecordNotFound) && email != "" {
		user, err = s.GetUserByEmail(email)
	}

	switch {
	case err == nil:
		user.ExternalID = externalID
		user.Provider = provider
		if email != "" {
			user.Email = email
		}
		if customerID != "" {
			user.CustomerID = customerID
		}
		if err := s.UpdateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	case errors.Is(err, ErrRecordNotFound):
		user = &models.User{
			ID:         uuid.New().String(),
			Email:      email,
			CustomerID: customerID,
			ExternalID: externalID,
			Provider:   provider,
			IsActive:   true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	default:
		return nil, err
	}
}

func (s *Store) CountUsers() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Session operations
func (s *Store) CreateSession(session *models.Session) error {
	return s.db.Create(session).Error
}

func (s *Store) GetSessionByID(id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (s *Store) UpdateSession(session *models.Session) error {
	return s.db.Save(session).Error
}

// RevokeSession marks a session revoked. Revoking an already revoked
// session keeps the original timestamp.
func (s *Store) RevokeSession(id string) error {
	result := s.db.Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := s.GetSessionByID(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CountActiveSessions() (int64, error) {
	var count int64
	err := s.db.Model(&models.Session{}).
		Where("authenticated = ? AND revoked_at IS NULL AND expires_at > ?", true, time.Now()).
		Count(&count).Error
	return count, err
}

func (s *Store) DeleteExpiredSessions() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// Kit profile operations
func (s *Store) GetKitProfile(deviceID string) (*models.KitProfile, error) {
	var profile models.KitProfile
	if err := s.db.Where("device_id = ?", deviceID).First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (s *Store) SaveKitProfile(profile *models.KitProfile) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error
}

// Audit log operations
func (s *Store) CreateAuditLog(entry *models.AuditLog) error {
	return s.db.Create(entry).Error
}

func (s *Store) CreateAuditLogBatch(entries []*models.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.CreateInBatches(entries, 100).Error
}

func (s *Store) DeleteOldAuditLogs(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}

func (s *Store) GetAuditLogsPaginated(
	params PaginationParams,
	filters AuditLogFilters,
) ([]models.AuditLog, PaginationResult, error) {
	query := filters.apply(s.db.Model(&models.AuditLog{}))
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("action LIKE ? OR resource_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PaginationResult{}, fmt.Errorf("count audit logs: %w", err)
	}

	var logs []models.AuditLog
	if err := query.Order("event_time DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&logs).Error; err != nil {
		return nil, PaginationResult{}, fmt.Errorf("list audit logs: %w", err)
	}

	return logs, CalculatePagination(total, params.Page, params.PageSize), nil
}

func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}
