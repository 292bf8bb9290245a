package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"wealth-tracker/models"
)

var (
	ErrNotFound         = fmt.Errorf("record not found")
	ErrDuplicate        = fmt.Errorf("duplicate record")
	ErrForeignKey       = fmt.Errorf("referenced record does not exist")
	ErrInvalidBatchSize = fmt.Errorf("invalid batch size")
	ErrInvalidData      = fmt.Errorf("invalid data, expected slice")
)

// Store is the data-access layer. All derived columns are recomputed by the
// model hooks inside the same database transaction as the write.
type Store struct {
	db     *gorm.DB
	prices PriceInvalidator
}

// PriceInvalidator drops cached closes once new ones are stored.
type PriceInvalidator interface {
	Invalidate(ctx context.Context, securityIDs ...uint) error
}

// SetPriceInvalidator makes UpsertSecurityPricing evict the cached closes of
// every security it touched after the write commits.
func (s *Store) SetPriceInvalidator(p PriceInvalidator) {
	s.prices = p
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates every table, index and foreign key.
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&models.User{},
		&models.AccountConnection{},
		&models.Institution{},
		&models.ProviderInstitution{},
		&models.Account{},
		&models.AccountBalance{},
		&models.Security{},
		&models.SecurityPricing{},
		&models.Transaction{},
		&models.InvestmentTransaction{},
		&models.Holding{},
		&models.Valuation{},
		&models.Plan{},
		&models.PlanMilestone{},
		&models.PlanEvent{},
		&models.AuditEvent{},
		&models.AuthUser{},
		&models.AuthAccount{},
		&models.AuthSession{},
		&models.AuthVerificationToken{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return translateError(s.db.WithContext(ctx).Transaction(fn))
}

// CreateInBatches inserts a slice of models in chunks of batchSize inside a
// single transaction.
func (s *Store) CreateInBatches(ctx context.Context, data interface{}, batchSize int) error {
	if batchSize <= 0 {
		return ErrInvalidBatchSize
	}

	slice := reflect.ValueOf(data)
	if slice.Kind() != reflect.Slice {
		return ErrInvalidData
	}

	return s.transaction(ctx, func(tx *gorm.DB) error {
		total := slice.Len()
		for i := 0; i < total; i += batchSize {
			end := i + batchSize
			if end > total {
				end = total
			}

			chunk := slice.Slice(i, end).Interface()
			if err := tx.Create(chunk).Error; err != nil {
				return fmt.Errorf("batch insert failed: %w", err)
			}
		}
		return nil
	})
}

// translateError maps the storage engine's constraint failures onto the
// package's sentinel errors.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate), errors.Is(err, ErrForeignKey):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	default:
		return err
	}
}
