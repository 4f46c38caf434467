package repository

import (
	"context"
	"errors"
	"time"

	"github.com/surdiana/userhub/internal/constants"
	"github.com/surdiana/userhub/internal/model"
	"github.com/surdiana/userhub/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID finds a user by primary key. Soft-deleted rows are excluded.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail finds a user by email. Soft-deleted rows are excluded.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// IsEmpty reports whether no non-deleted users exist.
func (r *UserRepository) IsEmpty(ctx context.Context) (bool, error) {
	return isEmpty(r.db.WithContext(ctx))
}

func isEmpty(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// Create persists a new user. The first user committed becomes root. The
// empty-set check alone cannot carry that invariant: under READ COMMITTED
// two concurrent registrations on an empty table both count zero rows, so
// the partial unique index on type='root' is the authoritative guard. The
// loser of that race is retried as a normal account.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		empty, err := isEmpty(tx)
		if err != nil {
			return err
		}
		if empty {
			user.Type = constants.UserTypeRoot
		}
		return tx.Create(user).Error
	})

	if err != nil && r.lostRootRace(ctx, user, err) {
		logger.GetLogger().Info("Root already claimed by a concurrent registration",
			zap.String("email", user.Email),
		)
		user.Type = constants.UserTypeNormal
		err = r.db.WithContext(ctx).Create(user).Error
	}
	if err != nil {
		logger.GetLogger().Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Error(err),
		)
		return err
	}

	logger.GetLogger().Info("User created",
		zap.String("email", user.Email),
		zap.String("user_id", user.UserID),
		zap.String("type", user.Type),
	)
	return nil
}

// lostRootRace reports whether a failed root insert was rejected by the
// single-root index rather than the email one, told apart by whether a
// live row already holds the email.
func (r *UserRepository) lostRootRace(ctx context.Context, user *model.User, err error) bool {
	if user.Type != constants.UserTypeRoot || !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}
	_, lookupErr := r.GetByEmail(ctx, user.Email)
	return errors.Is(lookupErr, gorm.ErrRecordNotFound)
}

// UpdateProfile applies a partial column update to a user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update user profile",
			zap.Uint("user_id", id),
			zap.Error(result.Error),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateType sets a user's type column.
func (r *UserRepository) UpdateType(ctx context.Context, id uint, newType string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("type", newType)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update user type",
			zap.Uint("user_id", id),
			zap.String("type", newType),
			zap.Error(result.Error),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Info("User type updated",
		zap.Uint("user_id", id),
		zap.String("type", newType),
	)
	return nil
}

// RecordLogin resets the failed-attempt counter and stamps the login time
// and source address.
func (r *UserRepository) RecordLogin(ctx context.Context, id uint, ip string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"last_login_at":         &now,
		"last_login_ip":         &ip,
	}).Error
}

// IncrementFailedLogin bumps the failed-attempt counter after a password
// mismatch.
func (r *UserRepository) IncrementFailedLogin(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1")).Error
}
