package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/surdiana/userhub/internal/constants"
	"github.com/surdiana/userhub/internal/dto"
	apperrors "github.com/surdiana/userhub/internal/errors"
	"github.com/surdiana/userhub/internal/mailer"
	"github.com/surdiana/userhub/internal/model"
	"github.com/surdiana/userhub/internal/repository"
	"github.com/surdiana/userhub/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService orchestrates registration, login, profile access and role
// management. Every lower-layer failure is mapped to one of the predefined
// error kinds before it leaves this package.
type UserService struct {
	repo   *repository.UserRepository
	hasher *PasswordHasher
	tokens *TokenService
	cache  *ProfileCache
	mail   *mailer.Mailer
}

func NewUserService(
	repo *repository.UserRepository,
	hasher *PasswordHasher,
	tokens *TokenService,
	cache *ProfileCache,
	mail *mailer.Mailer,
) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		mail:   mail,
	}
}

// storeError maps repository failures onto the error taxonomy.
func storeError(err error) *apperrors.AppError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.Wrap(apperrors.ErrDatabase, err)
}

// generateUserID draws an 8-character public identifier from the
// alphanumeric alphabet using crypto/rand. No collision retry: with 62^8
// identifiers the residual risk is accepted, and the unique index rejects
// the insert should it ever happen.
func generateUserID() (string, error) {
	buf := make([]byte, constants.UserIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate user id: %w", err)
	}
	for i, b := range buf {
		buf[i] = constants.UserIDAlphabet[int(b)%len(constants.UserIDAlphabet)]
	}
	return string(buf), nil
}

// Register creates a new account. The first account ever committed gets the
// root type (assigned transactionally in the store). The success payload is
// deliberately empty.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	_, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return apperrors.ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	userID, err := generateUserID()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	user := &model.User{
		UserID:   userID,
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: hashed,
		Avatar:   constants.DefaultAvatar,
		Type:     constants.UserTypeNormal,
		Status:   constants.UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the pre-check and land
		// on the unique email index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrUserExists
		}
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	if s.mail != nil && s.mail.Enabled() {
		go s.mail.SendWelcome(user.Nickname, user.Email)
	}

	return nil
}

// Login authenticates by email and password and issues a bearer token with
// subject = email. Failed attempts bump the per-user counter; a successful
// login resets it and stamps the login time and source address.
func (s *UserService) Login(ctx context.Context, email, password, clientIP string) (*dto.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}

	if !s.hasher.Verify(password, user.Password) {
		if err := s.repo.IncrementFailedLogin(ctx, user.ID); err != nil {
			logger.GetLogger().Warn("Failed to record failed login attempt",
				zap.Uint("user_id", user.ID),
				zap.Error(err),
			)
		}
		logger.LogAuth(email, "login", false)
		return nil, apperrors.ErrPasswordIncorrect
	}

	if err := s.repo.RecordLogin(ctx, user.ID, clientIP); err != nil {
		logger.GetLogger().Warn("Failed to record login",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}

	token, err := s.tokens.Sign(user.Email)
	if err != nil {
		return nil, err
	}

	logger.LogAuth(email, "login", true)
	return &dto.LoginResponse{Token: token}, nil
}

// GetProfile verifies the bearer token and returns the public projection of
// the subject's account.
func (s *UserService) GetProfile(ctx context.Context, token string) (*dto.UserInfo, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if info, ok := s.cache.Get(ctx, email); ok {
		return info, nil
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}

	info := &dto.UserInfo{
		Nickname: user.Nickname,
		Email:    user.Email,
		Type:     user.Type,
	}
	s.cache.Set(ctx, email, info)

	return info, nil
}

// UpdateProfile applies a partial update to the token subject's account.
// Absent fields are left unchanged; a provided password is re-hashed with
// the same configured cost as registration.
func (s *UserService) UpdateProfile(ctx context.Context, token string, req *dto.UpdateProfileRequest) error {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return storeError(err)
	}

	updates := make(map[string]interface{})
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Password != nil {
		hashed, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		updates["password"] = hashed
	}

	// Empty patch is a valid no-op
	if len(updates) == 0 {
		return nil
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, updates); err != nil {
		return storeError(err)
	}

	s.cache.Invalidate(ctx, email)
	return nil
}

// SetUserType changes the type of the target user. The caller must hold
// role-management rights (admin, or root which implies them); the root
// account itself is immutable.
func (s *UserService) SetUserType(ctx context.Context, token string, targetID uint, newType string) error {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	caller, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return storeError(err)
	}

	if caller.Type != constants.UserTypeAdmin && caller.Type != constants.UserTypeRoot {
		logger.GetLogger().Warn("Role change denied",
			zap.String("caller", email),
			zap.Uint("target_id", targetID),
		)
		return apperrors.ErrForbidden
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return storeError(err)
	}

	if target.Type == constants.UserTypeRoot {
		return apperrors.ErrForbidden
	}

	if err := s.repo.UpdateType(ctx, target.ID, newType); err != nil {
		return storeError(err)
	}

	s.cache.Invalidate(ctx, target.Email)
	return nil
}
