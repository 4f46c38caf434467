package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surdiana/userhub/internal/constants"
	"github.com/surdiana/userhub/internal/dto"
	apperrors "github.com/surdiana/userhub/internal/errors"
	"github.com/surdiana/userhub/internal/model"
	"github.com/surdiana/userhub/internal/repository"
	"github.com/surdiana/userhub/pkg/database"
	redispkg "github.com/surdiana/userhub/pkg/redis"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*UserService, *repository.UserRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open in-memory db")
	require.NoError(t, database.AutoMigrate(db), "failed to migrate tables")
	require.NoError(t, database.EnsureIndexes(db), "failed to create indexes")

	repo := repository.NewUserRepository(db)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	tokens := NewTokenService("test-jwt-secret", time.Hour)
	cache := NewProfileCache(redispkg.NewClient(redispkg.Config{}, zap.NewNop()), time.Minute)

	return NewUserService(repo, hasher, tokens, cache, nil), repo, db
}

func register(t *testing.T, svc *UserService, nickname, email, password string) {
	t.Helper()
	err := svc.Register(context.Background(), &dto.RegisterRequest{
		Nickname: nickname,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
}

func TestRegister_FirstUserBecomesRoot(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")

	alice, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeRoot, alice.Type)
	assert.Len(t, alice.UserID, constants.UserIDLength)
	assert.Equal(t, constants.DefaultAvatar, alice.Avatar)
	assert.Equal(t, constants.UserStatusActive, alice.Status)

	register(t, svc, "Bob", "b@x.com", "pw123456")

	bob, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeNormal, bob.Type)
	assert.NotEqual(t, alice.UserID, bob.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestService(t)

	register(t, svc, "Alice", "a@x.com", "pw123456")

	err := svc.Register(context.Background(), &dto.RegisterRequest{
		Nickname: "Impostor",
		Email:    "a@x.com",
		Password: "pw654321",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_DuplicateSlippingPastPrecheck(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")
	register(t, svc, "Bob", "b@x.com", "pw123456")

	// Soft-delete Alice: the live-row pre-check no longer sees her, but
	// the unique email index still does, so the insert itself collides —
	// the same path a concurrent duplicate registration takes.
	require.NoError(t, db.Where("email = ?", "a@x.com").Delete(&model.User{}).Error)

	err := svc.Register(ctx, &dto.RegisterRequest{
		Nickname: "Alice II",
		Email:    "a@x.com",
		Password: "pw654321",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestRegister_PasswordIsHashed(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)

	register(t, svc, "Alice", "a@x.com", "pw123456")

	alice, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", alice.Password)
	assert.True(t, svc.hasher.Verify("pw123456", alice.Password))
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@x.com", "pw123456", "10.0.0.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestLogin_WrongPasswordIncrementsCounter(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")

	res, err := svc.Login(ctx, "a@x.com", "wrong", "10.0.0.1")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperrors.ErrPasswordIncorrect)

	alice, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.FailedLoginAttempts)
	assert.Nil(t, alice.LastLoginAt)
}

func TestLogin_SuccessResetsCounterAndStampsLogin(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")
	_, _ = svc.Login(ctx, "a@x.com", "wrong", "10.0.0.1")

	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.2")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	alice, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, alice.FailedLoginAttempts)
	require.NotNil(t, alice.LastLoginAt)
	require.NotNil(t, alice.LastLoginIP)
	assert.Equal(t, "10.0.0.2", *alice.LastLoginIP)
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")
	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	info, err := svc.GetProfile(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", info.Nickname)
	assert.Equal(t, "a@x.com", info.Email)
	assert.Equal(t, constants.UserTypeRoot, info.Type)
}

func TestGetProfile_InvalidToken(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	_, err := svc.GetProfile(context.Background(), "garbage")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestGetProfile_SubjectDeletedAfterIssuance(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")
	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, db.Where("email = ?", "a@x.com").Delete(&model.User{}).Error)

	_, err = svc.GetProfile(ctx, res.Token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")
	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	nickname := "Alicia"
	err = svc.UpdateProfile(ctx, res.Token, &dto.UpdateProfileRequest{Nickname: &nickname})
	require.NoError(t, err)

	info, err := svc.GetProfile(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", info.Nickname)

	// Password untouched, old credentials still work
	_, err = svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)
}

func TestUpdateProfile_PasswordChange(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")
	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	newPassword := "pw-changed-99"
	err = svc.UpdateProfile(ctx, res.Token, &dto.UpdateProfileRequest{Password: &newPassword})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrPasswordIncorrect)

	_, err = svc.Login(ctx, "a@x.com", "pw-changed-99", "10.0.0.1")
	require.NoError(t, err)
}

func TestUpdateProfile_EmptyPatchIsNoOp(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456")
	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(ctx, res.Token, &dto.UpdateProfileRequest{}))

	info, err := svc.GetProfile(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", info.Nickname)
}

func TestUpdateProfile_InvalidToken(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	nickname := "x"
	err := svc.UpdateProfile(context.Background(), "garbage", &dto.UpdateProfileRequest{Nickname: &nickname})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestSetUserType_NormalCallerForbidden(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456") // root
	register(t, svc, "Bob", "b@x.com", "pw123456")   // normal
	register(t, svc, "Carol", "c@x.com", "pw123456") // normal

	res, err := svc.Login(ctx, "b@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	carol, err := repo.GetByEmail(ctx, "c@x.com")
	require.NoError(t, err)

	err = svc.SetUserType(ctx, res.Token, carol.ID, constants.UserTypeAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSetUserType_RootTargetIsImmutable(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456") // root
	register(t, svc, "Bob", "b@x.com", "pw123456")   // normal

	// Promote Bob to admin out of band
	bob, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateType(ctx, bob.ID, constants.UserTypeAdmin))

	res, err := svc.Login(ctx, "b@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	alice, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	err = svc.SetUserType(ctx, res.Token, alice.ID, constants.UserTypeNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	alice, err = repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeRoot, alice.Type)
}

func TestSetUserType_AdminChangesNormalUser(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456") // root
	register(t, svc, "Bob", "b@x.com", "pw123456")   // normal
	register(t, svc, "Carol", "c@x.com", "pw123456") // normal

	bob, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateType(ctx, bob.ID, constants.UserTypeAdmin))

	res, err := svc.Login(ctx, "b@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	carol, err := repo.GetByEmail(ctx, "c@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.SetUserType(ctx, res.Token, carol.ID, constants.UserTypeAdmin))

	carol, err = repo.GetByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeAdmin, carol.Type)
}

func TestSetUserType_RootCallerHasAdminRights(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456") // root
	register(t, svc, "Bob", "b@x.com", "pw123456")   // normal

	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	bob, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.SetUserType(ctx, res.Token, bob.ID, constants.UserTypeAdmin))

	bob, err = repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeAdmin, bob.Type)
}

func TestSetUserType_TargetNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "pw123456") // root

	res, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)

	err = svc.SetUserType(ctx, res.Token, 9999, constants.UserTypeAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	// Alice registers first and becomes root
	register(t, svc, "Alice", "a@x.com", "pw123456")
	alice, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeRoot, alice.Type)

	// Bob registers second and is normal
	register(t, svc, "Bob", "b@x.com", "pw123456")
	bob, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeNormal, bob.Type)

	// Bob fails to log in with the wrong password, no token issued
	res, err := svc.Login(ctx, "b@x.com", "wrong", "10.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrPasswordIncorrect)
	assert.Nil(t, res)

	// Bob logs in with the right password
	res, err = svc.Login(ctx, "b@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	// Alice (root) promotes Bob to admin
	aliceSession, err := svc.Login(ctx, "a@x.com", "pw123456", "10.0.0.1")
	require.NoError(t, err)
	require.NoError(t, svc.SetUserType(ctx, aliceSession.Token, bob.ID, constants.UserTypeAdmin))

	bob, err = repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, constants.UserTypeAdmin, bob.Type)
}
