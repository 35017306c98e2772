// Package auth 认证服务单元测试
package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/injapanfood/injapanfood-backend/internal/common/crypto"
	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/common/jwt"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newAuthService(db *gorm.DB) *AuthService {
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            "test-secret",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "injapanfood-test",
	})
	return NewAuthService(repository.NewUserRepository(db), jwtManager)
}

func TestAuthService_Register(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	t.Run("注册成功", func(t *testing.T) {
		resp, err := svc.Register(ctx, &RegisterRequest{
			Email:    "  Tanaka@Example.com ",
			Password: "supersecret1",
		})
		require.NoError(t, err)

		// 邮箱规范化，昵称默认取邮箱前缀
		assert.Equal(t, "tanaka@example.com", resp.User.Email)
		assert.Equal(t, "tanaka", resp.User.Nickname)
		assert.Equal(t, models.UserLanguageJa, resp.User.Language)
		assert.NotEmpty(t, resp.TokenPair.AccessToken)

		var user models.User
		require.NoError(t, db.Where("email = ?", "tanaka@example.com").First(&user).Error)
		assert.NotEqual(t, "supersecret1", user.PasswordHash)
		assert.True(t, crypto.VerifyPassword("supersecret1", user.PasswordHash))
	})

	t.Run("邮箱已注册", func(t *testing.T) {
		_, err := svc.Register(ctx, &RegisterRequest{
			Email:    "TANAKA@example.com",
			Password: "anotherpassword",
		})
		assert.ErrorIs(t, err, errors.ErrEmailExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Email:    "suzuki@example.com",
		Password: "supersecret1",
		Nickname: "鈴木",
	})
	require.NoError(t, err)

	t.Run("登录成功", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{
			Email:    "Suzuki@Example.com",
			Password: "supersecret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "鈴木", resp.User.Nickname)
		assert.NotEmpty(t, resp.TokenPair.RefreshToken)

		var user models.User
		db.Where("email = ?", "suzuki@example.com").First(&user)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{
			Email:    "suzuki@example.com",
			Password: "wrongpassword",
		})
		assert.ErrorIs(t, err, errors.ErrPasswordError)
	})

	t.Run("邮箱不存在与密码错误不可区分", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{
			Email:    "nobody@example.com",
			Password: "supersecret1",
		})
		assert.ErrorIs(t, err, errors.ErrPasswordError)
	})

	t.Run("账号禁用", func(t *testing.T) {
		var user models.User
		db.Where("email = ?", "suzuki@example.com").First(&user)
		db.Model(&user).Update("status", models.UserStatusDisabled)

		_, err := svc.Login(ctx, &LoginRequest{
			Email:    "suzuki@example.com",
			Password: "supersecret1",
		})
		assert.ErrorIs(t, err, errors.ErrAccountDisabled)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Email:    "sato@example.com",
		Password: "oldpassword1",
	})
	require.NoError(t, err)

	t.Run("旧密码错误", func(t *testing.T) {
		err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "newpassword1",
		})
		assert.ErrorIs(t, err, errors.ErrPasswordError)
	})

	t.Run("修改成功后用新密码登录", func(t *testing.T) {
		err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{
			OldPassword: "oldpassword1",
			NewPassword: "newpassword1",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, &LoginRequest{Email: "sato@example.com", Password: "oldpassword1"})
		assert.ErrorIs(t, err, errors.ErrPasswordError)

		_, err = svc.Login(ctx, &LoginRequest{Email: "sato@example.com", Password: "newpassword1"})
		assert.NoError(t, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Email:    "refresh@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	t.Run("刷新成功", func(t *testing.T) {
		pair, err := svc.RefreshToken(ctx, resp.TokenPair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("非法令牌", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, errors.ErrTokenInvalid)
	})
}
