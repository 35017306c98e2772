// Package repository 用户仓储单元测试
package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/injapanfood/injapanfood-backend/internal/models"
)

// setupUserTestDB 创建用户测试数据库
func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Address{},
	)
	require.NoError(t, err)

	return db
}

var userSeq int64

func createTestUserForRepo(t *testing.T, db *gorm.DB, opts ...func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("user-%d@example.com", atomic.AddInt64(&userSeq, 1)),
		PasswordHash: "hash",
		Nickname:     "测试用户",
		Language:     models.UserLanguageJa,
		Status:       models.UserStatusActive,
	}

	for _, opt := range opts {
		opt(user)
	}

	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserRepository_Create(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Email:        "tanaka@example.com",
		PasswordHash: "hash",
		Nickname:     "田中",
		Status:       models.UserStatusActive,
	}

	err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUserForRepo(t, db, func(u *models.User) {
		u.Email = "suzuki@example.com"
	})

	t.Run("精确匹配邮箱", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "suzuki@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("邮箱大小写与空白规范化", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "  Suzuki@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("不存在的邮箱", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUserForRepo(t, db, func(u *models.User) {
		u.Email = "exists@example.com"
	})

	exists, err := repo.ExistsByEmail(ctx, "EXISTS@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UpdateStatus(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUserForRepo(t, db)

	err := repo.UpdateStatus(ctx, user.ID, models.UserStatusDisabled)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int8(models.UserStatusDisabled), found.Status)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUserForRepo(t, db)
	require.Nil(t, user.LastLoginAt)

	err := repo.UpdateLastLogin(ctx, user.ID)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.LastLoginAt)
}

func TestUserRepository_List(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUserForRepo(t, db, func(u *models.User) { u.Email = "list-a@example.com" })
	createTestUserForRepo(t, db, func(u *models.User) { u.Email = "list-b@example.com" })
	createTestUserForRepo(t, db, func(u *models.User) {
		u.Email = "disabled@example.com"
		u.Status = models.UserStatusDisabled
	})

	t.Run("按邮箱搜索", func(t *testing.T) {
		users, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"email": "list-",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, users, 2)
	})

	t.Run("按状态筛选", func(t *testing.T) {
		users, _, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"status": int8(models.UserStatusDisabled),
		})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "disabled@example.com", users[0].Email)
	})

	t.Run("分页", func(t *testing.T) {
		users, total, err := repo.List(ctx, 0, 2, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 2)
	})
}
