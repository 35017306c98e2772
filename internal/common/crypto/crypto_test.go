// Package crypto 加密工具单元测试
package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ==================== 密码哈希测试 ====================

func TestHashPassword(t *testing.T) {
	password := "my-secret-password"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// bcrypt 哈希以 $2 开头
	assert.True(t, strings.HasPrefix(hash, "$2"))
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	password := "same-password"

	hash1, err := HashPassword(password)
	require.NoError(t, err)
	hash2, err := HashPassword(password)
	require.NoError(t, err)

	// bcrypt 使用随机盐，两次哈希结果不同
	assert.NotEqual(t, hash1, hash2)
}

func TestHashPasswordWithCost(t *testing.T) {
	t.Run("合法成本", func(t *testing.T) {
		hash, err := HashPasswordWithCost("password", bcrypt.MinCost)
		require.NoError(t, err)
		assert.True(t, VerifyPassword("password", hash))
	})

	t.Run("非法成本回退到默认值", func(t *testing.T) {
		hash, err := HashPasswordWithCost("password", 100)
		require.NoError(t, err)
		assert.True(t, VerifyPassword("password", hash))
	})
}

func TestVerifyPassword(t *testing.T) {
	password := "correct-password"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	t.Run("正确密码", func(t *testing.T) {
		assert.True(t, VerifyPassword(password, hash))
	})

	t.Run("错误密码", func(t *testing.T) {
		assert.False(t, VerifyPassword("wrong-password", hash))
	})

	t.Run("空密码", func(t *testing.T) {
		assert.False(t, VerifyPassword("", hash))
	})

	t.Run("非法哈希", func(t *testing.T) {
		assert.False(t, VerifyPassword(password, "not-a-hash"))
	})
}

// ==================== 随机数测试 ====================

func TestGenerateRandomString(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"短字符串", 8},
		{"中等字符串", 16},
		{"长字符串", 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := GenerateRandomString(tt.length)
			require.NoError(t, err)
			assert.Len(t, s, tt.length)
		})
	}
}

func TestGenerateRandomString_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := GenerateRandomString(16)
		require.NoError(t, err)
		assert.False(t, seen[s], "随机字符串不应重复")
		seen[s] = true
	}
}

func TestGenerateRandomBytes(t *testing.T) {
	b, err := GenerateRandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)

	b2, err := GenerateRandomBytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, b, b2)
}

// ==================== 脱敏测试 ====================

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"普通邮箱", "taro.yamada@example.com", "ta***@example.com"},
		{"短用户名", "ab@example.com", "ab@example.com"},
		{"无@符号", "not-an-email", "not-an-email"},
		{"空字符串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}
}
