// Package handler Handler 辅助函数单元测试
package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/common/jwt"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	"github.com/injapanfood/injapanfood-backend/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

// 模拟 UserAuth 中间件写入的登录态
func loginUser(c *gin.Context, userID int64) {
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyUserType, jwt.UserTypeUser)
}

// 模拟 AdminAuth 中间件写入的登录态
func loginAdmin(c *gin.Context, adminID int64) {
	c.Set(middleware.ContextKeyUserID, adminID)
	c.Set(middleware.ContextKeyUserType, jwt.UserTypeAdmin)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	t.Run("无错误不响应", func(t *testing.T) {
		c, w := newTestContext("/")

		assert.False(t, HandleError(c, nil))
		assert.Empty(t, w.Body.String())
	})

	t.Run("业务错误按业务码返回", func(t *testing.T) {
		c, w := newTestContext("/")

		handled := HandleError(c, errors.New(5001, "优惠券已失效"))

		assert.True(t, handled)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, 5001, resp.Code)
		assert.Equal(t, "优惠券已失效", resp.Message)
	})

	t.Run("未知错误按 500 返回", func(t *testing.T) {
		c, w := newTestContext("/")

		assert.True(t, HandleError(c, assert.AnError))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestMustSucceed(t *testing.T) {
	t.Run("成功返回数据", func(t *testing.T) {
		c, w := newTestContext("/")

		MustSucceed(c, nil, map[string]string{"code": "WELCOME500"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, 0, resp.Code)
		assert.NotNil(t, resp.Data)
	})

	t.Run("出错转错误响应", func(t *testing.T) {
		c, w := newTestContext("/")

		MustSucceed(c, errors.New(4004, "商品不存在"), nil)

		resp := parseResponse(t, w)
		assert.Equal(t, 4004, resp.Code)
	})
}

func TestMustSucceedPage(t *testing.T) {
	c, w := newTestContext("/")

	MustSucceedPage(c, nil, []string{"抹茶 KitKat", "波子汽水"}, 42, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	require.Equal(t, 0, resp.Code)

	pageData, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), pageData["total"])
	assert.Equal(t, float64(2), pageData["page"])
	assert.Equal(t, float64(20), pageData["page_size"])
}

func TestRequireUserID(t *testing.T) {
	t.Run("已登录", func(t *testing.T) {
		c, _ := newTestContext("/")
		loginUser(c, 101)

		userID, ok := RequireUserID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(101), userID)
	})

	t.Run("未登录返回 401", func(t *testing.T) {
		c, w := newTestContext("/")

		userID, ok := RequireUserID(c)
		assert.False(t, ok)
		assert.Zero(t, userID)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "请先登录", parseResponse(t, w).Message)
	})
}

func TestRequireAdminID(t *testing.T) {
	t.Run("管理端令牌", func(t *testing.T) {
		c, _ := newTestContext("/")
		loginAdmin(c, 7)

		adminID, ok := RequireAdminID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(7), adminID)
	})

	t.Run("前台用户令牌不当作管理员", func(t *testing.T) {
		c, w := newTestContext("/")
		loginUser(c, 101)

		adminID, ok := RequireAdminID(c)
		assert.False(t, ok)
		assert.Zero(t, adminID)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetOptionalUserID(t *testing.T) {
	t.Run("已登录", func(t *testing.T) {
		c, _ := newTestContext("/")
		loginUser(c, 101)
		assert.Equal(t, int64(101), GetOptionalUserID(c))
	})

	t.Run("游客返回零且不响应", func(t *testing.T) {
		c, w := newTestContext("/")
		assert.Zero(t, GetOptionalUserID(c))
		assert.Empty(t, w.Body.String())
	})
}

func TestParseID(t *testing.T) {
	t.Run("合法 ID", func(t *testing.T) {
		c, _ := newTestContext("/")
		c.Params = gin.Params{{Key: "id", Value: "12345"}}

		id, ok := ParseID(c, "订单")
		assert.True(t, ok)
		assert.Equal(t, int64(12345), id)
	})

	t.Run("非数字返回 400", func(t *testing.T) {
		c, w := newTestContext("/")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		id, ok := ParseID(c, "订单")
		assert.False(t, ok)
		assert.Zero(t, id)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "无效的订单ID", parseResponse(t, w).Message)
	})
}

func TestParseParamID(t *testing.T) {
	c, _ := newTestContext("/")
	c.Params = gin.Params{{Key: "coupon_id", Value: "999"}}

	id, ok := ParseParamID(c, "coupon_id", "优惠券")
	assert.True(t, ok)
	assert.Equal(t, int64(999), id)
}

func TestParseQueryID(t *testing.T) {
	t.Run("参数缺省", func(t *testing.T) {
		c, _ := newTestContext("/")

		id, ok := ParseQueryID(c, "category_id", "分类")
		assert.True(t, ok)
		assert.Nil(t, id)
	})

	t.Run("合法参数", func(t *testing.T) {
		c, _ := newTestContext("/?category_id=123")

		id, ok := ParseQueryID(c, "category_id", "分类")
		assert.True(t, ok)
		require.NotNil(t, id)
		assert.Equal(t, int64(123), *id)
	})

	t.Run("非法参数返回 400", func(t *testing.T) {
		c, w := newTestContext("/?category_id=snacks")

		id, ok := ParseQueryID(c, "category_id", "分类")
		assert.False(t, ok)
		assert.Nil(t, id)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, time.August, date.Month())
	assert.Equal(t, 28, date.Day())

	_, err = ParseDate("28/08/2026")
	assert.Error(t, err)
}

func TestBindPagination(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		c, _ := newTestContext("/")

		p := BindPagination(c)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.PageSize)
	})

	t.Run("自定义参数", func(t *testing.T) {
		c, _ := newTestContext("/?page=3&page_size=20")

		p := BindPagination(c)
		assert.Equal(t, 3, p.Page)
		assert.Equal(t, 20, p.PageSize)
		assert.Equal(t, 40, p.GetOffset())
		assert.Equal(t, 20, p.GetLimit())
	})

	t.Run("越界规范化", func(t *testing.T) {
		c, _ := newTestContext("/?page=-1&page_size=500")

		p := BindPagination(c)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 100, p.PageSize)
	})
}

func TestRequireUserAndParseID(t *testing.T) {
	t.Run("登录且 ID 合法", func(t *testing.T) {
		c, _ := newTestContext("/")
		c.Params = gin.Params{{Key: "id", Value: "123"}}
		loginUser(c, 456)

		userID, resourceID, ok := RequireUserAndParseID(c, "收货地址")
		assert.True(t, ok)
		assert.Equal(t, int64(456), userID)
		assert.Equal(t, int64(123), resourceID)
	})

	t.Run("未登录", func(t *testing.T) {
		c, w := newTestContext("/")
		c.Params = gin.Params{{Key: "id", Value: "123"}}

		_, _, ok := RequireUserAndParseID(c, "收货地址")
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ID 非法", func(t *testing.T) {
		c, w := newTestContext("/")
		c.Params = gin.Params{{Key: "id", Value: "oops"}}
		loginUser(c, 456)

		_, _, ok := RequireUserAndParseID(c, "收货地址")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
