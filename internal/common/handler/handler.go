// Package handler 提供 Handler 层的通用辅助：错误转响应、登录态检查、
// 参数解析与分页绑定。Handler 方法只负责绑定参数和调用服务。
package handler

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	"github.com/injapanfood/injapanfood-backend/internal/common/utils"
	"github.com/injapanfood/injapanfood-backend/internal/middleware"
)

// HandleError 把服务层错误转成响应。返回 true 表示已响应，调用方应 return。
// AppError 按业务码返回，其余错误按 500 返回。
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		response.Error(c, appErr.Code, appErr.Message)
		return true
	}

	response.InternalError(c, err.Error())
	return true
}

// MustSucceed 调用服务后直接收尾：出错转错误响应，否则返回成功数据。
// 调用后必须 return。
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedPage MustSucceed 的分页版本
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, page, pageSize int) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, page, pageSize)
}

// RequireUserID 要求前台用户已登录。未登录时已发送 401，调用方应 return。
func RequireUserID(c *gin.Context) (int64, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return userID, true
}

// RequireAdminID 要求管理端账号已登录
func RequireAdminID(c *gin.Context) (int64, bool) {
	adminID := middleware.GetAdminID(c)
	if adminID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return adminID, true
}

// GetOptionalUserID 可选登录接口用：未登录返回 0，不产生响应。
// 商品浏览、券码校验等接口登录与否都可访问。
func GetOptionalUserID(c *gin.Context) int64 {
	return middleware.GetUserID(c)
}

// ParseID 解析路径参数 "id"。resourceName 用于错误文案（如 "订单"、"优惠券"）。
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID 解析指定路径参数为 int64，失败时已发送 400
func ParseParamID(c *gin.Context, paramName, resourceName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// ParseQueryID 解析可选的查询参数 ID。参数缺省返回 (nil, true)，
// 格式错误返回 (nil, false) 并已发送 400。
func ParseQueryID(c *gin.Context, paramName, resourceName string) (*int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return nil, false
	}
	return &id, true
}

// DateFormat 日期参数格式
const DateFormat = "2006-01-02"

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// BindPagination 绑定并规范化分页参数。默认 page=1、page_size=10，上限 100。
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	p.Normalize()
	return p
}

// RequireUserAndParseID 登录检查与路径 ID 解析的组合，
// 地址、订单等归属用户的资源接口使用。
func RequireUserAndParseID(c *gin.Context, resourceName string) (userID, resourceID int64, ok bool) {
	userID, ok = RequireUserID(c)
	if !ok {
		return 0, 0, false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return 0, 0, false
	}
	return userID, resourceID, true
}
