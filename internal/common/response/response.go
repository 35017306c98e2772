// Package response 提供统一的 API 响应格式。
// 业务失败走 HTTP 200 + 业务码，传输层失败走对应的 HTTP 状态码。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response API 统一响应结构。code 为 0 表示成功，
// 非零为业务错误码（见 errors 包的分段约定）。
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageData 分页数据结构。商品、订单、优惠券等列表接口统一使用。
type PageData struct {
	List     interface{} `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// SuccessWithMessage 成功响应，携带面向用户的提示文案
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: message, Data: data})
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, PageData{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Error 业务错误响应。HTTP 状态保持 200，错误语义由业务码承载。
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{Code: code, Message: message})
}

// fail 传输层错误响应，message 为空时回落到默认文案
func fail(c *gin.Context, status int, message, fallback string) {
	if message == "" {
		message = fallback
	}
	c.JSON(status, Response{Code: status, Message: message})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message, "bad request")
}

// Unauthorized 未登录或凭证失效
func Unauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, message, "unauthorized")
}

// Forbidden 权限不足
func Forbidden(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, message, "forbidden")
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, message, "not found")
}

// InternalError 服务器内部错误
func InternalError(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, message, "internal server error")
}

// TooManyRequests 触发限流
func TooManyRequests(c *gin.Context, message string) {
	fail(c, http.StatusTooManyRequests, message, "too many requests")
}
