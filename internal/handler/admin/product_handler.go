// Package admin 提供管理员相关的 HTTP Handler
package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
	adminService "github.com/injapanfood/injapanfood-backend/internal/service/admin"
)

// ProductHandler 商品管理处理器
type ProductHandler struct {
	productAdminService *adminService.ProductAdminService
}

// NewProductHandler 创建商品管理处理器
func NewProductHandler(productAdminSvc *adminService.ProductAdminService) *ProductHandler {
	return &ProductHandler{
		productAdminService: productAdminSvc,
	}
}

// parseStatusQuery 解析可选的状态查询参数
func parseStatusQuery(c *gin.Context) (*int8, bool) {
	statusStr := c.Query("status")
	if statusStr == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(statusStr, 10, 8)
	if err != nil {
		response.BadRequest(c, "无效的状态")
		return nil, false
	}
	s := int8(v)
	return &s, true
}

// CreateProduct 创建商品
// @Summary 创建商品
// @Tags 管理员-商品
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateProductRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /admin/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req adminService.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.productAdminService.CreateProduct(c.Request.Context(), &req)
	handler.MustSucceed(c, err, product)
}

// UpdateProduct 更新商品
// @Summary 更新商品
// @Tags 管理员-商品
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "商品ID"
// @Param request body object true "变更字段"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.productAdminService.UpdateProduct(c.Request.Context(), productID, fields)
	handler.MustSucceed(c, err, product)
}

// SetProductStatus 商品上下架
// @Summary 商品上下架
// @Tags 管理员-商品
// @Produce json
// @Security Bearer
// @Param id path int true "商品ID"
// @Param status query int true "状态：0-草稿 1-上架 2-下架"
// @Success 200 {object} response.Response
// @Router /admin/products/{id}/status [put]
func (h *ProductHandler) SetProductStatus(c *gin.Context) {
	productID, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	status, err := strconv.ParseInt(c.Query("status"), 10, 8)
	if err != nil {
		response.BadRequest(c, "无效的状态")
		return
	}

	handler.MustSucceed(c, h.productAdminService.SetProductStatus(c.Request.Context(), productID, int8(status)), nil)
}

// DeleteProduct 删除商品
// @Summary 删除商品
// @Tags 管理员-商品
// @Produce json
// @Security Bearer
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.productAdminService.DeleteProduct(c.Request.Context(), productID), nil)
}

// ListProducts 管理端商品列表
// @Summary 管理端商品列表（含未上架）
// @Tags 管理员-商品
// @Produce json
// @Security Bearer
// @Param category_id query int false "分类ID"
// @Param keyword query string false "关键词"
// @Param status query int false "状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	p := handler.BindPagination(c)

	params := repository.ProductListParams{
		Offset:  p.GetOffset(),
		Limit:   p.GetLimit(),
		Keyword: c.Query("keyword"),
		SortBy:  c.Query("sort_by"),
	}

	categoryID, ok := handler.ParseQueryID(c, "category_id", "分类")
	if !ok {
		return
	}
	if categoryID != nil {
		params.CategoryID = *categoryID
	}

	status, ok := parseStatusQuery(c)
	if !ok {
		return
	}
	params.Status = status

	products, total, err := h.productAdminService.ListProducts(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, products, total, p.Page, p.PageSize)
}

// GetProduct 获取商品详情
// @Summary 获取商品详情
// @Tags 管理员-商品
// @Produce json
// @Security Bearer
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /admin/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	product, err := h.productAdminService.GetProduct(c.Request.Context(), productID)
	handler.MustSucceed(c, err, product)
}

// CreateCategory 创建分类
// @Summary 创建分类
// @Tags 管理员-分类
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateCategoryRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Category}
// @Router /admin/categories [post]
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req adminService.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	category, err := h.productAdminService.CreateCategory(c.Request.Context(), &req)
	handler.MustSucceed(c, err, category)
}

// UpdateCategory 更新分类
// @Summary 更新分类
// @Tags 管理员-分类
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "分类ID"
// @Param request body object true "变更字段"
// @Success 200 {object} response.Response
// @Router /admin/categories/{id} [put]
func (h *ProductHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := handler.ParseID(c, "分类")
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.productAdminService.UpdateCategory(c.Request.Context(), categoryID, fields), nil)
}

// DeleteCategory 删除分类
// @Summary 删除分类（有商品或子分类时拒绝）
// @Tags 管理员-分类
// @Produce json
// @Security Bearer
// @Param id path int true "分类ID"
// @Success 200 {object} response.Response
// @Router /admin/categories/{id} [delete]
func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := handler.ParseID(c, "分类")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.productAdminService.DeleteCategory(c.Request.Context(), categoryID), nil)
}

// CreateBundle 创建套装
// @Summary 创建组合套装
// @Tags 管理员-套装
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateBundleRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Bundle}
// @Router /admin/bundles [post]
func (h *ProductHandler) CreateBundle(c *gin.Context) {
	var req adminService.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	bundle, err := h.productAdminService.CreateBundle(c.Request.Context(), &req)
	handler.MustSucceed(c, err, bundle)
}

// UpdateBundleItemsRequest 更新套装明细请求
type UpdateBundleItemsRequest struct {
	Items []adminService.BundleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateBundleItems 替换套装明细
// @Summary 替换套装内商品明细
// @Tags 管理员-套装
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "套装ID"
// @Param request body UpdateBundleItemsRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /admin/bundles/{id}/items [put]
func (h *ProductHandler) UpdateBundleItems(c *gin.Context) {
	bundleID, ok := handler.ParseID(c, "套装")
	if !ok {
		return
	}

	var req UpdateBundleItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.productAdminService.UpdateBundleItems(c.Request.Context(), bundleID, req.Items), nil)
}

// SetBundleStatus 套装上下架
// @Summary 套装上下架
// @Tags 管理员-套装
// @Produce json
// @Security Bearer
// @Param id path int true "套装ID"
// @Param status query int true "状态：0-下架 1-上架"
// @Success 200 {object} response.Response
// @Router /admin/bundles/{id}/status [put]
func (h *ProductHandler) SetBundleStatus(c *gin.Context) {
	bundleID, ok := handler.ParseID(c, "套装")
	if !ok {
		return
	}

	status, err := strconv.ParseInt(c.Query("status"), 10, 8)
	if err != nil {
		response.BadRequest(c, "无效的状态")
		return
	}

	handler.MustSucceed(c, h.productAdminService.SetBundleStatus(c.Request.Context(), bundleID, int8(status)), nil)
}

// DeleteBundle 删除套装
// @Summary 删除套装
// @Tags 管理员-套装
// @Produce json
// @Security Bearer
// @Param id path int true "套装ID"
// @Success 200 {object} response.Response
// @Router /admin/bundles/{id} [delete]
func (h *ProductHandler) DeleteBundle(c *gin.Context) {
	bundleID, ok := handler.ParseID(c, "套装")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.productAdminService.DeleteBundle(c.Request.Context(), bundleID), nil)
}

// ListBundles 管理端套装列表
// @Summary 管理端套装列表
// @Tags 管理员-套装
// @Produce json
// @Security Bearer
// @Param status query int false "状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/bundles [get]
func (h *ProductHandler) ListBundles(c *gin.Context) {
	p := handler.BindPagination(c)

	status, ok := parseStatusQuery(c)
	if !ok {
		return
	}

	bundles, total, err := h.productAdminService.ListBundles(c.Request.Context(), p.Page, p.PageSize, status)
	handler.MustSucceedPage(c, err, bundles, total, p.Page, p.PageSize)
}
