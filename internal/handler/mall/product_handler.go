// Package mall 提供商城相关的 HTTP Handler
package mall

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	mallService "github.com/injapanfood/injapanfood-backend/internal/service/mall"
)

// ProductHandler 商品处理器
type ProductHandler struct {
	productService *mallService.ProductService
}

// NewProductHandler 创建商品处理器
func NewProductHandler(productSvc *mallService.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productSvc,
	}
}

// GetCategories 获取分类树
// @Summary 获取分类树
// @Tags 商品
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Category}
// @Router /api/v1/categories [get]
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.GetCategoryTree(c.Request.Context())
	handler.MustSucceed(c, err, categories)
}

// GetProducts 获取商品列表
// @Summary 获取商品列表
// @Tags 商品
// @Produce json
// @Param category query string false "分类标识"
// @Param keyword query string false "搜索关键词"
// @Param min_price query int false "最低价格（日元）"
// @Param max_price query int false "最高价格（日元）"
// @Param sort_by query string false "排序方式：price_asc, price_desc, sales_desc, newest"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req mallService.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), &req)
	handler.MustSucceedPage(c, err, products, total, req.Page, req.PageSize)
}

// GetProductDetail 获取商品详情
// @Summary 获取商品详情
// @Tags 商品
// @Produce json
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProductDetail(c *gin.Context) {
	productID, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), productID)
	handler.MustSucceed(c, err, product)
}

// GetProductByCode 按编码获取商品
// @Summary 按编码获取商品
// @Tags 商品
// @Produce json
// @Param code path string true "商品编码"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /api/v1/products/code/{code} [get]
func (h *ProductHandler) GetProductByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "请提供商品编码")
		return
	}

	product, err := h.productService.GetProductByCode(c.Request.Context(), code)
	handler.MustSucceed(c, err, product)
}

// GetHotProducts 获取热销商品
// @Summary 获取热销商品
// @Tags 商品
// @Produce json
// @Param limit query int false "数量"
// @Success 200 {object} response.Response{data=[]models.Product}
// @Router /api/v1/products/hot [get]
func (h *ProductHandler) GetHotProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.productService.ListHotProducts(c.Request.Context(), limit)
	handler.MustSucceed(c, err, products)
}

// GetNewProducts 获取新品
// @Summary 获取新品
// @Tags 商品
// @Produce json
// @Param limit query int false "数量"
// @Success 200 {object} response.Response{data=[]models.Product}
// @Router /api/v1/products/new [get]
func (h *ProductHandler) GetNewProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.productService.ListNewProducts(c.Request.Context(), limit)
	handler.MustSucceed(c, err, products)
}

// GetBundles 获取套装列表
// @Summary 获取套装列表
// @Tags 商品
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/bundles [get]
func (h *ProductHandler) GetBundles(c *gin.Context) {
	p := handler.BindPagination(c)

	bundles, total, err := h.productService.ListBundles(c.Request.Context(), p.Page, p.PageSize)
	handler.MustSucceedPage(c, err, bundles, total, p.Page, p.PageSize)
}

// GetBundleDetail 获取套装详情
// @Summary 获取套装详情
// @Tags 商品
// @Produce json
// @Param id path int true "套装ID"
// @Success 200 {object} response.Response{data=mall.BundleInfo}
// @Router /api/v1/bundles/{id} [get]
func (h *ProductHandler) GetBundleDetail(c *gin.Context) {
	bundleID, ok := handler.ParseID(c, "套装")
	if !ok {
		return
	}

	bundle, err := h.productService.GetBundle(c.Request.Context(), bundleID)
	handler.MustSucceed(c, err, bundle)
}
