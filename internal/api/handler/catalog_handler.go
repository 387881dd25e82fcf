package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/waimai/pkg/response"
)

// ListMerchants 商家列表
// @Summary 商家列表
// @Tags 商家
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Merchant}
// @Router /api/merchants [get]
func (h *Handler) ListMerchants(c *gin.Context) {
	list, err := h.merchantService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// ListMerchantProducts 商家在售商品
// @Summary 商家商品列表
// @Tags 商家
// @Produce json
// @Param id path int true "商家ID"
// @Success 200 {object} response.Response{data=[]model.Product}
// @Failure 404 {object} response.Response
// @Router /api/merchants/{id}/products [get]
func (h *Handler) ListMerchantProducts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.merchantService.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.productService.ListByMerchant(c.Request.Context(), id, true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// ListCategories 分类列表
// @Summary 商品分类
// @Tags 商家
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Category}
// @Router /api/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}
