package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/pkg/response"
)

type productRequest struct {
	MerchantID  int64           `json:"merchantId"`
	CategoryID  *int64          `json:"categoryId"`
	Name        string          `json:"productName" binding:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	IsAvailable *bool           `json:"isAvailable"`
	ImageURL    string          `json:"imageUrl" binding:"max=255"`
}

func (r productRequest) toModel(id, merchantID int64) *model.Product {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return &model.Product{
		ID:          id,
		MerchantID:  merchantID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		IsAvailable: available,
		ImageURL:    r.ImageURL,
	}
}

type availabilityRequest struct {
	MerchantID  int64 `json:"merchantId"`
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// MerchantProducts 当前商家的全部商品（含下架）
// @Summary 我的商品
// @Tags 商家
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Product}
// @Router /api/merchant/products [get]
func (h *Handler) MerchantProducts(c *gin.Context) {
	merchantID, ok := h.currentMerchantID(c)
	if !ok {
		return
	}
	list, err := h.productService.ListByMerchant(c.Request.Context(), merchantID, false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// MerchantCreateProduct 商家新增商品
// @Summary 新增商品（商家）
// @Tags 商家
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body productRequest true "商品信息"
// @Success 201 {object} response.Response{data=model.Product}
// @Router /api/merchant/products [post]
func (h *Handler) MerchantCreateProduct(c *gin.Context) {
	merchantID, ok := h.currentMerchantID(c)
	if !ok {
		return
	}
	h.createProduct(c, func(req productRequest) int64 { return merchantID })
}

// MerchantUpdateProduct 商家修改商品，只能修改自己的商品
// @Summary 修改商品（商家）
// @Tags 商家
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body productRequest true "商品信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/merchant/products/{id} [put]
func (h *Handler) MerchantUpdateProduct(c *gin.Context) {
	merchantID, ok := h.currentMerchantID(c)
	if !ok {
		return
	}
	h.updateProduct(c, func(req productRequest) int64 { return merchantID })
}

// MerchantToggleProduct 商家上下架商品
// @Summary 上下架（商家）
// @Tags 商家
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body availabilityRequest true "是否上架"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/merchant/products/{id}/availability [put]
func (h *Handler) MerchantToggleProduct(c *gin.Context) {
	merchantID, ok := h.currentMerchantID(c)
	if !ok {
		return
	}
	h.toggleProduct(c, func(req availabilityRequest) int64 { return merchantID })
}

type merchantQuery struct {
	MerchantID int64 `form:"merchantId" binding:"required,gt=0"`
}

// AdminListProducts 管理员查看指定商家的全部商品（含下架）
// @Summary 商家商品（管理员）
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param merchantId query int true "商家ID"
// @Success 200 {object} response.Response{data=[]model.Product}
// @Failure 404 {object} response.Response
// @Router /api/admin/products [get]
func (h *Handler) AdminListProducts(c *gin.Context) {
	var q merchantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.merchantService.GetByID(c.Request.Context(), q.MerchantID); err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.productService.ListByMerchant(c.Request.Context(), q.MerchantID, false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// AdminCreateProduct 管理员为指定商家新增商品
// @Summary 新增商品（管理员）
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body productRequest true "商品信息，需包含 merchantId"
// @Success 201 {object} response.Response{data=model.Product}
// @Router /api/admin/products [post]
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	h.createProduct(c, func(req productRequest) int64 { return req.MerchantID })
}

// AdminUpdateProduct 管理员修改商品，merchantId 必须与商品归属一致
// @Summary 修改商品（管理员）
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body productRequest true "商品信息，需包含 merchantId"
// @Success 200 {object} response.Response
// @Router /api/admin/products/{id} [put]
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	h.updateProduct(c, func(req productRequest) int64 { return req.MerchantID })
}

// AdminToggleProduct 管理员上下架商品
// @Summary 上下架（管理员）
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body availabilityRequest true "需包含 merchantId"
// @Success 200 {object} response.Response
// @Router /api/admin/products/{id}/availability [put]
func (h *Handler) AdminToggleProduct(c *gin.Context) {
	h.toggleProduct(c, func(req availabilityRequest) int64 { return req.MerchantID })
}

func (h *Handler) createProduct(c *gin.Context, owner func(productRequest) int64) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p := req.toModel(0, owner(req))
	if err := h.productService.Create(c.Request.Context(), p); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) updateProduct(c *gin.Context, owner func(productRequest) int64) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.productService.Update(c.Request.Context(), req.toModel(id, owner(req)))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !updated {
		response.NotFound(c, "product not found for this merchant")
		return
	}
	response.Success(c, gin.H{"productId": id})
}

func (h *Handler) toggleProduct(c *gin.Context, owner func(availabilityRequest) int64) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.productService.ToggleAvailability(c.Request.Context(), id, owner(req), *req.IsAvailable)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !updated {
		response.NotFound(c, "product not found for this merchant")
		return
	}
	response.Success(c, gin.H{"productId": id, "isAvailable": *req.IsAvailable})
}
