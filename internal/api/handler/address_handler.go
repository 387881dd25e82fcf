package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/pkg/response"
)

type addressRequest struct {
	RecipientName string `json:"recipientName" binding:"required,max=64"`
	Phone         string `json:"phoneNumber" binding:"required,max=20"`
	FullAddress   string `json:"fullAddress" binding:"required,max=255"`
	IsDefault     bool   `json:"isDefault"`
}

// ListAddresses 当前用户的收货地址
// @Summary 收货地址列表
// @Tags 地址
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Address}
// @Router /api/addresses [get]
func (h *Handler) ListAddresses(c *gin.Context) {
	p := principal(c)
	if p == nil {
		return
	}
	list, err := h.addressService.ListByUser(c.Request.Context(), p.UserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// CreateAddress 新增收货地址
// @Summary 新增收货地址
// @Tags 地址
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body addressRequest true "地址"
// @Success 201 {object} response.Response{data=model.Address}
// @Router /api/addresses [post]
func (h *Handler) CreateAddress(c *gin.Context) {
	p := principal(c)
	if p == nil {
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a := &model.Address{
		UserID:        p.UserID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		FullAddress:   req.FullAddress,
		IsDefault:     req.IsDefault,
	}
	if err := h.addressService.Create(c.Request.Context(), a); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, a)
}
