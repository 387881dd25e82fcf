package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/pkg/response"
)

type payRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"max=32"`
}

// Pay 支付订单
// @Summary 支付订单
// @Description 仅下单用户可支付，已支付的订单返回 400
// @Tags 支付
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "幂等键"
// @Param orderId path int true "订单ID"
// @Param request body payRequest false "支付方式"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/payments/{orderId}/pay [post]
func (h *Handler) Pay(c *gin.Context) {
	p := principal(c)
	if p == nil {
		return
	}
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	// 请求体可省略，空体使用默认支付方式
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if order.UserID != p.UserID {
		response.Forbidden(c, "order does not belong to current user")
		return
	}
	if order.PayStatus == model.PayStatusCompleted {
		response.BadRequest(c, "order already paid")
		return
	}

	paid, err := h.paymentService.CompletePayment(c.Request.Context(), orderID, req.PaymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !paid {
		response.NotFound(c, "payment not found")
		return
	}
	response.Success(c, gin.H{"orderId": orderID, "payStatus": model.PayStatusCompleted})
}
