package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/service"
	"github.com/d60-Lab/waimai/pkg/apperr"
	"github.com/d60-Lab/waimai/pkg/response"
)

type orderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

type createOrderRequest struct {
	MerchantID      int64              `json:"merchantId" binding:"required,gt=0"`
	DeliveryAddress string             `json:"deliveryAddress" binding:"max=255"`
	Items           []orderItemRequest `json:"items" binding:"dive"`
}

type updateStatusRequest struct {
	Status *int8 `json:"status" binding:"required,order_status"`
}

// CreateOrder 下单
// @Summary 创建订单
// @Description 校验失败统一返回 400 及原因；订单、明细、支付记录、日志在同一事务内写入
// @Tags 订单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "幂等键"
// @Param request body createOrderRequest true "订单信息"
// @Success 201 {object} response.Response{data=map[string]int64}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	p := principal(c)
	if p == nil {
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(req.Items) == 0 {
		response.BadRequest(c, "order must contain at least one item")
		return
	}

	in := service.CreateOrderInput{
		UserID:          p.UserID,
		MerchantID:      req.MerchantID,
		DeliveryAddress: req.DeliveryAddress,
		Items:           make([]service.OrderItemInput, len(req.Items)),
	}
	for i, it := range req.Items {
		in.Items[i] = service.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	id, err := h.orderService.CreateOrder(c.Request.Context(), in)
	if err != nil {
		if apperr.IsDomain(err) {
			response.BadRequest(c, apperr.Message(err))
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"orderId": id})
}

// MyOrders 当前用户的订单
// @Summary 我的订单
// @Tags 订单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Order}
// @Router /api/orders/my [get]
func (h *Handler) MyOrders(c *gin.Context) {
	p := principal(c)
	if p == nil {
		return
	}
	orders, err := h.orderService.GetOrdersByUser(c.Request.Context(), p.UserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, orders)
}

// GetMyOrder 当前用户的订单详情
// @Summary 订单详情
// @Tags 订单
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response{data=service.OrderDetail}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/orders/{id} [get]
func (h *Handler) GetMyOrder(c *gin.Context) {
	p := principal(c)
	if p == nil {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.orderService.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if detail.Order.UserID != p.UserID {
		response.Forbidden(c, "order does not belong to current user")
		return
	}
	response.Success(c, detail)
}

// AdminListOrders 全部订单
// @Summary 全部订单（管理员）
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Order}
// @Router /api/admin/orders [get]
func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, orders)
}

// AdminUpdateOrderStatus 管理员修改订单状态
// @Summary 修改订单状态（管理员）
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Param request body updateStatusRequest true "目标状态 0-4"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/orders/{id}/status [put]
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.updateStatus(c, id, "admin")
}

// MerchantUpdateOrderStatus 商家修改自己订单的状态
// @Summary 修改订单状态（商家）
// @Tags 商家
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Param request body updateStatusRequest true "目标状态 0-4"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/merchant/orders/{id}/status [put]
func (h *Handler) MerchantUpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	merchantID, ok := h.currentMerchantID(c)
	if !ok {
		return
	}
	if !h.authorizeMerchantOrder(c, id, merchantID) {
		return
	}
	h.updateStatus(c, id, "merchant")
}

func (h *Handler) updateStatus(c *gin.Context, orderID int64, actor string) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	status := model.OrderStatus(*req.Status)
	updated, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, status, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !updated {
		response.NotFound(c, "order not found")
		return
	}
	response.Success(c, gin.H{"orderId": orderID, "orderStatus": status})
}

// authorizeMerchantOrder 订单必须属于当前商家，失败时已写入响应
func (h *Handler) authorizeMerchantOrder(c *gin.Context, orderID, merchantID int64) bool {
	owner, found, err := h.orderService.GetOrderMerchantID(c.Request.Context(), orderID)
	if err != nil {
		response.InternalError(c, err)
		return false
	}
	if !found {
		response.NotFound(c, "order not found")
		return false
	}
	if owner != merchantID {
		response.Forbidden(c, "order does not belong to current merchant")
		return false
	}
	return true
}

// MerchantOrders 当前商家的订单
// @Summary 商家订单列表
// @Tags 商家
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Order}
// @Router /api/merchant/orders [get]
func (h *Handler) MerchantOrders(c *gin.Context) {
	merchantID, ok := h.currentMerchantID(c)
	if !ok {
		return
	}
	orders, err := h.orderService.GetOrdersByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, orders)
}

// MerchantGetOrder 商家查看自己订单的详情
// @Summary 商家订单详情
// @Tags 商家
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response{data=service.OrderDetail}
// @Failure 403 {object} response.Response
// @Router /api/merchant/orders/{id} [get]
func (h *Handler) MerchantGetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	merchantID, ok := h.currentMerchantID(c)
	if !ok {
		return
	}
	if !h.authorizeMerchantOrder(c, id, merchantID) {
		return
	}
	detail, err := h.orderService.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// AdminOrderLogs 订单状态日志
// @Summary 订单日志（管理员）
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response{data=[]model.OrderLog}
// @Router /api/admin/orders/{id}/logs [get]
func (h *Handler) AdminOrderLogs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	logs, err := h.orderLogService.ListByOrder(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, logs)
}

// Statistics 订单统计
// @Summary 统计概览（管理员）
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=repository.Summary}
// @Router /api/admin/statistics [get]
func (h *Handler) Statistics(c *gin.Context) {
	s, err := h.statsService.Summary(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, s)
}
