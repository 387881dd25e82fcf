package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/waimai/internal/api/middleware"
	"github.com/d60-Lab/waimai/internal/service"
	"github.com/d60-Lab/waimai/pkg/apperr"
	"github.com/d60-Lab/waimai/pkg/auth"
	"github.com/d60-Lab/waimai/pkg/response"
)

// Services handler 依赖的服务
type Services struct {
	Auth       service.AuthService
	Orders     service.OrderService
	Payments   service.PaymentService
	OrderLogs  service.OrderLogService
	Statistics service.StatisticsService
	Merchants  service.MerchantService
	Products   service.ProductService
	Addresses  service.AddressService
	Categories service.CategoryService
}

// Handler HTTP 处理器
type Handler struct {
	authService     service.AuthService
	orderService    service.OrderService
	paymentService  service.PaymentService
	orderLogService service.OrderLogService
	statsService    service.StatisticsService
	merchantService service.MerchantService
	productService  service.ProductService
	addressService  service.AddressService
	categoryService service.CategoryService
}

func New(s Services) *Handler {
	return &Handler{
		authService:     s.Auth,
		orderService:    s.Orders,
		paymentService:  s.Payments,
		orderLogService: s.OrderLogs,
		statsService:    s.Statistics,
		merchantService: s.Merchants,
		productService:  s.Products,
		addressService:  s.Addresses,
		categoryService: s.Categories,
	}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// pathID 解析路径中的正整数ID，失败时已写入 400
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func principal(c *gin.Context) *auth.Principal {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return nil
	}
	return p
}

// currentMerchantID 解析当前商家用户对应的商家ID，失败时已写入响应
func (h *Handler) currentMerchantID(c *gin.Context) (int64, bool) {
	p := principal(c)
	if p == nil {
		return 0, false
	}
	m, err := h.merchantService.GetByUserID(c.Request.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			response.Forbidden(c, "no merchant bound to this user")
			return 0, false
		}
		response.Error(c, err)
		return 0, false
	}
	return m.ID, true
}
