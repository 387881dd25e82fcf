package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/service"
	"github.com/d60-Lab/waimai/pkg/response"
)

type registerRequest struct {
	Name     string `json:"userName" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Phone    string `json:"phoneNumber" binding:"required,max=20"`
	Address  string `json:"address" binding:"max=255"`
	UserType int8   `json:"userType" binding:"oneof=0 1"`
}

type loginRequest struct {
	Name     string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Type:     model.UserType(req.UserType),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u)
}

// Login 登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 401 {object} response.Response
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.authService.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": u})
}

// AdminListUsers 用户列表（不含密码）
// @Summary 用户列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /api/admin/users [get]
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, users)
}
