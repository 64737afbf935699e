package handler

import (
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/identity/entity"
	"github.com/NunoCastro30/TechFlow/internal/identity/repository"
	"github.com/NunoCastro30/TechFlow/internal/identity/service"
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/NunoCastro30/TechFlow/internal/shared/web"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewUserHandler(users *service.UserService, auth *service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, jwtSecret string) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)

	authed := r.Group("", middleware.JWTAuth(jwtSecret))
	authed.POST("/auth/logout", h.Logout)
	authed.POST("/auth/password", h.ChangePassword)

	admin := authed.Group("", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	admin.GET("/users", h.List)
	admin.POST("/users", h.Create)
	admin.GET("/users/:id", h.Get)
	admin.PUT("/users/:id", h.Update)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserInactive):
			web.Unauthorized(c, "invalid staff number or password")
		default:
			web.InternalError(c, err.Error())
		}
		return
	}
	web.Success(c, pair)
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrUserInactive):
			web.Unauthorized(c, "invalid refresh token")
		default:
			web.InternalError(c, err.Error())
		}
		return
	}
	web.Success(c, pair)
}

func (h *UserHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Success(c, nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), web.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			web.Unauthorized(c, "current password is incorrect")
		case errors.Is(err, repository.ErrNotFound):
			web.NotFound(c, "user not found")
		default:
			web.InternalError(c, err.Error())
		}
		return
	}
	web.Success(c, nil)
}

func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	users, total, err := h.users.List(c.Request.Context(), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, users, total, page, pageSize)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNumberTaken):
			web.BadRequest(c, err.Error())
		default:
			web.InternalError(c, err.Error())
		}
		return
	}
	web.Created(c, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			web.NotFound(c, "user not found")
			return
		}
		web.InternalError(c, err.Error())
		return
	}
	web.Success(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			web.NotFound(c, "user not found")
			return
		}
		web.InternalError(c, err.Error())
		return
	}
	web.Success(c, user)
}
