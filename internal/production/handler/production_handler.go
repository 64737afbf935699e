package handler

import (
	"errors"

	identityentity "github.com/NunoCastro30/TechFlow/internal/identity/entity"
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/NunoCastro30/TechFlow/internal/production/repository"
	"github.com/NunoCastro30/TechFlow/internal/production/service"
	"github.com/NunoCastro30/TechFlow/internal/shared/web"
	"github.com/gin-gonic/gin"
)

type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

func (h *ProductionHandler) RegisterRoutes(r *gin.RouterGroup, jwtSecret string) {
	authed := r.Group("", middleware.JWTAuth(jwtSecret))
	authed.GET("/production-orders", h.List)
	authed.GET("/production-orders/:id", h.Get)

	ops := authed.Group("", middleware.RequireRole(identityentity.RoleManager, identityentity.RoleProduction))
	ops.POST("/production-orders", h.Create)
	ops.POST("/production-orders/:id/start", h.Start)
	ops.POST("/production-orders/:id/cancel", h.Cancel)
	ops.POST("/production-orders/:id/records", h.RecordBatch)
}

func (h *ProductionHandler) List(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *ProductionHandler) Get(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, po)
}

func (h *ProductionHandler) Create(c *gin.Context) {
	var in service.CreateProductionOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, po)
}

func (h *ProductionHandler) Start(c *gin.Context) {
	po, err := h.svc.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, po)
}

func (h *ProductionHandler) Cancel(c *gin.Context) {
	po, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, po)
}

func (h *ProductionHandler) RecordBatch(c *gin.Context) {
	var in service.RecordBatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}
	if in.RecordedBy == "" {
		in.RecordedBy = web.GetUserID(c)
	}

	po, err := h.svc.RecordBatch(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, po)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		web.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrInsufficientStock):
		web.BadRequest(c, err.Error())
	default:
		web.InternalError(c, err.Error())
	}
}
