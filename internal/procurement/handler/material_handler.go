package handler

import (
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/NunoCastro30/TechFlow/internal/procurement/service"
	"github.com/NunoCastro30/TechFlow/internal/shared/web"
	"github.com/gin-gonic/gin"
)

type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

func (h *MaterialHandler) RegisterRoutes(r *gin.RouterGroup, jwtSecret string) {
	authed := r.Group("", middleware.JWTAuth(jwtSecret))
	authed.GET("/materials", h.List)
	authed.POST("/materials", h.Create)
	authed.GET("/materials/:id", h.Get)
	authed.PUT("/materials/:id", h.Update)
	authed.PUT("/materials/:id/quantity", h.SetQuantity)
}

func (h *MaterialHandler) List(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), c.Query("category"), c.Query("search"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *MaterialHandler) Create(c *gin.Context) {
	var in service.CreateMaterialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	m, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Created(c, m)
}

func (h *MaterialHandler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, m)
}

func (h *MaterialHandler) Update(c *gin.Context) {
	var in service.UpdateMaterialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	m, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, m)
}

func (h *MaterialHandler) SetQuantity(c *gin.Context) {
	var in struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}
	if *in.Quantity < 0 {
		web.BadRequest(c, "quantity must not be negative")
		return
	}

	m, err := h.svc.SetQuantity(c.Request.Context(), c.Param("id"), *in.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, m)
}
