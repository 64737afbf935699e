package handler

import (
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/NunoCastro30/TechFlow/internal/procurement/service"
	"github.com/NunoCastro30/TechFlow/internal/shared/web"
	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	svc         *service.SupplierService
	procurement *service.ProcurementService
}

func NewSupplierHandler(svc *service.SupplierService, procurement *service.ProcurementService) *SupplierHandler {
	return &SupplierHandler{svc: svc, procurement: procurement}
}

func (h *SupplierHandler) RegisterRoutes(r *gin.RouterGroup, jwtSecret string) {
	authed := r.Group("", middleware.JWTAuth(jwtSecret))
	authed.GET("/suppliers", h.List)
	authed.POST("/suppliers", h.Create)
	authed.GET("/suppliers/:id", h.Get)
	authed.PUT("/suppliers/:id", h.Update)
	authed.GET("/suppliers/:id/quotations", h.ListQuotations)
}

func (h *SupplierHandler) List(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var in service.CreateSupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	s, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Created(c, s)
}

func (h *SupplierHandler) Get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, s)
}

func (h *SupplierHandler) Update(c *gin.Context) {
	var in service.UpdateSupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	s, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, s)
}

func (h *SupplierHandler) ListQuotations(c *gin.Context) {
	if _, err := h.svc.Get(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	items, err := h.procurement.ListQuotationsBySupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Success(c, items)
}
