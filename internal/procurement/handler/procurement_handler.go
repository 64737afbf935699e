package handler

import (
	"errors"

	identityentity "github.com/NunoCastro30/TechFlow/internal/identity/entity"
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/NunoCastro30/TechFlow/internal/procurement/service"
	"github.com/NunoCastro30/TechFlow/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// ProcurementHandler exposes the purchase request / quotation / budget /
// order note pipeline. Supplier-facing quotation routes authenticate by
// access token instead of JWT.
type ProcurementHandler struct {
	svc *service.ProcurementService
}

func NewProcurementHandler(svc *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{svc: svc}
}

func (h *ProcurementHandler) RegisterRoutes(r *gin.RouterGroup, jwtSecret string) {
	// Token-authenticated supplier surface, no JWT.
	r.GET("/quotations/:id/supplier", h.GetQuotationForSupplier)
	r.POST("/quotations/:id/budgets", h.SubmitBudget)

	authed := r.Group("", middleware.JWTAuth(jwtSecret))
	authed.GET("/purchase-requests", h.ListPurchaseRequests)
	authed.POST("/purchase-requests", h.CreatePurchaseRequest)
	authed.GET("/purchase-requests/:id", h.GetPurchaseRequest)
	authed.POST("/purchase-requests/:id/quotations", h.CreateQuotationRequest)

	authed.GET("/quotations/:id", h.GetQuotation)

	accept := authed.Group("", middleware.RequireRole(identityentity.RoleManager, identityentity.RolePurchasing))
	accept.POST("/budgets/:id/accept", h.AcceptBudget)

	authed.GET("/order-notes", h.ListOrderNotes)
	authed.GET("/order-notes/:id", h.GetOrderNote)
	authed.GET("/order-notes/:id/export", h.ExportOrderNote)
	authed.PUT("/order-notes/:id/status", h.SetOrderNoteStatus)
}

func (h *ProcurementHandler) ListPurchaseRequests(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.svc.ListPurchaseRequests(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *ProcurementHandler) CreatePurchaseRequest(c *gin.Context) {
	var in service.CreatePurchaseRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}
	if in.RequestedBy == "" {
		in.RequestedBy = web.GetUserID(c)
	}

	pr, err := h.svc.CreatePurchaseRequest(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, pr)
}

func (h *ProcurementHandler) GetPurchaseRequest(c *gin.Context) {
	pr, err := h.svc.GetPurchaseRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, pr)
}

// createQuotationResponse is the only place the access token leaves the API;
// the entity redacts it on every other route.
type createQuotationResponse struct {
	QuotationRequestID string `json:"quotation_request_id"`
	AccessToken        string `json:"access_token"`
	Status             string `json:"status"`
	SupplierID         string `json:"supplier_id"`
}

func (h *ProcurementHandler) CreateQuotationRequest(c *gin.Context) {
	var in struct {
		SupplierID string `json:"supplier_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	qr, err := h.svc.CreateQuotationRequest(c.Request.Context(), c.Param("id"), in.SupplierID)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, createQuotationResponse{
		QuotationRequestID: qr.ID,
		AccessToken:        qr.AccessToken,
		Status:             qr.Status,
		SupplierID:         qr.SupplierID,
	})
}

func (h *ProcurementHandler) GetQuotation(c *gin.Context) {
	qr, err := h.svc.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, qr)
}

func (h *ProcurementHandler) GetQuotationForSupplier(c *gin.Context) {
	view, err := h.svc.GetQuotationForSupplier(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, view)
}

func (h *ProcurementHandler) SubmitBudget(c *gin.Context) {
	var in service.SubmitBudgetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	budget, err := h.svc.SubmitBudget(c.Request.Context(), c.Param("id"), c.Query("token"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, budget)
}

func (h *ProcurementHandler) AcceptBudget(c *gin.Context) {
	note, err := h.svc.AcceptBudget(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, note)
}

func (h *ProcurementHandler) ListOrderNotes(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.svc.ListOrderNotes(c.Request.Context(), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *ProcurementHandler) GetOrderNote(c *gin.Context) {
	note, err := h.svc.GetOrderNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, note)
}

func (h *ProcurementHandler) ExportOrderNote(c *gin.Context) {
	f, filename, err := h.svc.ExportOrderNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		web.InternalError(c, "write excel: "+err.Error())
	}
}

func (h *ProcurementHandler) SetOrderNoteStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	note, err := h.svc.SetOrderNoteStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, note)
}

// respondError maps service sentinels onto the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		web.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		web.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		web.Unauthorized(c, err.Error())
	default:
		web.InternalError(c, err.Error())
	}
}
