package handler

import (
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/repository"
	"github.com/NunoCastro30/TechFlow/internal/maintenance/service"
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/NunoCastro30/TechFlow/internal/shared/web"
	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	svc         *service.MaintenanceService
	machines    *service.MachineService
	attachments *service.AttachmentService
}

func NewMaintenanceHandler(svc *service.MaintenanceService, machines *service.MachineService, attachments *service.AttachmentService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, machines: machines, attachments: attachments}
}

func (h *MaintenanceHandler) RegisterRoutes(r *gin.RouterGroup, jwtSecret string) {
	authed := r.Group("", middleware.JWTAuth(jwtSecret))

	authed.GET("/machines", h.ListMachines)
	authed.POST("/machines", h.CreateMachine)
	authed.GET("/machines/:id", h.GetMachine)
	authed.PUT("/machines/:id", h.UpdateMachine)

	authed.GET("/maintenance-requests", h.ListRequests)
	authed.GET("/maintenance-requests/overdue", h.ListOverdue)
	authed.POST("/maintenance-requests", h.CreateRequest)
	authed.GET("/maintenance-requests/:id", h.GetRequest)
	authed.PUT("/maintenance-requests/:id/status", h.SetRequestStatus)
	authed.POST("/maintenance-requests/:id/records", h.StartRecord)
	authed.POST("/maintenance-requests/:id/attachments", h.UploadAttachment)
	authed.GET("/maintenance-requests/:id/attachments", h.ListAttachments)

	authed.POST("/maintenance-records/:id/resolve", h.ResolveRecord)
	authed.GET("/maintenance-attachments/:id/download", h.DownloadAttachment)
}

func (h *MaintenanceHandler) ListMachines(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.machines.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *MaintenanceHandler) CreateMachine(c *gin.Context) {
	var in service.CreateMachineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	m, err := h.machines.Create(c.Request.Context(), &in)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Created(c, m)
}

func (h *MaintenanceHandler) GetMachine(c *gin.Context) {
	m, err := h.machines.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, m)
}

func (h *MaintenanceHandler) UpdateMachine(c *gin.Context) {
	var in service.UpdateMachineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	m, err := h.machines.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, m)
}

func (h *MaintenanceHandler) ListRequests(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.svc.ListRequests(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *MaintenanceHandler) ListOverdue(c *gin.Context) {
	items, err := h.svc.ListOverdue(c.Request.Context())
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Success(c, items)
}

func (h *MaintenanceHandler) CreateRequest(c *gin.Context) {
	var in service.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}
	if in.OpenedBy == "" {
		in.OpenedBy = web.GetUserID(c)
	}

	req, err := h.svc.CreateRequest(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, req)
}

func (h *MaintenanceHandler) GetRequest(c *gin.Context) {
	req, err := h.svc.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, req)
}

func (h *MaintenanceHandler) SetRequestStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	req, err := h.svc.SetRequestStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, req)
}

func (h *MaintenanceHandler) StartRecord(c *gin.Context) {
	var in service.StartRecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}
	if in.Technician == "" {
		in.Technician = web.GetUserID(c)
	}

	rec, err := h.svc.StartRecord(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, rec)
}

func (h *MaintenanceHandler) ResolveRecord(c *gin.Context) {
	var in service.ResolveRecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	rec, err := h.svc.ResolveRecord(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, rec)
}

func (h *MaintenanceHandler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		web.BadRequest(c, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	defer src.Close()

	a, err := h.attachments.Upload(
		c.Request.Context(),
		c.Param("id"),
		web.GetUserID(c),
		src,
		file.Filename,
		file.Size,
		file.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, a)
}

func (h *MaintenanceHandler) ListAttachments(c *gin.Context) {
	items, err := h.attachments.ListByRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Success(c, items)
}

func (h *MaintenanceHandler) DownloadAttachment(c *gin.Context) {
	object, a, err := h.attachments.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer object.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+a.FileName+"\"")
	c.DataFromReader(200, a.FileSize, a.MimeType, object, nil)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		web.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		web.BadRequest(c, err.Error())
	default:
		web.InternalError(c, err.Error())
	}
}
