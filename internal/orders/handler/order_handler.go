package handler

import (
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/NunoCastro30/TechFlow/internal/orders/repository"
	"github.com/NunoCastro30/TechFlow/internal/orders/service"
	"github.com/NunoCastro30/TechFlow/internal/shared/web"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders   *service.OrderService
	clients  *service.ClientService
	products *service.ProductService
}

func NewOrderHandler(orders *service.OrderService, clients *service.ClientService, products *service.ProductService) *OrderHandler {
	return &OrderHandler{orders: orders, clients: clients, products: products}
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup, jwtSecret string) {
	authed := r.Group("", middleware.JWTAuth(jwtSecret))

	authed.GET("/clients", h.ListClients)
	authed.POST("/clients", h.CreateClient)
	authed.GET("/clients/:id", h.GetClient)
	authed.PUT("/clients/:id", h.UpdateClient)

	authed.GET("/products", h.ListProducts)
	authed.POST("/products", h.CreateProduct)
	authed.GET("/products/:id", h.GetProduct)
	authed.PUT("/products/:id/materials", h.SetProductMaterials)

	authed.GET("/client-orders", h.ListOrders)
	authed.POST("/client-orders", h.CreateOrder)
	authed.GET("/client-orders/:id", h.GetOrder)
	authed.POST("/client-orders/:id/check-stock", h.CheckStock)
	authed.PUT("/client-orders/:id/status", h.SetOrderStatus)
}

func (h *OrderHandler) ListClients(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.clients.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *OrderHandler) CreateClient(c *gin.Context) {
	var in service.CreateClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	client, err := h.clients.Create(c.Request.Context(), &in)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Created(c, client)
}

func (h *OrderHandler) GetClient(c *gin.Context) {
	client, err := h.clients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, client)
}

func (h *OrderHandler) UpdateClient(c *gin.Context) {
	var in service.UpdateClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	client, err := h.clients.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, client)
}

func (h *OrderHandler) ListProducts(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.products.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *OrderHandler) CreateProduct(c *gin.Context) {
	var in service.CreateProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	p, err := h.products.Create(c.Request.Context(), &in)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.Created(c, p)
}

func (h *OrderHandler) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, p)
}

func (h *OrderHandler) SetProductMaterials(c *gin.Context) {
	var in struct {
		Materials []service.ProductMaterialInput `json:"materials" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	p, err := h.products.SetMaterials(c.Request.Context(), c.Param("id"), in.Materials)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, p)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	items, total, err := h.orders.List(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		web.InternalError(c, err.Error())
		return
	}
	web.SuccessList(c, items, total, page, pageSize)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Created(c, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, order)
}

func (h *OrderHandler) CheckStock(c *gin.Context) {
	report, err := h.orders.CheckFeasibility(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, report)
}

func (h *OrderHandler) SetOrderStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		web.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.SetStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	web.Success(c, order)
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
