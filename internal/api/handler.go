package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"seafood-order-service/internal/cart"
	"seafood-order-service/internal/models"
	"seafood-order-service/internal/service"
	"seafood-order-service/internal/store"
	"seafood-order-service/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionHeader = "X-Session-ID"

// Handler contains HTTP handlers
type Handler struct {
	store         *store.Store
	cartService   *service.CartService
	orderService  *service.OrderService
	reportService *service.ReportService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	store *store.Store,
	cartService *service.CartService,
	orderService *service.OrderService,
	reportService *service.ReportService,
) *Handler {
	return &Handler{
		store:         store,
		cartService:   cartService,
		orderService:  orderService,
		reportService: reportService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", sessionHeader, "Idempotency-Key"},
		AllowCredentials: false,
	}))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.POST("/products", h.createProduct)
		v1.PATCH("/products/:id", h.updateProduct)

		v1.GET("/clients", h.listClients)
		v1.GET("/clients/:id", h.getClient)
		v1.POST("/clients", h.createClient)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PUT("/cart/items/:productId", h.updateCartItem)
		v1.DELETE("/cart/items/:productId", h.removeCartItem)
		v1.POST("/cart/clear", h.clearCart)

		v1.POST("/orders", h.submitOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PATCH("/orders/:id/status", h.changeOrderStatus)

		v1.GET("/reports/monthly", h.monthlyReport)
		v1.GET("/reports/monthly/csv", h.monthlyReportCSV)

		v1.GET("/documents", h.listDocuments)
		v1.GET("/documents/:id", h.getDocument)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.store.GetProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.store.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category" binding:"required"`
	Unit      string `json:"unit" binding:"required"`
	Price     int64  `json:"price" binding:"required,min=1"`
	Available bool   `json:"available"`
}

func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product := &models.Product{
		ID:        req.ID,
		Name:      req.Name,
		Category:  req.Category,
		Unit:      req.Unit,
		Price:     req.Price,
		Available: req.Available,
	}

	if err := h.store.CreateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	Price     int64 `json:"price" binding:"required,min=1"`
	Available *bool `json:"available" binding:"required"`
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.store.UpdateProduct(c.Request.Context(), c.Param("id"), req.Price, *req.Available); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listClients(c *gin.Context) {
	clients, err := h.store.GetClients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (h *Handler) getClient(c *gin.Context) {
	client, err := h.store.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) createClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if client.ID == "" || client.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client id and name are required"})
		return
	}

	if err := h.store.CreateClient(c.Request.Context(), &client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, client)
}

func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s header is required", sessionHeader)})
		return "", false
	}
	return id, true
}

func (h *Handler) getCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.cartService.View(c.Request.Context(), sid))
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Notes     string `json:"notes"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), sid, req.ProductID, req.Quantity, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownProduct):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	view := h.cartService.UpdateQuantity(c.Request.Context(), sid, c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, view)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view := h.cartService.RemoveItem(c.Request.Context(), sid, c.Param("productId"))
	c.JSON(http.StatusOK, view)
}

func (h *Handler) clearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	h.cartService.Clear(c.Request.Context(), sid)
	c.Status(http.StatusNoContent)
}

func (h *Handler) submitOrder(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	order, items, err := h.orderService.Submit(c.Request.Context(), sid, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cart is empty"})
		case errors.Is(err, service.ErrMissingClientInfo):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit order", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order, "items": items})
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("client"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) getOrder(c *gin.Context) {
	order, items, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (h *Handler) changeOrderStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "details": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Status change rejected", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// reportWindow parses the year, month and optional tz query parameters.
// tz defaults to UTC when absent.
func (h *Handler) reportWindow(c *gin.Context) (int, time.Month, *time.Location, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})
		return 0, 0, nil, false
	}
	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query parameter must be 1-12"})
		return 0, 0, nil, false
	}
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone", "details": err.Error()})
			return 0, 0, nil, false
		}
	}
	return year, time.Month(monthNum), loc, true
}

func (h *Handler) monthlyReport(c *gin.Context) {
	year, month, loc, ok := h.reportWindow(c)
	if !ok {
		return
	}

	report, err := h.reportService.Monthly(c.Request.Context(), year, month, loc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) monthlyReportCSV(c *gin.Context) {
	year, month, loc, ok := h.reportWindow(c)
	if !ok {
		return
	}

	report, err := h.reportService.Monthly(c.Request.Context(), year, month, loc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report", "details": err.Error()})
		return
	}

	filename := fmt.Sprintf("sales-report-%d-%02d.csv", year, int(month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "text/csv")
	if err := service.WriteReportCSV(c.Writer, report); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func (h *Handler) listDocuments(c *gin.Context) {
	docs, err := h.store.GetDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) getDocument(c *gin.Context) {
	doc, err := h.store.GetDocumentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
