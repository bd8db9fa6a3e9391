package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/catalog-admin-public/internal/catalog"
	"github.com/catalog-admin-public/internal/http/middleware"
)

const (
	msgFieldsRequired = "Все поля обязательны"
	msgNotFound       = "Товар не найден"
	msgListFailed     = "Ошибка при получении товаров"
	msgGetFailed      = "Ошибка при получении товара"
	msgCreateFailed   = "Ошибка при добавлении товара"
	msgUpdateFailed   = "Ошибка при обновлении товара"
	msgDeleteFailed   = "Ошибка при удалении товара"
	msgDeleted        = "Товар удален"
)

// ProductService is the catalog contract the transport layer drives.
type ProductService interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Create(ctx context.Context, fields catalog.Fields) (catalog.Product, error)
	Update(ctx context.Context, id string, fields catalog.Fields) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	products ProductService
	logger   *log.Entry
}

func NewHandler(products ProductService, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return &Handler{products: products, logger: logger}
}

// ---------------------- PRODUCTS ----------------------

func (h *Handler) ListProducts(ctx *gin.Context) {
	products, err := h.products.List(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, err, msgListFailed)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(ctx *gin.Context) {
	product, err := h.products.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.respondError(ctx, err, msgGetFailed)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(ctx *gin.Context) {
	var req catalog.Fields
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgFieldsRequired})
		return
	}

	product, err := h.products.Create(ctx.Request.Context(), req)
	if err != nil {
		h.respondError(ctx, err, msgCreateFailed)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(ctx *gin.Context) {
	var req catalog.Fields
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgFieldsRequired})
		return
	}

	product, err := h.products.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		h.respondError(ctx, err, msgUpdateFailed)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(ctx *gin.Context) {
	if err := h.products.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		h.respondError(ctx, err, msgDeleteFailed)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}

// ---------------------- HELPERS ----------------------

func (h *Handler) respondError(ctx *gin.Context, err error, failure string) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgFieldsRequired, "fields": verr.Fields})
	case errors.Is(err, catalog.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	default:
		h.logger.WithError(err).WithField("request_id", middleware.RequestIDFrom(ctx)).Error(failure)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}
