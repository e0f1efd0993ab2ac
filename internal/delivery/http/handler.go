package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/splitcart/backend/internal/domain"
	"github.com/splitcart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	compare *usecase.CompareService
	lists   domain.ListRepository
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(compare *usecase.CompareService, lists domain.ListRepository, logger zerolog.Logger) *Handler {
	return &Handler{
		compare: compare,
		lists:   lists,
		logger:  logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "splitcart-backend",
		"version": "1.0.0",
	})
}

// itemPayload is the request body for adding a product to a list
type itemPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name" binding:"required"`
	Packaging string `json:"packaging"`
	Thumbnail string `json:"thumbnail"`
}

func (p itemPayload) toProduct() domain.Product {
	return domain.Product{
		Key:       domain.ProductKey(p.ID, p.Name, p.Packaging),
		Name:      p.Name,
		Packaging: p.Packaging,
		Thumbnail: p.Thumbnail,
	}
}

// CreateList starts a new empty shopping list
func (h *Handler) CreateList(c *gin.Context) {
	list, err := h.lists.Create(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// GetList returns a shopping list by id
func (h *Handler) GetList(c *gin.Context) {
	list, err := h.lists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddItem appends a product to a shopping list
func (h *Handler) AddItem(c *gin.Context) {
	var payload itemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload: " + err.Error()})
		return
	}

	list, err := h.lists.AddItem(c.Request.Context(), c.Param("id"), payload.toProduct())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveItem deletes a product from a shopping list by key
func (h *Handler) RemoveItem(c *gin.Context) {
	list, err := h.lists.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteList removes a shopping list entirely
func (h *Handler) DeleteList(c *gin.Context) {
	if err := h.lists.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// compareRequest selects products either by stored list id or ad hoc
type compareRequest struct {
	ListID   string        `json:"listId"`
	Products []itemPayload `json:"products"`
}

// Compare resolves prices for a product selection and returns the
// comparison table plus both allocation splits.
func (h *Handler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid compare payload: " + err.Error()})
		return
	}

	var keys []string
	listKey := req.ListID

	if req.ListID != "" {
		list, err := h.lists.Get(c.Request.Context(), req.ListID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		for _, item := range list.Items {
			keys = append(keys, item.Key)
		}
	} else {
		for _, p := range req.Products {
			keys = append(keys, domain.ProductKey(p.ID, p.Name, p.Packaging))
		}
		// Ad-hoc selections get their own last-request-wins stream.
		listKey = usecase.SnapshotFingerprint(keys)
	}

	if len(keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to compare: selection is empty"})
		return
	}

	result, err := h.compare.Compare(c.Request.Context(), listKey, keys)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrListNotFound), errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStaleRequest):
		// A newer compare for the same list took over; the client should
		// wait for that request's response instead.
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrPricingUnavailable):
		h.logger.Error().Err(err).Msg("pricing request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "price data is currently unavailable"})
	default:
		h.logger.Error().Err(err).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
