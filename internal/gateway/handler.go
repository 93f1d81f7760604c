package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	"github.com/shareloop/service-sharing/internal/middleware"
)

// Handler validates request shapes and relays them to the share-server.
// It carries no business logic; everything that passes validation is
// forwarded verbatim and the backend's status and body are relayed back.
type Handler struct {
	client *Client
	logger *zap.Logger
}

// NewHandler creates a gateway handler over the given relay client.
func NewHandler(client *Client, logger *zap.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

// RegisterRoutes registers the full relayed API surface.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.passthrough)
		users.GET("/:id", h.passthroughID)
		users.PATCH("/:id", h.passthroughIDBody)
		users.DELETE("/:id", h.passthroughID)
	}

	items := r.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.withIdentityAndPaging)
		items.GET("/search", h.withIdentityAndPaging)
		items.GET("/:id", h.withIdentityAndID)
		items.PATCH("/:id", h.UpdateItem)
		items.DELETE("/:id", h.withIdentityAndID)
		items.POST("/:id/comment", h.AddComment)
	}

	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/owner", h.ListBookings)
		bookings.GET("/:id", h.withIdentityAndID)
		bookings.PATCH("/:id", h.DecideBooking)
	}

	requests := r.Group("/requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.withIdentity)
		requests.GET("/all", h.withIdentityAndPaging)
		requests.GET("/:id", h.withIdentityAndID)
	}
}

// --- User routes ---

// CreateUser validates POST /users.
func (h *Handler) CreateUser(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if !h.decode(c, body, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.reject(c, "name is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		h.reject(c, "a well-formed email is required")
		return
	}

	h.relay(c, body)
}

// --- Item routes ---

// CreateItem validates POST /items.
func (h *Handler) CreateItem(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Available   *bool  `json:"available"`
	}
	if !h.decode(c, body, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.reject(c, "name is required")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		h.reject(c, "description is required")
		return
	}
	if req.Available == nil {
		h.reject(c, "available is required")
		return
	}

	h.relay(c, body)
}

// UpdateItem validates PATCH /items/:id.
func (h *Handler) UpdateItem(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	if !h.validID(c) {
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	h.relay(c, body)
}

// AddComment validates POST /items/:id/comment.
func (h *Handler) AddComment(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	if !h.validID(c) {
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if !h.decode(c, body, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.reject(c, "text is required")
		return
	}

	h.relay(c, body)
}

// --- Booking routes ---

// CreateBooking validates POST /bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var req struct {
		ItemID uuid.UUID  `json:"item_id"`
		Start  *time.Time `json:"start"`
		End    *time.Time `json:"end"`
	}
	if !h.decode(c, body, &req) {
		return
	}
	if req.ItemID == uuid.Nil {
		h.reject(c, "item_id is required")
		return
	}
	if req.Start == nil || req.End == nil {
		h.reject(c, "start and end are required")
		return
	}
	if !req.End.After(*req.Start) {
		h.reject(c, "end must be after start")
		return
	}

	h.relay(c, body)
}

// DecideBooking validates PATCH /bookings/:id?approved=.
func (h *Handler) DecideBooking(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	if !h.validID(c) {
		return
	}
	if _, err := strconv.ParseBool(c.Query("approved")); err != nil {
		h.reject(c, "approved must be true or false")
		return
	}
	h.relay(c, nil)
}

// ListBookings validates GET /bookings and GET /bookings/owner.
func (h *Handler) ListBookings(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	if _, err := bookingDomain.ParseState(c.Query("state")); err != nil {
		h.reject(c, err.Error())
		return
	}
	if !h.validPaging(c) {
		return
	}
	h.relay(c, nil)
}

// --- Request routes ---

// CreateRequest validates POST /requests.
func (h *Handler) CreateRequest(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if !h.decode(c, body, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		h.reject(c, "description is required")
		return
	}

	h.relay(c, body)
}

// --- Generic relays ---

func (h *Handler) passthrough(c *gin.Context) {
	h.relay(c, nil)
}

func (h *Handler) passthroughID(c *gin.Context) {
	if !h.validID(c) {
		return
	}
	h.relay(c, nil)
}

func (h *Handler) passthroughIDBody(c *gin.Context) {
	if !h.validID(c) {
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	h.relay(c, body)
}

func (h *Handler) withIdentity(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	h.relay(c, nil)
}

func (h *Handler) withIdentityAndID(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	if !h.validID(c) {
		return
	}
	h.relay(c, nil)
}

func (h *Handler) withIdentityAndPaging(c *gin.Context) {
	if _, ok := h.requireSharer(c); !ok {
		return
	}
	if !h.validPaging(c) {
		return
	}
	h.relay(c, nil)
}

// --- Helpers ---

func (h *Handler) relay(c *gin.Context, body []byte) {
	res, err := h.client.Forward(
		c.Request.Context(),
		c.Request.Method,
		c.Request.URL.Path,
		c.Request.URL.Query(),
		c.GetHeader(middleware.HeaderSharerID),
		body,
	)
	if err != nil {
		h.logger.Error("relay failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "share-server unavailable"})
		return
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(res.Status, contentType, res.Body)
}

func (h *Handler) requireSharer(c *gin.Context) (string, bool) {
	raw := c.GetHeader(middleware.HeaderSharerID)
	if raw == "" {
		h.reject(c, "X-Sharer-User-Id header is required")
		return "", false
	}
	if _, err := uuid.Parse(raw); err != nil {
		h.reject(c, "X-Sharer-User-Id must be a valid UUID")
		return "", false
	}
	return raw, true
}

func (h *Handler) validID(c *gin.Context) bool {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		h.reject(c, "invalid ID")
		return false
	}
	return true
}

// validPaging checks the from/size bounds the backend would reject anyway,
// so malformed listings never cross the wire.
func (h *Handler) validPaging(c *gin.Context) bool {
	var from, size *int
	if raw := c.Query("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.reject(c, "from must be an integer")
			return false
		}
		from = &v
	}
	if raw := c.Query("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.reject(c, "size must be an integer")
			return false
		}
		size = &v
	}
	if from != nil && size != nil {
		if *from < 0 {
			h.reject(c, "from must not be negative")
			return false
		}
		if *size < 1 {
			h.reject(c, "size must be positive")
			return false
		}
	}
	return true
}

func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.reject(c, "failed to read request body")
		return nil, false
	}
	return body, true
}

func (h *Handler) decode(c *gin.Context, body []byte, v interface{}) bool {
	if err := json.Unmarshal(body, v); err != nil {
		h.reject(c, "malformed JSON body")
		return false
	}
	return true
}

func (h *Handler) reject(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
