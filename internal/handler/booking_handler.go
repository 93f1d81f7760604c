package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/application"
	"github.com/shareloop/service-sharing/internal/middleware"
	"github.com/shareloop/service-sharing/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookerBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.DecideBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	bookerID, ok := requireSharerID(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), bookerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DecideBooking handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	actorID, ok := requireSharerID(c)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.DecideBooking(c.Request.Context(), actorID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	callerID, ok := requireSharerID(c)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), callerID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBookerBookings handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListBookerBookings(c *gin.Context) {
	bookerID, ok := requireSharerID(c)
	if !ok {
		return
	}
	from, size, ok := parseFromSize(c)
	if !ok {
		return
	}

	result, err := h.service.GetBookerBookings(c.Request.Context(), bookerID, c.Query("state"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOwnerBookings handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	ownerID, ok := requireSharerID(c)
	if !ok {
		return
	}
	from, size, ok := parseFromSize(c)
	if !ok {
		return
	}

	result, err := h.service.GetOwnerBookings(c.Request.Context(), ownerID, c.Query("state"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// --- Shared helpers ---

// requireSharerID extracts the caller id set by IdentityMiddleware, failing
// the request with 400 when the header is missing or malformed.
func requireSharerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetSharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return uuid.Nil, false
	}
	return id, true
}

// parseFromSize reads the optional from/size query parameters. Bounds are
// validated by the service layer; only integer shape is checked here.
func parseFromSize(c *gin.Context) (*int, *int, bool) {
	var from, size *int
	if raw := c.Query("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "from must be an integer")
			return nil, nil, false
		}
		from = &v
	}
	if raw := c.Query("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "size must be an integer")
			return nil, nil, false
		}
		size = &v
	}
	return from, size, true
}
