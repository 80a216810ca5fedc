package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID       string `json:"flight_id"`
	Passengers     int    `json:"passengers"`
	CabinClass     string `json:"cabin_class"`
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
}

type cancelBookingRequest struct {
	Email string `json:"email"`
}

type bookingResponse struct {
	BookingID      string  `json:"booking_id"`
	FlightID       string  `json:"flight_id"`
	Route          string  `json:"route"`
	Departure      string  `json:"departure"`
	Arrival        string  `json:"arrival"`
	Passengers     int     `json:"passengers"`
	CabinClass     string  `json:"cabin_class"`
	PassengerName  string  `json:"passenger_name"`
	PassengerEmail string  `json:"passenger_email"`
	TotalPrice     float64 `json:"total_price"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	CancelledAt    string  `json:"cancelled_at,omitempty"`
}

type cancellationResponse struct {
	BookingID       string  `json:"booking_id"`
	Status          string  `json:"status"`
	RefundAmount    float64 `json:"refund_amount"`
	OriginalAmount  float64 `json:"original_amount"`
	CancellationFee float64 `json:"cancellation_fee"`
	CancelledAt     string  `json:"cancelled_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/summary", h.summary)
	router.GET("/:id", h.view)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	created, err := h.service.Book(c.Request.Context(), booking.BookInput{
		FlightID:       req.FlightID,
		Passengers:     req.Passengers,
		CabinClass:     req.CabinClass,
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) view(c *gin.Context) {
	b, err := h.service.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), c.Param("id"), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancellationResponse{
		BookingID:       result.BookingID,
		Status:          string(result.Status),
		RefundAmount:    result.RefundAmount.InexactFloat64(),
		OriginalAmount:  result.OriginalAmount.InexactFloat64(),
		CancellationFee: result.CancellationFee.InexactFloat64(),
		CancelledAt:     result.CancelledAt.Format(time.RFC3339),
	})
}

func (h *BookingHandler) summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		BookingID:      b.ID,
		FlightID:       b.FlightID,
		Route:          b.Route.String(),
		Departure:      b.Departure,
		Arrival:        b.Arrival,
		Passengers:     b.Passengers,
		CabinClass:     string(b.CabinClass),
		PassengerName:  b.PassengerName,
		PassengerEmail: b.PassengerEmail,
		TotalPrice:     b.TotalPrice.InexactFloat64(),
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}
