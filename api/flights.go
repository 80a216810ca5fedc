package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightResponse struct {
	ID        string  `json:"id"`
	Price     float64 `json:"price"`
	Departure string  `json:"departure"`
	Arrival   string  `json:"arrival"`
	Seats     int     `json:"seats"`
}

type searchResponse struct {
	Route   string           `json:"route"`
	Date    string           `json:"date"`
	Flights []flightResponse `json:"flights"`
	Count   int              `json:"count"`
}

type availabilityResponse struct {
	FlightID       string   `json:"flight_id"`
	Route          string   `json:"route"`
	Requested      int      `json:"requested"`
	Available      int      `json:"available"`
	CanBook        bool     `json:"can_book"`
	PricePerPerson float64  `json:"price_per_person"`
	TotalPrice     *float64 `json:"total_price"`
	Departure      string   `json:"departure"`
	Arrival        string   `json:"arrival"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id/availability", h.availability)
}

func (h *FlightHandler) search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("origin"), c.Query("destination"), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := searchResponse{
		Route:   result.Route,
		Date:    result.Date,
		Flights: make([]flightResponse, 0, len(result.Flights)),
		Count:   result.Count,
	}
	for _, f := range result.Flights {
		resp.Flights = append(resp.Flights, flightResponse{
			ID:        f.ID,
			Price:     f.Price.InexactFloat64(),
			Departure: f.Departure,
			Arrival:   f.Arrival,
			Seats:     f.Seats,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) availability(c *gin.Context) {
	passengers, err := strconv.Atoi(c.Query("passengers"))
	if err != nil {
		writeError(c, domain.Newf(domain.ErrInvalidPassengerCount, "passengers must be an integer"))
		return
	}

	quote, err := h.service.CheckAvailability(c.Request.Context(), c.Param("id"), passengers)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := availabilityResponse{
		FlightID:       quote.FlightID,
		Route:          quote.Route,
		Requested:      quote.Requested,
		Available:      quote.Available,
		CanBook:        quote.CanBook,
		PricePerPerson: quote.PricePerPerson.InexactFloat64(),
		Departure:      quote.Departure,
		Arrival:        quote.Arrival,
	}
	if quote.TotalPrice != nil {
		total := quote.TotalPrice.InexactFloat64()
		resp.TotalPrice = &total
	}
	c.JSON(http.StatusOK, resp)
}
