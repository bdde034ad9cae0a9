package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carshare/internal/domain"
	"carshare/internal/middleware"
	"carshare/internal/service"
)

// CarHandler handles HTTP requests for the car catalog.
type CarHandler struct {
	carService *service.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(carService *service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// CreateCarRequest is the HTTP request body for adding a car.
type CreateCarRequest struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Type          string `json:"type"`
	Inventory     int    `json:"inventory"`
	DailyFeeCents int64  `json:"daily_fee_cents"`
}

// UpdateCarRequest is the HTTP request body for updating a car.
type UpdateCarRequest struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Type          string `json:"type"`
	DailyFeeCents int64  `json:"daily_fee_cents"`
}

// CarResponse is the HTTP response for car data.
type CarResponse struct {
	ID            string `json:"id"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Type          string `json:"type"`
	Inventory     int    `json:"inventory"`
	DailyFeeCents int64  `json:"daily_fee_cents"`
}

// ListCarsResponse is the HTTP response for a catalog page.
type ListCarsResponse struct {
	Cars  []CarResponse `json:"cars"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
}

func toCarResponse(car *domain.Car) CarResponse {
	return CarResponse{
		ID:            car.ID,
		Brand:         car.Brand,
		Model:         car.Model,
		Type:          string(car.Type),
		Inventory:     car.Inventory,
		DailyFeeCents: car.DailyFeeCents,
	}
}

// Create handles POST /v1/cars
func (h *CarHandler) Create(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	car, err := h.carService.CreateCar(c.Request.Context(), service.CreateCarRequest{
		Actor:         actor,
		Brand:         req.Brand,
		Model:         req.Model,
		Type:          req.Type,
		Inventory:     req.Inventory,
		DailyFeeCents: req.DailyFeeCents,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toCarResponse(car))
}

// Get handles GET /v1/cars/:id
func (h *CarHandler) Get(c *gin.Context) {
	car, err := h.carService.GetCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCarResponse(car))
}

// List handles GET /v1/cars
func (h *CarHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	cars, total, err := h.carService.ListCars(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response := ListCarsResponse{Cars: []CarResponse{}, Total: total, Page: page}
	for i := range cars {
		response.Cars = append(response.Cars, toCarResponse(&cars[i]))
	}
	respondJSON(c, http.StatusOK, response)
}

// Update handles PUT /v1/cars/:id
func (h *CarHandler) Update(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	car, err := h.carService.UpdateCar(c.Request.Context(), service.UpdateCarRequest{
		Actor:         actor,
		CarID:         c.Param("id"),
		Brand:         req.Brand,
		Model:         req.Model,
		Type:          req.Type,
		DailyFeeCents: req.DailyFeeCents,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCarResponse(car))
}

// Delete handles DELETE /v1/cars/:id
func (h *CarHandler) Delete(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	if err := h.carService.DeleteCar(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
