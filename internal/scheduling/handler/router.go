package handler

import (
	"github.com/julienschmidt/httprouter"

	"bookhaus/internal/scheduling/service"
	"bookhaus/pkg/logger"
)

// EngineHandler exposes the scheduling engine over HTTP. It translates
// requests into engine calls and engine results into JSON; every decision
// stays inside the engine.
type EngineHandler struct {
	engine service.Engine
	log    *logger.Logger
}

func NewEngineHandler(engine service.Engine, log *logger.Logger) *EngineHandler {
	return &EngineHandler{engine: engine, log: log}
}

func (h *EngineHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/bookings", h.SaveBooking)
	router.GET("/bookings", h.ListBookings)
	router.GET("/bookings/:id", h.GetBooking)
	router.POST("/bookings/:id/cancel", h.CancelBooking)
	router.POST("/bookings/:id/complete", h.CompleteBooking)
	router.POST("/candidates", h.OpenCandidate)
	router.POST("/suggestions", h.Suggestions)

	router.GET("/resources", h.ListResources)
	router.POST("/resources/:id/compliance", h.RecomputeCompliance)
	router.POST("/compliance/sweep", h.ComplianceSweep)

	router.GET("/mileage/total", h.TotalDistance)
	router.GET("/mileage/report", h.MileageReport)
	router.GET("/mileage/suggested-reading/:id", h.SuggestedReading)

	router.GET("/waitlist", h.ListWaitingEntries)
	router.POST("/waitlist", h.AddWaitingEntry)

	router.GET("/plan/:date", h.DayPlan)
	router.GET("/week/:date", h.WeekPlan)

	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
}
