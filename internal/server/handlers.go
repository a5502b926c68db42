package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pharmacy-inventory/internal/alerts"
	"pharmacy-inventory/internal/forecast"
	"pharmacy-inventory/internal/inventory"
	"pharmacy-inventory/internal/reorder"
)

const chatUnavailableMessage = "⚠️ AI service temporarily unavailable."

// ChatRequest is the /chatbot payload.
type ChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// ReorderRequest is the /reorder-request payload.
type ReorderRequest struct {
	Medicine string `json:"medicine"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleDashboardKPIs(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Analytics.Dashboard(s.deps.Dataset))
}

func (s *Server) handleInventory(c *gin.Context) {
	snapshot := s.deps.Snapshot
	if snapshot == nil {
		snapshot = inventory.Snapshot{}
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleForecast(c *gin.Context) {
	drug := c.Param("drug")
	points := s.deps.Forecast.Forecast(c.Request.Context(), s.deps.Dataset.Sales, drug)
	if points == nil {
		points = []forecast.Point{}
	}
	c.JSON(http.StatusOK, points)
}

func (s *Server) handleLowStockAlerts(c *gin.Context) {
	out := s.deps.Alerts.LowStock(s.deps.Snapshot)
	if out == nil {
		out = []alerts.LowStockAlert{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleExpiryAlerts(c *gin.Context) {
	out := s.deps.Alerts.Expiry(s.deps.Dataset.Purchases)
	if out == nil {
		out = []alerts.ExpiryAlert{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleWastage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"wastage_cost": s.deps.Analytics.WastageCost(s.deps.Dataset.Purchases),
	})
}

func (s *Server) handleExpiryRisk(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Analytics.ExpiryRisk(s.deps.Dataset.Purchases))
}

func (s *Server) handleExpiryLossRecovery(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Analytics.LossRecovery(s.deps.Dataset.Purchases))
}

// handleChatbot runs the full classify-and-route pipeline. Whatever goes
// wrong inside, the caller only ever sees the generic unavailable message.
func (s *Server) handleChatbot(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("chatbot handler panicked", map[string]interface{}{
				"panic": r,
			})
			c.JSON(http.StatusOK, gin.H{"response": chatUnavailableMessage})
		}
	}()

	answer, _ := s.deps.Bot.Process(
		c.Request.Context(),
		req.Query,
		s.deps.Snapshot,
		s.deps.Alerts.Expiry(s.deps.Dataset.Purchases),
		s.deps.Analytics.WastageCost(s.deps.Dataset.Purchases),
	)
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func (s *Server) handleReorderRequest(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	medicine := strings.ToLower(strings.TrimSpace(req.Medicine))
	if medicine == "" {
		c.JSON(http.StatusOK, reorder.Result{
			Status:  reorder.StatusError,
			Message: "Medicine name is required",
		})
		return
	}

	c.JSON(http.StatusOK, s.deps.Reorder.Create(c.Request.Context(), medicine, s.deps.Snapshot))
}

// handleReorderHistory lists the persisted requests, newest first. Without a
// configured store the list is simply empty.
func (s *Server) handleReorderHistory(c *gin.Context) {
	if s.deps.ReorderLog == nil {
		c.JSON(http.StatusOK, []reorder.Request{})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	requests, err := s.deps.ReorderLog.Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("reorder history lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reorder requests"})
		return
	}
	if requests == nil {
		requests = []reorder.Request{}
	}
	c.JSON(http.StatusOK, requests)
}
