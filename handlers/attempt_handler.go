package handlers

import (
	"net/http"

	"unicampus/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
}

func NewAttemptHandler(attemptService *services.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
	}
}

// StartAttempt creates or resumes the caller's attempt at an evaluation and
// returns the question set with the answers hidden.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.attemptService.StartAttempt(c.Request.Context(), evaluationID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type submitRequest struct {
	Answers []services.AnswerSubmission `json:"answers"`
}

func (h *AttemptHandler) Submit(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), attemptID, userID, role, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	attempt, err := h.attemptService.GetAttempt(attemptID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

func (h *AttemptHandler) ListForEvaluation(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	attempts, err := h.attemptService.ListForEvaluation(evaluationID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

func (h *AttemptHandler) ListMine(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}

	attempts, err := h.attemptService.ListMine(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

func (h *AttemptHandler) Stats(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.attemptService.Stats(evaluationID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
