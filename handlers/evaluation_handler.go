package handlers

import (
	"net/http"

	"unicampus/services"

	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct {
	evaluationService *services.EvaluationService
}

func NewEvaluationHandler(evaluationService *services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
	}
}

func (h *EvaluationHandler) CreateEvaluation(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	var req services.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation, err := h.evaluationService.CreateEvaluation(userID, role, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, evaluation)
}

func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	evaluation, err := h.evaluationService.GetEvaluation(evaluationID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

func (h *EvaluationHandler) ListForSubject(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	evaluations, err := h.evaluationService.ListForSubject(subjectID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluations)
}

func (h *EvaluationHandler) UpdateEvaluation(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation, err := h.evaluationService.UpdateEvaluation(evaluationID, userID, role, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

type visibilityRequest struct {
	Visibility string `json:"visibility" binding:"required"`
}

func (h *EvaluationHandler) SetVisibility(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation, err := h.evaluationService.SetVisibility(evaluationID, userID, role, req.Visibility)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

func (h *EvaluationHandler) DeleteEvaluation(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.evaluationService.DeleteEvaluation(evaluationID, userID, role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Evaluation deleted successfully"})
}

func (h *EvaluationHandler) AddQuestion(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.evaluationService.AddQuestion(evaluationID, userID, role, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *EvaluationHandler) UpdateQuestion(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "questionID")
	if !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.evaluationService.UpdateQuestion(questionID, userID, role, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *EvaluationHandler) DeleteQuestion(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "questionID")
	if !ok {
		return
	}

	if err := h.evaluationService.DeleteQuestion(questionID, userID, role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

func (h *EvaluationHandler) SwapQuestions(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.SwapQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.evaluationService.SwapQuestions(evaluationID, userID, role, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Questions reordered"})
}
