package handlers

import (
	"net/http"
	"strconv"

	"unicampus/services"

	"github.com/gin-gonic/gin"
)

type SubjectHandler struct {
	subjectService *services.SubjectService
}

func NewSubjectHandler(subjectService *services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	_, role, ok := caller(c)
	if !ok {
		return
	}

	var req services.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.subjectService.CreateSubject(role, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	subjects, err := h.subjectService.ListSubjects(userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

func (h *SubjectHandler) GetSubject(c *gin.Context) {
	if _, _, ok := caller(c); !ok {
		return
	}
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	subject, err := h.subjectService.GetSubject(subjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	_, role, ok := caller(c)
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.subjectService.UpdateSubject(role, subjectID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	_, role, ok := caller(c)
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.subjectService.DeleteSubject(role, subjectID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subject deleted successfully"})
}

type enrollRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
}

func (h *SubjectHandler) Enroll(c *gin.Context) {
	_, role, ok := caller(c)
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enrollment, err := h.subjectService.Enroll(role, subjectID, req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

func (h *SubjectHandler) Unenroll(c *gin.Context) {
	_, role, ok := caller(c)
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}

	if err := h.subjectService.Unenroll(role, subjectID, studentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enrollment removed"})
}

func (h *SubjectHandler) ListEnrolled(c *gin.Context) {
	_, role, ok := caller(c)
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	students, err := h.subjectService.ListEnrolled(role, subjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
