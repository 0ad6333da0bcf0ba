package services

import (
	"errors"

	"unicampus/models"

	"gorm.io/gorm"
)

type EvaluationService struct {
	db *gorm.DB
}

func NewEvaluationService(db *gorm.DB) *EvaluationService {
	return &EvaluationService{db: db}
}

type EvaluationRequest struct {
	SubjectID        uint   `json:"subject_id" binding:"required"`
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	TimeLimitMinutes int    `json:"time_limit_minutes" binding:"required,min=1"`
}

type QuestionRequest struct {
	Statement     string `json:"statement" binding:"required"`
	OptionA       string `json:"option_a" binding:"required"`
	OptionB       string `json:"option_b" binding:"required"`
	OptionC       string `json:"option_c" binding:"required"`
	OptionD       string `json:"option_d" binding:"required"`
	CorrectOption string `json:"correct_option" binding:"required"`
	Explanation   string `json:"explanation"`
	// Weight 0 means "default to 1" when adding a question and "keep the
	// current weight" when updating one.
	Weight int `json:"weight"`
}

type SwapQuestionsRequest struct {
	FirstQuestionID  uint `json:"first_question_id" binding:"required"`
	SecondQuestionID uint `json:"second_question_id" binding:"required"`
}

func (s *EvaluationService) CreateEvaluation(callerID uint, callerRole string, req *EvaluationRequest) (*models.Evaluation, error) {
	if callerRole != models.RoleProfessor && callerRole != models.RoleAdmin {
		return nil, forbidden("only professors can create evaluations")
	}

	var subject models.Subject
	if err := s.db.First(&subject, req.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("subject not found")
		}
		return nil, err
	}

	evaluation := models.Evaluation{
		SubjectID:        req.SubjectID,
		ProfessorID:      callerID,
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Visibility:       models.VisibilityHidden,
	}
	if err := s.db.Create(&evaluation).Error; err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// ownedEvaluation loads an evaluation and checks the caller may author it:
// the owning professor or an admin.
func (s *EvaluationService) ownedEvaluation(evaluationID, callerID uint, callerRole string) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := s.db.First(&evaluation, evaluationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("evaluation not found")
		}
		return nil, err
	}
	if callerRole != models.RoleAdmin && evaluation.ProfessorID != callerID {
		return nil, forbidden("evaluation belongs to another professor")
	}
	return &evaluation, nil
}

// GetEvaluation returns the definition with its ordered question bank.
// Students only see published evaluations of subjects they are enrolled in,
// with the correct option and explanation stripped from every question.
func (s *EvaluationService) GetEvaluation(evaluationID, callerID uint, callerRole string) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position, id")
	}).First(&evaluation, evaluationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("evaluation not found")
		}
		return nil, err
	}

	if callerRole == models.RoleAdmin || (callerRole == models.RoleProfessor && evaluation.ProfessorID == callerID) {
		return &evaluation, nil
	}

	if evaluation.Visibility != models.VisibilityPublished {
		return nil, forbidden("evaluation is not published")
	}
	var enrolled int64
	if err := s.db.Model(&models.Enrollment{}).
		Where("subject_id = ? AND student_id = ?", evaluation.SubjectID, callerID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}
	if enrolled == 0 {
		return nil, forbidden("not enrolled in this subject")
	}

	for i := range evaluation.Questions {
		evaluation.Questions[i].CorrectOption = ""
		evaluation.Questions[i].Explanation = ""
	}
	return &evaluation, nil
}

// ListForSubject returns a subject's evaluations: all of them for admins and
// professors, published ones only for students.
func (s *EvaluationService) ListForSubject(subjectID, callerID uint, callerRole string) ([]models.Evaluation, error) {
	var subject models.Subject
	if err := s.db.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("subject not found")
		}
		return nil, err
	}

	q := s.db.Where("subject_id = ?", subjectID).Order("created_at DESC")
	if callerRole == models.RoleStudent {
		q = q.Where("visibility = ?", models.VisibilityPublished)
	}

	var evaluations []models.Evaluation
	if err := q.Find(&evaluations).Error; err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (s *EvaluationService) UpdateEvaluation(evaluationID, callerID uint, callerRole string, req *EvaluationRequest) (*models.Evaluation, error) {
	evaluation, err := s.ownedEvaluation(evaluationID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	evaluation.Title = req.Title
	evaluation.Description = req.Description
	evaluation.TimeLimitMinutes = req.TimeLimitMinutes
	if err := s.db.Save(evaluation).Error; err != nil {
		return nil, err
	}
	return evaluation, nil
}

func (s *EvaluationService) SetVisibility(evaluationID, callerID uint, callerRole, visibility string) (*models.Evaluation, error) {
	if visibility != models.VisibilityHidden && visibility != models.VisibilityPublished {
		return nil, invalid("visibility must be hidden or published")
	}

	evaluation, err := s.ownedEvaluation(evaluationID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(evaluation).Update("visibility", visibility).Error; err != nil {
		return nil, err
	}
	return evaluation, nil
}

// DeleteEvaluation removes the definition and its questions. Forbidden while
// attempts reference it, so recorded results can never be orphaned.
func (s *EvaluationService) DeleteEvaluation(evaluationID, callerID uint, callerRole string) error {
	if _, err := s.ownedEvaluation(evaluationID, callerID, callerRole); err != nil {
		return err
	}

	var attempts int64
	if err := s.db.Model(&models.Attempt{}).Where("evaluation_id = ?", evaluationID).Count(&attempts).Error; err != nil {
		return err
	}
	if attempts > 0 {
		return invalid("evaluation has recorded attempts")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", evaluationID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Evaluation{}, evaluationID).Error
	})
}

func validateQuestion(req *QuestionRequest) error {
	if !models.ValidOption(req.CorrectOption) {
		return invalid("correct option must be A, B, C or D")
	}
	if req.Weight < 0 {
		return invalid("weight must not be negative")
	}
	return nil
}

// AddQuestion appends a question to the bank. The ordinal position is
// assigned as max+1.
func (s *EvaluationService) AddQuestion(evaluationID, callerID uint, callerRole string, req *QuestionRequest) (*models.Question, error) {
	if _, err := s.ownedEvaluation(evaluationID, callerID, callerRole); err != nil {
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	weight := req.Weight
	if weight == 0 {
		weight = 1
	}

	var question models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		row := tx.Model(&models.Question{}).
			Where("evaluation_id = ?", evaluationID).
			Select("COALESCE(MAX(position), 0)").
			Row()
		if err := row.Scan(&maxPosition); err != nil {
			return err
		}

		question = models.Question{
			EvaluationID:  evaluationID,
			Statement:     req.Statement,
			OptionA:       req.OptionA,
			OptionB:       req.OptionB,
			OptionC:       req.OptionC,
			OptionD:       req.OptionD,
			CorrectOption: req.CorrectOption,
			Explanation:   req.Explanation,
			Weight:        weight,
			Position:      maxPosition + 1,
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *EvaluationService) UpdateQuestion(questionID, callerID uint, callerRole string, req *QuestionRequest) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("question not found")
		}
		return nil, err
	}
	if _, err := s.ownedEvaluation(question.EvaluationID, callerID, callerRole); err != nil {
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	question.Statement = req.Statement
	question.OptionA = req.OptionA
	question.OptionB = req.OptionB
	question.OptionC = req.OptionC
	question.OptionD = req.OptionD
	question.CorrectOption = req.CorrectOption
	question.Explanation = req.Explanation
	if req.Weight > 0 {
		question.Weight = req.Weight
	}
	if err := s.db.Save(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *EvaluationService) DeleteQuestion(questionID, callerID uint, callerRole string) error {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("question not found")
		}
		return err
	}
	if _, err := s.ownedEvaluation(question.EvaluationID, callerID, callerRole); err != nil {
		return err
	}

	return s.db.Delete(&models.Question{}, questionID).Error
}

// SwapQuestions exchanges the ordinal positions of two questions of the same
// evaluation in one transaction.
func (s *EvaluationService) SwapQuestions(evaluationID, callerID uint, callerRole string, req *SwapQuestionsRequest) error {
	if _, err := s.ownedEvaluation(evaluationID, callerID, callerRole); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var first, second models.Question
		if err := tx.Where("id = ? AND evaluation_id = ?", req.FirstQuestionID, evaluationID).First(&first).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("question not found")
			}
			return err
		}
		if err := tx.Where("id = ? AND evaluation_id = ?", req.SecondQuestionID, evaluationID).First(&second).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("question not found")
			}
			return err
		}

		if err := tx.Model(&first).Update("position", second.Position).Error; err != nil {
			return err
		}
		return tx.Model(&second).Update("position", first.Position).Error
	})
}
