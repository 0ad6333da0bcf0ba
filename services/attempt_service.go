package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unicampus/models"

	"gorm.io/gorm"
)

// EnrollmentChecker is the collaborator that authorizes a student to
// interact with a subject's evaluations. SubjectService implements it.
type EnrollmentChecker interface {
	IsEnrolled(studentID, subjectID uint) (bool, error)
}

// AttemptService runs the timed attempt lifecycle: starting or reusing an
// attempt, lazily expiring stale ones, grading a submission exactly once and
// reading results. Expiry has no scheduler; it is recomputed from the clock
// on every touch.
type AttemptService struct {
	db          *gorm.DB
	enrollments EnrollmentChecker
	locks       Locker
}

func NewAttemptService(db *gorm.DB, enrollments EnrollmentChecker, locks Locker) *AttemptService {
	return &AttemptService{db: db, enrollments: enrollments, locks: locks}
}

// AttemptQuestion is a question as shown to a student mid-attempt: no
// correct option, no explanation.
type AttemptQuestion struct {
	ID        uint   `json:"id"`
	Position  int    `json:"position"`
	Statement string `json:"statement"`
	OptionA   string `json:"option_a"`
	OptionB   string `json:"option_b"`
	OptionC   string `json:"option_c"`
	OptionD   string `json:"option_d"`
	Weight    int    `json:"weight"`
}

type StartAttemptResult struct {
	Attempt    models.Attempt           `json:"attempt"`
	Evaluation models.EvaluationSummary `json:"evaluation"`
	TotalScore int                      `json:"total_score"`
	Questions  []AttemptQuestion        `json:"questions"`
}

type AnswerSubmission struct {
	QuestionID     uint    `json:"question_id" binding:"required"`
	SelectedOption *string `json:"selected_option"`
}

// AnswerDetail is one graded answer in a submission result, ordered by the
// question's ordinal position.
type AnswerDetail struct {
	QuestionID     uint    `json:"question_id"`
	Position       int     `json:"position"`
	Statement      string  `json:"statement"`
	SelectedOption *string `json:"selected_option"`
	Correct        bool    `json:"correct"`
	CorrectOption  string  `json:"correct_option"`
	Explanation    string  `json:"explanation"`
	Weight         int     `json:"weight"`
}

type SubmitResult struct {
	AttemptID      uint           `json:"attempt_id"`
	EvaluationID   uint           `json:"evaluation_id"`
	StudentID      uint           `json:"student_id"`
	Score          int            `json:"score"`
	TotalScore     int            `json:"total_score"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	Finalized      bool           `json:"finalized"`
	Detail         []AnswerDetail `json:"detail"`
}

// AttemptView is a read of one attempt with its graded answers and the
// student's identity reduced to id and name.
type AttemptView struct {
	models.Attempt
	Student models.PublicUser `json:"student"`
}

type EvaluationStats struct {
	EvaluationID   uint     `json:"evaluation_id"`
	AttemptCount   int64    `json:"attempt_count"`
	FinalizedCount int64    `json:"finalized_count"`
	AverageScore   *float64 `json:"average_score"`
	BestScore      *int     `json:"best_score"`
	TotalScore     int      `json:"total_score"`
}

func timeBudgetMs(e *models.Evaluation) int64 {
	return int64(e.TimeLimitMinutes) * 60000
}

func elapsedMs(startedAt, now time.Time) int64 {
	ms := now.Sub(startedAt).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return ms
}

func (s *AttemptService) loadEvaluation(evaluationID uint) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := s.db.First(&evaluation, evaluationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("evaluation not found")
		}
		return nil, err
	}
	return &evaluation, nil
}

func (s *AttemptService) orderedQuestions(evaluationID uint) ([]models.Question, int, error) {
	var questions []models.Question
	if err := s.db.Where("evaluation_id = ?", evaluationID).
		Order("position, id").
		Find(&questions).Error; err != nil {
		return nil, 0, err
	}
	totalScore := 0
	for _, q := range questions {
		totalScore += q.Weight
	}
	return questions, totalScore, nil
}

// StartAttempt returns the caller's active attempt at an evaluation,
// creating one if none exists. A stale active attempt found past its time
// budget is finalized in place with score zero, which is a side effect and
// never an error, and a fresh attempt replaces it. The stored total score of
// a reused attempt is refreshed to the evaluation's current question set.
func (s *AttemptService) StartAttempt(ctx context.Context, evaluationID, studentID uint, callerRole string) (*StartAttemptResult, error) {
	evaluation, err := s.loadEvaluation(evaluationID)
	if err != nil {
		return nil, err
	}

	// Admins may preview hidden evaluations; everyone else needs a
	// published one.
	if callerRole != models.RoleAdmin && evaluation.Visibility != models.VisibilityPublished {
		return nil, forbidden("evaluation is not published")
	}

	// Enrollment gates every role, admins included.
	enrolled, err := s.enrollments.IsEnrolled(studentID, evaluation.SubjectID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, forbidden("not enrolled in this subject")
	}

	// Serialize per (student, evaluation) so concurrent starts cannot both
	// create an attempt.
	unlock, err := s.locks.Lock(ctx, fmt.Sprintf("attempt-start:%d:%d", evaluationID, studentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	questions, totalScore, err := s.orderedQuestions(evaluationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var attempt models.Attempt
	err = s.db.Where("evaluation_id = ? AND student_id = ? AND finalized = ?", evaluationID, studentID, false).
		Order("id DESC").
		First(&attempt).Error
	switch {
	case err == nil:
		used := elapsedMs(attempt.StartedAt, now)
		if used > timeBudgetMs(evaluation) {
			// Expired: close it out with score zero and fall through to a
			// fresh attempt. Losing the compare-and-set means a submission
			// finalized the row between our read and this write; its result
			// stands and the attempt is no longer active either way.
			if _, err := s.expireStale(&attempt, totalScore, now); err != nil {
				return nil, err
			}
		} else {
			if attempt.TotalScore != totalScore {
				// Questions changed since the attempt began; the score cap
				// tracks the current definition.
				if err := s.db.Model(&attempt).Update("total_score", totalScore).Error; err != nil {
					return nil, err
				}
				attempt.TotalScore = totalScore
			}
			return s.startResult(evaluation, &attempt, totalScore, questions), nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no active attempt
	default:
		return nil, err
	}

	attempt = models.Attempt{
		EvaluationID: evaluationID,
		StudentID:    studentID,
		StartedAt:    now,
		TotalScore:   totalScore,
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return s.startResult(evaluation, &attempt, totalScore, questions), nil
}

func (s *AttemptService) startResult(evaluation *models.Evaluation, attempt *models.Attempt, totalScore int, questions []models.Question) *StartAttemptResult {
	sanitized := make([]AttemptQuestion, len(questions))
	for i, q := range questions {
		sanitized[i] = AttemptQuestion{
			ID:        q.ID,
			Position:  q.Position,
			Statement: q.Statement,
			OptionA:   q.OptionA,
			OptionB:   q.OptionB,
			OptionC:   q.OptionC,
			OptionD:   q.OptionD,
			Weight:    q.Weight,
		}
	}
	return &StartAttemptResult{
		Attempt:    *attempt,
		Evaluation: evaluation.Summary(),
		TotalScore: totalScore,
		Questions:  sanitized,
	}
}

// expireStale finalizes an over-budget attempt with score zero. The write is
// a compare-and-set on the finalized flag: a submission that committed after
// our read keeps its result, and the caller treats the attempt as closed
// either way. Reports whether this write finalized the attempt.
func (s *AttemptService) expireStale(attempt *models.Attempt, totalScore int, now time.Time) (bool, error) {
	res := s.db.Model(&models.Attempt{}).
		Where("id = ? AND finalized = ?", attempt.ID, false).
		Updates(map[string]interface{}{
			"finalized":       true,
			"finalized_at":    now,
			"elapsed_seconds": int(elapsedMs(attempt.StartedAt, now) / 1000),
			"score":           0,
			"total_score":     totalScore,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Submit grades an attempt exactly once. The answer rows and the attempt
// finalization commit in one transaction; the finalized flag is re-checked
// inside it with a compare-and-set update, so a double submit loses cleanly
// and leaves no partial rows.
func (s *AttemptService) Submit(ctx context.Context, attemptID, callerID uint, callerRole string, submissions []AnswerSubmission) (*SubmitResult, error) {
	var attempt models.Attempt
	if err := s.db.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("attempt not found")
		}
		return nil, err
	}

	if callerRole != models.RoleAdmin && attempt.StudentID != callerID {
		return nil, forbidden("attempt belongs to another student")
	}
	if attempt.Finalized {
		return nil, alreadyFinalized("attempt already finalized")
	}

	evaluation, err := s.loadEvaluation(attempt.EvaluationID)
	if err != nil {
		return nil, err
	}

	// Enrollment could have been revoked after the attempt started.
	enrolled, err := s.enrollments.IsEnrolled(attempt.StudentID, evaluation.SubjectID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, forbidden("not enrolled in this subject")
	}

	now := time.Now().UTC()
	used := elapsedMs(attempt.StartedAt, now)
	if used > timeBudgetMs(evaluation) {
		return nil, expired("time limit exceeded")
	}

	questions, totalScore, err := s.orderedQuestions(attempt.EvaluationID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, emptyContent("evaluation has no questions")
	}

	selections := make(map[uint]*string, len(submissions))
	for _, sub := range submissions {
		if sub.SelectedOption != nil && !models.ValidOption(*sub.SelectedOption) {
			return nil, invalid("selected option must be A, B, C, D or null")
		}
		selections[sub.QuestionID] = sub.SelectedOption
	}

	elapsed := int(used / 1000)
	score := 0
	answers := make([]models.Answer, len(questions))
	detail := make([]AnswerDetail, len(questions))
	for i, q := range questions {
		selected := selections[q.ID]
		correct := selected != nil && *selected == q.CorrectOption
		if correct {
			score += q.Weight
		}
		answers[i] = models.Answer{
			AttemptID:      attempt.ID,
			QuestionID:     q.ID,
			SelectedOption: selected,
			Correct:        correct,
		}
		detail[i] = AnswerDetail{
			QuestionID:     q.ID,
			Position:       q.Position,
			Statement:      q.Statement,
			SelectedOption: selected,
			Correct:        correct,
			CorrectOption:  q.CorrectOption,
			Explanation:    q.Explanation,
			Weight:         q.Weight,
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Attempt{}).
			Where("id = ? AND finalized = ?", attempt.ID, false).
			Updates(map[string]interface{}{
				"finalized":       true,
				"finalized_at":    now,
				"elapsed_seconds": elapsed,
				"score":           score,
				"total_score":     totalScore,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return alreadyFinalized("attempt already finalized")
		}
		return tx.Create(&answers).Error
	})
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		AttemptID:      attempt.ID,
		EvaluationID:   attempt.EvaluationID,
		StudentID:      attempt.StudentID,
		Score:          score,
		TotalScore:     totalScore,
		ElapsedSeconds: elapsed,
		Finalized:      true,
		Detail:         detail,
	}, nil
}

// GetAttempt returns one attempt with its answers and questions. Readable by
// the owning student, the evaluation's owning professor and admins.
func (s *AttemptService) GetAttempt(attemptID, callerID uint, callerRole string) (*AttemptView, error) {
	var attempt models.Attempt
	err := s.db.Preload("Student").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Answers.Question").
		First(&attempt, attemptID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("attempt not found")
		}
		return nil, err
	}

	evaluation, err := s.loadEvaluation(attempt.EvaluationID)
	if err != nil {
		return nil, err
	}

	allowed := callerRole == models.RoleAdmin ||
		attempt.StudentID == callerID ||
		(callerRole == models.RoleProfessor && evaluation.ProfessorID == callerID)
	if !allowed {
		return nil, forbidden("insufficient permissions to read this attempt")
	}

	view := &AttemptView{Attempt: attempt, Student: attempt.Student.Public()}
	view.Attempt.Evaluation = *evaluation
	return view, nil
}

// ListForEvaluation returns all attempts at an evaluation, most recent
// first, for the owning professor or an admin.
func (s *AttemptService) ListForEvaluation(evaluationID, callerID uint, callerRole string) ([]AttemptView, error) {
	evaluation, err := s.loadEvaluation(evaluationID)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleAdmin && !(callerRole == models.RoleProfessor && evaluation.ProfessorID == callerID) {
		return nil, forbidden("insufficient permissions to list attempts")
	}

	var attempts []models.Attempt
	if err := s.db.Where("evaluation_id = ?", evaluationID).
		Preload("Student").
		Order("id DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	views := make([]AttemptView, len(attempts))
	for i, a := range attempts {
		views[i] = AttemptView{Attempt: a, Student: a.Student.Public()}
	}
	return views, nil
}

// ListMine returns the caller's own attempts across evaluations, most recent
// first.
func (s *AttemptService) ListMine(studentID uint) ([]models.Attempt, error) {
	var attempts []models.Attempt
	if err := s.db.Where("student_id = ?", studentID).
		Preload("Evaluation").
		Order("id DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// Stats aggregates finalized attempt results for the owning professor or an
// admin.
func (s *AttemptService) Stats(evaluationID, callerID uint, callerRole string) (*EvaluationStats, error) {
	evaluation, err := s.loadEvaluation(evaluationID)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleAdmin && !(callerRole == models.RoleProfessor && evaluation.ProfessorID == callerID) {
		return nil, forbidden("insufficient permissions to read stats")
	}

	stats := &EvaluationStats{EvaluationID: evaluationID}
	if err := s.db.Model(&models.Attempt{}).
		Where("evaluation_id = ?", evaluationID).
		Count(&stats.AttemptCount).Error; err != nil {
		return nil, err
	}
	row := s.db.Model(&models.Attempt{}).
		Where("evaluation_id = ? AND finalized = ?", evaluationID, true).
		Select("COUNT(*), AVG(score), MAX(score)").
		Row()
	if err := row.Scan(&stats.FinalizedCount, &stats.AverageScore, &stats.BestScore); err != nil {
		return nil, err
	}

	_, totalScore, err := s.orderedQuestions(evaluationID)
	if err != nil {
		return nil, err
	}
	stats.TotalScore = totalScore
	return stats, nil
}
