package services

import (
	"errors"

	"unicampus/models"

	"gorm.io/gorm"
)

type SubjectService struct {
	db *gorm.DB
}

func NewSubjectService(db *gorm.DB) *SubjectService {
	return &SubjectService{db: db}
}

type SubjectRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
	Year int    `json:"year" binding:"required,min=1"`
}

func (s *SubjectService) CreateSubject(callerRole string, req *SubjectRequest) (*models.Subject, error) {
	if callerRole != models.RoleAdmin {
		return nil, forbidden("only admins can create subjects")
	}

	var existing models.Subject
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, invalid("subject code already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subject := models.Subject{Name: req.Name, Code: req.Code, Year: req.Year}
	if err := s.db.Create(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListSubjects returns every subject for admins and professors, and only the
// enrolled ones for students.
func (s *SubjectService) ListSubjects(callerID uint, callerRole string) ([]models.Subject, error) {
	var subjects []models.Subject
	q := s.db.Order("year, name")
	if callerRole == models.RoleStudent {
		q = q.Joins("JOIN enrollments ON enrollments.subject_id = subjects.id").
			Where("enrollments.student_id = ? AND enrollments.deleted_at IS NULL", callerID)
	}
	if err := q.Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *SubjectService) GetSubject(subjectID uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("subject not found")
		}
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectService) UpdateSubject(callerRole string, subjectID uint, req *SubjectRequest) (*models.Subject, error) {
	if callerRole != models.RoleAdmin {
		return nil, forbidden("only admins can update subjects")
	}

	subject, err := s.GetSubject(subjectID)
	if err != nil {
		return nil, err
	}

	subject.Name = req.Name
	subject.Code = req.Code
	subject.Year = req.Year
	if err := s.db.Save(subject).Error; err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) DeleteSubject(callerRole string, subjectID uint) error {
	if callerRole != models.RoleAdmin {
		return forbidden("only admins can delete subjects")
	}

	if _, err := s.GetSubject(subjectID); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Evaluation{}).Where("subject_id = ?", subjectID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return invalid("subject still has evaluations")
	}

	return s.db.Delete(&models.Subject{}, subjectID).Error
}

func (s *SubjectService) Enroll(callerRole string, subjectID, studentID uint) (*models.Enrollment, error) {
	if callerRole != models.RoleAdmin {
		return nil, forbidden("only admins can manage enrollments")
	}

	if _, err := s.GetSubject(subjectID); err != nil {
		return nil, err
	}

	var student models.User
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("student not found")
		}
		return nil, err
	}
	// Admins may enroll themselves to preview hidden evaluations; starting
	// an attempt requires enrollment regardless of role.
	if student.Role != models.RoleStudent && student.Role != models.RoleAdmin {
		return nil, invalid("only students can be enrolled")
	}

	var existing models.Enrollment
	if err := s.db.Where("subject_id = ? AND student_id = ?", subjectID, studentID).
		First(&existing).Error; err == nil {
		return nil, invalid("student already enrolled")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := models.Enrollment{SubjectID: subjectID, StudentID: studentID}
	if err := s.db.Create(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *SubjectService) Unenroll(callerRole string, subjectID, studentID uint) error {
	if callerRole != models.RoleAdmin {
		return forbidden("only admins can manage enrollments")
	}

	// Hard delete: a soft-deleted row would keep occupying the unique
	// (subject, student) index and block re-enrollment.
	res := s.db.Unscoped().
		Where("subject_id = ? AND student_id = ?", subjectID, studentID).
		Delete(&models.Enrollment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("enrollment not found")
	}
	return nil
}

func (s *SubjectService) ListEnrolled(callerRole string, subjectID uint) ([]models.PublicUser, error) {
	if callerRole != models.RoleAdmin && callerRole != models.RoleProfessor {
		return nil, forbidden("insufficient permissions")
	}

	if _, err := s.GetSubject(subjectID); err != nil {
		return nil, err
	}

	var enrollments []models.Enrollment
	if err := s.db.Where("subject_id = ?", subjectID).
		Preload("Student").
		Order("id").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	students := make([]models.PublicUser, len(enrollments))
	for i, e := range enrollments {
		students[i] = e.Student.Public()
	}
	return students, nil
}

// IsEnrolled reports whether the student may interact with the subject's
// evaluations. The attempt engine consumes this through the
// EnrollmentChecker interface.
func (s *SubjectService) IsEnrolled(studentID, subjectID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Enrollment{}).
		Where("subject_id = ? AND student_id = ?", subjectID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
