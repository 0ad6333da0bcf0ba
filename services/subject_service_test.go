package services

import (
	"testing"

	"unicampus/models"
)

func TestCreateSubjectAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db)

	_, err := svc.CreateSubject(models.RoleProfessor, &SubjectRequest{Name: "Algebra", Code: "ALG-101", Year: 1})
	assertKind(t, err, KindForbidden)

	subject, err := svc.CreateSubject(models.RoleAdmin, &SubjectRequest{Name: "Algebra", Code: "ALG-101", Year: 1})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if subject.ID == 0 {
		t.Fatal("expected a persisted subject")
	}

	_, err = svc.CreateSubject(models.RoleAdmin, &SubjectRequest{Name: "Algebra II", Code: "ALG-101", Year: 2})
	assertKind(t, err, KindInvalid)
}

func TestEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db)
	subject := createSubject(t, db, "physics")
	student := createUser(t, db, "alice", models.RoleStudent)

	if _, err := svc.Enroll(models.RoleAdmin, subject.ID, student.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	enrolled, err := svc.IsEnrolled(student.ID, subject.ID)
	if err != nil {
		t.Fatalf("IsEnrolled: %v", err)
	}
	if !enrolled {
		t.Error("expected student to be enrolled")
	}

	// Duplicate enrollment.
	_, err = svc.Enroll(models.RoleAdmin, subject.ID, student.ID)
	assertKind(t, err, KindInvalid)

	// Professors cannot be enrolled.
	professor := createUser(t, db, "bob", models.RoleProfessor)
	_, err = svc.Enroll(models.RoleAdmin, subject.ID, professor.ID)
	assertKind(t, err, KindInvalid)

	// Non-admin callers cannot manage enrollments.
	_, err = svc.Enroll(models.RoleProfessor, subject.ID, student.ID)
	assertKind(t, err, KindForbidden)

	if err := svc.Unenroll(models.RoleAdmin, subject.ID, student.ID); err != nil {
		t.Fatalf("Unenroll: %v", err)
	}
	enrolled, err = svc.IsEnrolled(student.ID, subject.ID)
	if err != nil {
		t.Fatalf("IsEnrolled: %v", err)
	}
	if enrolled {
		t.Error("expected student to be unenrolled")
	}

	err = svc.Unenroll(models.RoleAdmin, subject.ID, student.ID)
	assertKind(t, err, KindNotFound)
}

func TestListSubjectsByRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db)
	first := createSubject(t, db, "biology")
	createSubject(t, db, "geology")
	student := createUser(t, db, "alice", models.RoleStudent)
	enrollStudent(t, db, first.ID, student.ID)

	all, err := svc.ListSubjects(0, models.RoleAdmin)
	if err != nil {
		t.Fatalf("ListSubjects as admin: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 subjects for admin, got %d", len(all))
	}

	mine, err := svc.ListSubjects(student.ID, models.RoleStudent)
	if err != nil {
		t.Fatalf("ListSubjects as student: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Errorf("expected only the enrolled subject, got %v", mine)
	}
}

func TestDeleteSubjectWithEvaluations(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db)
	subject := createSubject(t, db, "ethics")
	professor := createUser(t, db, "bob", models.RoleProfessor)
	createEvaluation(t, db, subject.ID, professor.ID, 10, models.VisibilityHidden)

	err := svc.DeleteSubject(models.RoleAdmin, subject.ID)
	assertKind(t, err, KindInvalid)

	empty := createSubject(t, db, "logic")
	if err := svc.DeleteSubject(models.RoleAdmin, empty.ID); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}
	_, err = svc.GetSubject(empty.ID)
	assertKind(t, err, KindNotFound)
}
