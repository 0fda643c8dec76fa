package memory

import (
	"context"

	"verb-quiz-portal/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// StaticStudentDirectory is a fixed in-memory student directory.
type StaticStudentDirectory struct {
	students map[string]domain.Student
}

func NewStaticStudentDirectory(students map[string]domain.Student) *StaticStudentDirectory {
	byID := make(map[string]domain.Student, len(students))
	for id, student := range students {
		student.ID = id
		byID[id] = student
	}
	return &StaticStudentDirectory{students: byID}
}

func (d *StaticStudentDirectory) Resolve(_ context.Context, studentID string) (domain.Student, error) {
	student, ok := d.students[studentID]
	if !ok {
		return domain.Student{}, domain.ErrStudentNotFound
	}
	return student, nil
}

func (d *StaticStudentDirectory) Authenticate(ctx context.Context, studentID, password string) (domain.Student, error) {
	student, err := d.Resolve(ctx, studentID)
	if err != nil {
		return domain.Student{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)) != nil {
		return domain.Student{}, domain.ErrBadCredentials
	}
	return student, nil
}
