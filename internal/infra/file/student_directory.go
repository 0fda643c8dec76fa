package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"verb-quiz-portal/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// StudentDirectory is the JSON-file student directory, keyed by student ID:
// {"s-001": {"name": ..., "password_hash": ..., "created_at": ..., "teacher": ...}}
type StudentDirectory struct {
	students map[string]domain.Student
}

// NewStudentDirectory loads the directory once at startup. The file is
// treated as read-only by the portal; account management happens elsewhere.
func NewStudentDirectory(path string) (*StudentDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read student directory: %w", err)
	}
	var entries map[string]domain.Student
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse student directory: %w", err)
	}
	students := make(map[string]domain.Student, len(entries))
	for id, student := range entries {
		student.ID = id
		students[id] = student
	}
	return &StudentDirectory{students: students}, nil
}

func (d *StudentDirectory) Resolve(_ context.Context, studentID string) (domain.Student, error) {
	student, ok := d.students[studentID]
	if !ok {
		return domain.Student{}, domain.ErrStudentNotFound
	}
	return student, nil
}

func (d *StudentDirectory) Authenticate(ctx context.Context, studentID, password string) (domain.Student, error) {
	student, err := d.Resolve(ctx, studentID)
	if err != nil {
		return domain.Student{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)) != nil {
		return domain.Student{}, domain.ErrBadCredentials
	}
	return student, nil
}
