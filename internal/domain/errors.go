package domain

import "errors"

var (
	// ErrQuizNotFound is returned when a submission names an unknown quiz;
	// callers redirect rather than grade.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrStudentNotFound is returned when a student ID has no directory entry.
	ErrStudentNotFound = errors.New("student not found")
	// ErrNoResults indicates the results log holds no records yet.
	ErrNoResults = errors.New("no quiz results yet")
	// ErrBadCredentials is returned on a failed student login.
	ErrBadCredentials = errors.New("invalid student credentials")
)
