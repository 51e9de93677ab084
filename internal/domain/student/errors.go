package student

import "errors"

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrProfileExists        = errors.New("student profile already exists")
	ErrStudentCodeTaken     = errors.New("student code already in use")
	ErrAlreadyLinked        = errors.New("student already linked to a hotel")
	ErrNoLinkRequest        = errors.New("no pending hotel account request")
	ErrLinkRequestForbidden = errors.New("hotel account request belongs to another hotel")
)
