package availability

import "errors"

var (
	ErrNoSkillMatch  = errors.New("availability: no staff matches the required skills")
	ErrStaffNotFound = errors.New("availability: staff not found")
	ErrInvalidInput  = errors.New("availability: invalid input")
	ErrInternal      = errors.New("availability: internal error")
)
