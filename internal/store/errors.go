package store

// GroupErrorCode is the closed set of group mutation failures. These are
// expected domain conditions returned as values, never panics.
type GroupErrorCode string

const (
	GroupErrEmpty          GroupErrorCode = "empty"
	GroupErrReserved       GroupErrorCode = "reserved"
	GroupErrDuplicate      GroupErrorCode = "duplicate"
	GroupErrNotFound       GroupErrorCode = "not_found"
	GroupErrTargetRequired GroupErrorCode = "target_required"
	GroupErrTargetInvalid  GroupErrorCode = "target_invalid"
	GroupErrTargetSame     GroupErrorCode = "target_same"
	GroupErrLastGroup      GroupErrorCode = "last_group"
)

// GroupError is the typed result of a failed group operation.
type GroupError struct {
	Code GroupErrorCode
}

func (e *GroupError) Error() string {
	switch e.Code {
	case GroupErrEmpty:
		return "group name must not be empty"
	case GroupErrReserved:
		return "group name is reserved"
	case GroupErrDuplicate:
		return "group name already exists"
	case GroupErrNotFound:
		return "group not found"
	case GroupErrTargetRequired:
		return "target group is required"
	case GroupErrTargetInvalid:
		return "target group does not exist"
	case GroupErrTargetSame:
		return "target group must differ"
	case GroupErrLastGroup:
		return "cannot delete the last group"
	default:
		return string(e.Code)
	}
}

func groupErr(code GroupErrorCode) *GroupError {
	return &GroupError{Code: code}
}
