package game

import (
	"errors"
	"fmt"
)

// Code is a machine-readable rejection reason. Every expected failure in the
// core carries exactly one Code so callers can branch without string matching.
type Code string

const (
	// Validation failures.
	CodeBadRole    Code = "BAD_ROLE"
	CodeBadRules   Code = "BAD_RULES"
	CodeBadRequest Code = "BAD_REQUEST"

	// Lifecycle / state failures.
	CodeNotRunning            Code = "ROOM_NOT_RUNNING"
	CodeRoomNotWaiting        Code = "ROOM_NOT_WAITING"
	CodeRoomNotFinished       Code = "ROOM_NOT_FINISHED"
	CodeAdvancementInProgress Code = "ADVANCEMENT_IN_PROGRESS"
	CodeDuplicateOrder        Code = "DUPLICATE_ORDER"
	CodeInstanceNotActive     Code = "INSTANCE_NOT_ACTIVE"
	CodeInstanceFinished      Code = "INSTANCE_FINISHED"
	CodeRoleTaken             Code = "ROLE_TAKEN"
	CodeRoomFull              Code = "ROOM_FULL"
	CodeAlreadyJoined         Code = "ALREADY_JOINED"
	CodeUnbalancedTeams       Code = "UNBALANCED_TEAMS"
	CodeRoomClosed            Code = "ROOM_CLOSED"

	// Not-found failures.
	CodeRoomNotFound        Code = "ROOM_NOT_FOUND"
	CodeUnknownParticipant  Code = "UNKNOWN_PARTICIPANT"
	CodeInstanceNotFound    Code = "INSTANCE_NOT_FOUND"

	// Unexpected failures (an advancement task died).
	CodeInternal Code = "INTERNAL"
)

// Error is the error type returned by every core operation that can fail for
// an expected reason. It wraps an optional cause.
type Error struct {
	Code  Code
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Errorf builds an *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// WrapErr builds an *Error around a cause.
func WrapErr(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), cause: cause}
}

// CodeOf extracts the Code from err, or "" if err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given Code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
