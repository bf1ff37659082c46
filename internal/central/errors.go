package central

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Error string

const (
	ErrNoConnection = Error("no connection to the central server")
	ErrNoTenant     = Error("no tenant configured")
	ErrInvalidURL   = Error("invalid server url")
)

func (e Error) Error() string {
	return string(e)
}

// Backend specific status codes.
const (
	StatusGeneral                      = 500
	StatusObjectDoesNotExist           = 550
	StatusCarAlreadyExist              = 591
	StatusCarAlreadyExistDifferentUser = 592
	StatusUserNotOwnerOfTheCar         = 593
	StatusNoCarForUser                 = 594
	StatusUserAlreadyAssignedToCar     = 595
	StatusChargingStationNotConnected  = 560
	StatusTransactionAlreadyStopped    = 561
	StatusRegistrationTokenAlreadyUsed = 570
	defaultBackendMessage              = "The backend is unavailable, please retry later"
)

// HTTPError is returned when the backend answers with an error status.
type HTTPError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Kind classifies a failure for the user.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	// KindForceable is a conflict the user may override by retrying with force.
	KindForceable
	KindCanceled
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not-found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindForceable:
		return "forceable"
	case KindCanceled:
		return "canceled"
	default:
		return "generic"
	}
}

// StatusOf returns the backend status carried by err.
func StatusOf(err error) (int, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status, true
	}
	return 0, false
}

// Classify maps an error to its kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	status, ok := StatusOf(err)
	if !ok {
		return KindGeneric
	}
	switch status {
	case StatusObjectDoesNotExist, http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden, StatusUserNotOwnerOfTheCar:
		return KindForbidden
	case StatusCarAlreadyExistDifferentUser:
		return KindForceable
	case StatusCarAlreadyExist, StatusUserAlreadyAssignedToCar, http.StatusConflict:
		return KindConflict
	default:
		return KindGeneric
	}
}

// Message returns the text shown to the user for err. Unclassified failures
// fall back to fallback, or a generic backend message when fallback is empty.
func Message(err error, fallback string) string {
	status, _ := StatusOf(err)
	switch status {
	case StatusCarAlreadyExist:
		return "A car with this VIN and license plate already exists"
	case StatusCarAlreadyExistDifferentUser:
		return "This car already exists for another user"
	case StatusUserNotOwnerOfTheCar:
		return "You are not the owner of this car"
	case StatusNoCarForUser:
		return "No car is assigned to this user"
	case StatusUserAlreadyAssignedToCar:
		return "The user is already assigned to this car"
	case StatusChargingStationNotConnected:
		return "The charging station is not connected"
	case StatusTransactionAlreadyStopped:
		return "The transaction is already stopped"
	}

	switch Classify(err) {
	case KindNone:
		return ""
	case KindNotFound:
		return "The object does not exist anymore"
	case KindUnauthorized:
		return "Your session has expired, please log in again"
	case KindForbidden:
		return "You are not authorized to perform this action"
	case KindConflict:
		return "The object already exists"
	case KindCanceled:
		return "Request canceled"
	}
	if errors.Is(err, ErrNoConnection) {
		return ErrNoConnection.Error()
	}
	if fallback != "" {
		return fallback
	}

	return defaultBackendMessage
}
