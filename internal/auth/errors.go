package auth

import (
	"net/http"

	"github.com/samber/oops"
)

// Error codes carried by errors returned from Service.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION"
	CodePersistence        = "PERSISTENCE"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL"
)

// User-visible messages.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgUnauthenticated    = "Authentication required"
	MsgInvalidToken       = "Invalid or expired token"
	MsgForbidden          = "Insufficient permissions"
	MsgUnavailable        = "Service temporarily unavailable"
	MsgInternal           = "Internal server error"
)

var knownCodes = []string{
	CodeInvalidCredentials,
	CodeUnauthenticated,
	CodeForbidden,
	CodeValidation,
	CodePersistence,
	CodeNotFound,
}

// ErrorCode returns the code attached to err, or CodeInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		for _, code := range knownCodes {
			if oopsErr.Code() == code {
				return code
			}
		}
	}
	return CodeInternal
}

// PublicMessage returns the message safe to show the caller for err.
// Persistence and internal failures never expose their cause.
func PublicMessage(err error) string {
	switch ErrorCode(err) {
	case CodePersistence:
		return MsgUnavailable
	case CodeInternal:
		return MsgInternal
	}
	return err.Error()
}

// HTTPStatus maps err to the response status.
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case CodeInvalidCredentials, CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodePersistence:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func invalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf(MsgInvalidCredentials)
}

func unauthenticated(msg string) error {
	return oops.Code(CodeUnauthenticated).Errorf("%s", msg)
}

func persistence(op string, err error) error {
	return oops.Code(CodePersistence).With("operation", op).Wrap(err)
}

func validation(msg string) error {
	return oops.Code(CodeValidation).Errorf("%s", msg)
}

func forbidden() error {
	return oops.Code(CodeForbidden).Errorf(MsgForbidden)
}

func notFound(msg string) error {
	return oops.Code(CodeNotFound).Errorf("%s", msg)
}

func oopsInternal(op string, err error) error {
	return oops.Code(CodeInternal).With("operation", op).Wrap(err)
}
