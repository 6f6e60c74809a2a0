package auth

import (
	"errors"
	"net/http"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"invalid credentials", invalidCredentials(), CodeInvalidCredentials, http.StatusUnauthorized, MsgInvalidCredentials},
		{"unauthenticated", unauthenticated(MsgInvalidToken), CodeUnauthenticated, http.StatusUnauthorized, MsgInvalidToken},
		{"forbidden", forbidden(), CodeForbidden, http.StatusForbidden, MsgForbidden},
		{"validation", validation("email is required"), CodeValidation, http.StatusBadRequest, "email is required"},
		{"not found", notFound("missing"), CodeNotFound, http.StatusNotFound, "missing"},
		{"persistence", persistence("save login", cause), CodePersistence, http.StatusServiceUnavailable, MsgUnavailable},
		{"internal", oopsInternal("issue token", cause), CodeInternal, http.StatusInternalServerError, MsgInternal},
		{"plain error", cause, CodeInternal, http.StatusInternalServerError, MsgInternal},
		{"unknown code", oops.Code("SOMETHING_ELSE").Errorf("boom"), CodeInternal, http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ErrorCode(tt.err))
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
			assert.Equal(t, tt.wantMsg, PublicMessage(tt.err))
		})
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	assert.ErrorIs(t, persistence("save login", cause), cause)
	assert.Empty(t, ErrorCode(nil))
}
