package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lukrlier/notabene/internal/shared/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCodeAndProblemType(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		problemType string
	}{
		{
			name:        "server",
			err:         NewServer(errors.New("boom")),
			status:      http.StatusInternalServerError,
			problemType: problem.DefaultType,
		},
		{
			name:        "login already used",
			err:         NewProblem("Login name already used!", CodeBadRequest, problem.LoginAlreadyUsedType),
			status:      http.StatusBadRequest,
			problemType: problem.LoginAlreadyUsedType,
		},
		{
			name:        "conflict",
			err:         NewBusiness("Registration already in progress", CodeConflict),
			status:      http.StatusConflict,
			problemType: problem.DefaultType,
		},
		{
			name:        "validation",
			err:         NewInvalidInput(nil, "login", "login is a required field"),
			status:      http.StatusBadRequest,
			problemType: problem.ConstraintViolationType,
		},
		{
			name:        "invalid password",
			err:         NewInvalidPassword(),
			status:      http.StatusBadRequest,
			problemType: problem.InvalidPasswordType,
		},
		{
			name:        "not found",
			err:         NewBusiness("missing", CodeNotFound),
			status:      http.StatusNotFound,
			problemType: problem.DefaultType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			require.ErrorAs(t, tt.err, &gerr)
			assert.Equal(t, tt.status, gerr.StatusCode())
			assert.Equal(t, tt.problemType, gerr.ProblemType())
		})
	}
}

func TestNewInvalidInput(t *testing.T) {
	underlying := errors.New("bad field")
	err := NewInvalidInput(underlying)
	assert.ErrorIs(t, err, underlying)
	assert.Equal(t, "bad field", err.Error())

	var gerr *Error
	require.ErrorAs(t, NewInvalidInput(nil, "email", "invalid"), &gerr)
	assert.Equal(t, map[string]string{"email": "invalid"}, gerr.Fields())
	assert.Equal(t, CodeInvalidInput, gerr.Code())

	require.ErrorAs(t, NewInvalidInput(nil, "dangling"), &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestError_Error(t *testing.T) {
	assert.Equal(t, "Invalid request body", NewInvalidFormat().Error())
	assert.Equal(t, "Invalid query page", NewInvalidFormat("Invalid query page").Error())
	assert.Equal(t, "Internal error", (&Error{errType: TypeServer}).Error())
	assert.Contains(t, new(nil, "x", TypeBusiness, CodeBadRequest, problem.EmailAlreadyUsedType).String(), problem.EmailAlreadyUsedType)
}
