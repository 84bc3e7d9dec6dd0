package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorNil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapErrorPassesThroughAppError(t *testing.T) {
	appErr := NewAppError("tech", "user", "CODE", http.StatusTeapot, nil)
	assert.Same(t, appErr, MapError(appErr))
}

func TestMapAuthErrorKinds(t *testing.T) {
	tests := []struct {
		kind    AuthKind
		code    string
		message string
		status  int
	}{
		{AuthCancelled, ErrCodeAuthCancelled, MsgSignInCancelled, http.StatusBadRequest},
		{AuthPopupBlocked, ErrCodeAuthPopupBlocked, MsgPopupBlocked, http.StatusBadRequest},
		{AuthConcurrentPopup, ErrCodeAuthConcurrent, MsgConcurrentPopup, http.StatusConflict},
		{AuthNetwork, ErrCodeAuthNetwork, MsgNetworkError, http.StatusServiceUnavailable},
		{AuthCredentialInvalid, ErrCodeCredentialInvalid, MsgCredentialInvalid, http.StatusUnauthorized},
		{AuthWeakPassword, ErrCodeInvalidInput, MsgWeakPassword, http.StatusBadRequest},
		{AuthEmailInUse, ErrCodeInvalidInput, MsgEmailInUse, http.StatusConflict},
		{AuthInvalidEmail, ErrCodeInvalidInput, MsgInvalidEmail, http.StatusBadRequest},
		{AuthOther, ErrCodeAuthFailed, MsgSignInFailed, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			appErr := MapError(NewAuthError(tt.kind, errors.New("boom")))
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.UserMessage)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}
}

func TestMapSyncErrorKeepsSuccessStatus(t *testing.T) {
	appErr := MapError(&SyncError{Err: errors.New("record save failed")})
	assert.Equal(t, http.StatusOK, appErr.HTTPStatus)
	assert.Equal(t, ErrCodeSyncFailed, appErr.Code)
	assert.Equal(t, MsgSyncWarning, appErr.UserMessage)
}

func TestMapTimeout(t *testing.T) {
	wrapped := fmt.Errorf("query failed: %w", context.DeadlineExceeded)
	appErr := MapError(wrapped)
	assert.Equal(t, ErrCodeTimeout, appErr.Code)
	assert.Equal(t, http.StatusGatewayTimeout, appErr.HTTPStatus)
}

func TestMapBackendStatuses(t *testing.T) {
	notFound := MapError(&FetchError{Operation: "get_user", StatusCode: 404, Err: errors.New("no record")})
	assert.Equal(t, ErrCodeNotFound, notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)

	unauthorized := MapError(&MutationError{Operation: "create_offer", StatusCode: 401, Err: errors.New("bad token")})
	assert.Equal(t, ErrCodeUnauthorized, unauthorized.Code)
	assert.Equal(t, http.StatusUnauthorized, unauthorized.HTTPStatus)

	fetch := MapError(&FetchError{Operation: "list_properties", StatusCode: 500, Err: errors.New("boom")})
	assert.Equal(t, ErrCodeFetchFailed, fetch.Code)
	assert.Equal(t, http.StatusBadGateway, fetch.HTTPStatus)

	mutation := MapError(&MutationError{Operation: "verify_property", StatusCode: 500, Err: errors.New("boom")})
	assert.Equal(t, ErrCodeMutationFailed, mutation.Code)
	assert.Equal(t, http.StatusBadGateway, mutation.HTTPStatus)
}

func TestMapUnknownError(t *testing.T) {
	appErr := MapError(errors.New("mystery"))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, MsgInternalError, appErr.UserMessage)
}

func TestAuthKindOf(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", NewAuthError(AuthCancelled, errors.New("declined")))
	assert.Equal(t, AuthCancelled, AuthKindOf(wrapped))
	assert.Equal(t, AuthOther, AuthKindOf(errors.New("plain")))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, IsNotFound(&FetchError{StatusCode: 404}))
	assert.True(t, IsNotFound(&MutationError{StatusCode: 404}))
	assert.False(t, IsNotFound(&FetchError{StatusCode: 500}))
	assert.False(t, IsNotFound(errors.New("plain")))

	assert.True(t, IsUnauthorized(&FetchError{StatusCode: 401}))
	assert.False(t, IsUnauthorized(&FetchError{StatusCode: 403}))
}
