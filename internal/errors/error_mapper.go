package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	technicalMessage := err.Error()

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return mapAuthError(authErr, technicalMessage)
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgSyncWarning,
			Code:             ErrCodeSyncFailed,
			HTTPStatus:       http.StatusOK,
			OriginalError:    err,
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgInvalidInput,
			Code:             ErrCodeInvalidInput,
			HTTPStatus:       http.StatusBadRequest,
			OriginalError:    err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgTimeout,
			Code:             ErrCodeTimeout,
			HTTPStatus:       http.StatusGatewayTimeout,
			OriginalError:    err,
		}
	}

	switch {
	case IsNotFound(err):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgNotFound,
			Code:             ErrCodeNotFound,
			HTTPStatus:       http.StatusNotFound,
			OriginalError:    err,
		}
	case IsUnauthorized(err):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgCredentialInvalid,
			Code:             ErrCodeUnauthorized,
			HTTPStatus:       http.StatusUnauthorized,
			OriginalError:    err,
		}
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgFetchFailed,
			Code:             ErrCodeFetchFailed,
			HTTPStatus:       http.StatusBadGateway,
			OriginalError:    err,
		}
	}

	var mutErr *MutationError
	if errors.As(err, &mutErr) {
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgMutationFailed,
			Code:             ErrCodeMutationFailed,
			HTTPStatus:       http.StatusBadGateway,
			OriginalError:    err,
		}
	}

	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      MsgInternalError,
		Code:             "INTERNAL_ERROR",
		HTTPStatus:       http.StatusInternalServerError,
		OriginalError:    err,
	}
}

func mapAuthError(authErr *AuthError, technicalMessage string) *AppError {
	code := ErrCodeAuthFailed
	message := MsgSignInFailed
	status := http.StatusUnauthorized

	switch authErr.Kind {
	case AuthCancelled:
		code = ErrCodeAuthCancelled
		message = MsgSignInCancelled
		status = http.StatusBadRequest
	case AuthPopupBlocked:
		code = ErrCodeAuthPopupBlocked
		message = MsgPopupBlocked
		status = http.StatusBadRequest
	case AuthConcurrentPopup:
		code = ErrCodeAuthConcurrent
		message = MsgConcurrentPopup
		status = http.StatusConflict
	case AuthNetwork:
		code = ErrCodeAuthNetwork
		message = MsgNetworkError
		status = http.StatusServiceUnavailable
	case AuthCredentialInvalid:
		code = ErrCodeCredentialInvalid
		message = MsgCredentialInvalid
	case AuthWeakPassword:
		code = ErrCodeInvalidInput
		message = MsgWeakPassword
		status = http.StatusBadRequest
	case AuthEmailInUse:
		code = ErrCodeInvalidInput
		message = MsgEmailInUse
		status = http.StatusConflict
	case AuthInvalidEmail:
		code = ErrCodeInvalidInput
		message = MsgInvalidEmail
		status = http.StatusBadRequest
	}

	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      message,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    authErr,
	}
}
