package errors

// User-facing messages surfaced as toasts or inline error states.
const (
	MsgSignInCancelled    = "Sign-in was cancelled"
	MsgPopupBlocked       = "Popup was blocked by browser. Please allow popups and try again"
	MsgConcurrentPopup    = "Only one popup request is allowed at a time"
	MsgNetworkError       = "Network error. Please check your internet connection"
	MsgSignInFailed       = "Sign-in failed. Please try again"
	MsgWeakPassword       = "Password is too weak. Use at least 6 characters"
	MsgEmailInUse         = "An account already exists for this email"
	MsgInvalidEmail       = "Email address is not valid"
	MsgCredentialInvalid  = "Your session has expired. Please sign in again"
	MsgSyncWarning        = "Signed in successfully, but user data may not be synced"
	MsgFetchFailed        = "Failed to load data. Please try again"
	MsgMutationFailed     = "The requested change could not be applied"
	MsgTimeout            = "The request timed out. Please try again"
	MsgNotFound           = "The requested record was not found"
	MsgInvalidInput       = "Please check the highlighted fields and try again"
	MsgUnauthorized       = "You must be signed in to do that"
	MsgServiceUnavailable = "Service is temporarily unavailable. Please try again later"
	MsgInternalError      = "Something went wrong. Please try again"
)
