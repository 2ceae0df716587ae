package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP status mapping.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause. Base values
// below are shared; never mutate them in place.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// Is makes errors.Is match any error of the same kind, so a wrapped
// copy still compares equal to its base value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code && e.Message == t.Message
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Cart and checkout error types
var (
	ErrAlreadyInCart = New(http.StatusConflict, "Item already in cart", nil)
	ErrEmptyCart     = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrDraftPersist  = New(http.StatusInternalServerError, "Failed to save order draft", nil)
	ErrSessionCreate = New(http.StatusBadGateway, "Failed to create payment session", nil)
	ErrVerification  = New(http.StatusBadGateway, "Payment verification failed", nil)
	ErrDraftNotFound = New(http.StatusNotFound, "Order draft not found", nil)
	ErrOrderWrite    = New(http.StatusInternalServerError, "Failed to write order records", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
	ErrEmailTaken         = New(http.StatusConflict, "Email already registered", nil)
)

// Respond writes err as a JSON response. Unknown error values are
// reported as internal server errors without leaking their message.
func Respond(c *gin.Context, err error) {
	if e, ok := err.(*Error); ok {
		c.JSON(e.Code, gin.H{"error": e.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternalServer.Message})
}
