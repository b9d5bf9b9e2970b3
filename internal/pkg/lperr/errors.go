package lperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeBadGateway      = "UPSTREAM_UNAVAILABLE"
	CodeInternalError   = "INTERNAL_ERROR"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrUnauthorized is returned when admin credentials are missing or wrong.
	ErrUnauthorized = New(fiber.StatusUnauthorized, CodeUnauthorized, "missing or invalid credentials")

	// ErrTooManyRequests is returned when a client exceeds the rate limit.
	ErrTooManyRequests = New(fiber.StatusTooManyRequests, CodeTooManyRequests, "too many requests, please slow down")

	// ErrUnavailable is returned when a dependency of the request is down.
	ErrUnavailable = New(fiber.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable")

	// ErrBadGateway is returned when an upstream resource could not be read.
	ErrBadGateway = New(fiber.StatusBadGateway, CodeBadGateway, "upstream resource unavailable")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")
)

type Extras map[string]interface{}

type LottoError struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"INVALID_REQUEST"`
	Message    string `example:"invalid request: some or all request parameters are invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *LottoError {
	return &LottoError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e LottoError) Msg(format string, parts ...interface{}) *LottoError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e LottoError) WithExtras(extras Extras) *LottoError {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations interface{}) *LottoError {
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *LottoError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
