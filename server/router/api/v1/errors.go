package v1

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	aierrors "github.com/hrygo/studybuddy/server/internal/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var codeNames = map[codes.Code]string{
	codes.Canceled:           "CANCELED",
	codes.Unknown:            "UNKNOWN",
	codes.InvalidArgument:    "INVALID_ARGUMENT",
	codes.DeadlineExceeded:   "DEADLINE_EXCEEDED",
	codes.NotFound:           "NOT_FOUND",
	codes.AlreadyExists:      "ALREADY_EXISTS",
	codes.PermissionDenied:   "PERMISSION_DENIED",
	codes.ResourceExhausted:  "RESOURCE_EXHAUSTED",
	codes.FailedPrecondition: "FAILED_PRECONDITION",
	codes.Aborted:            "ABORTED",
	codes.OutOfRange:         "OUT_OF_RANGE",
	codes.Unimplemented:      "UNIMPLEMENTED",
	codes.Internal:           "INTERNAL",
	codes.Unavailable:        "UNAVAILABLE",
	codes.DataLoss:           "DATA_LOSS",
	codes.Unauthenticated:    "UNAUTHENTICATED",
}

func codeName(code codes.Code) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return "UNKNOWN"
}

// httpStatusToCode maps errors raised by echo itself (bad routes, bad bodies).
func httpStatusToCode(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusMethodNotAllowed:
		return codes.Unimplemented
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// toErrorResponse classifies err into an HTTP status and body.
// AI errors keep their own code; everything else is named after its grpc code.
func toErrorResponse(err error) (int, *errorResponse) {
	var aiErr *aierrors.AIError
	if errors.As(err, &aiErr) {
		return runtime.HTTPStatusFromCode(aiErr.GRPCCode()), &errorResponse{Code: string(aiErr.Code), Message: aiErr.Message}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code := httpStatusToCode(httpErr.Code)
		message := http.StatusText(httpErr.Code)
		if httpErr.Message != nil {
			message = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, &errorResponse{Code: codeName(code), Message: message}
	}

	if st, ok := status.FromError(err); ok {
		return runtime.HTTPStatusFromCode(st.Code()), &errorResponse{Code: codeName(st.Code()), Message: st.Message()}
	}
	return http.StatusInternalServerError, &errorResponse{Code: codeName(codes.Internal), Message: err.Error()}
}

// errorHandler writes errors as {"code", "message"}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	httpStatus, body := toErrorResponse(err)
	if httpStatus >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(httpStatus)
	} else {
		writeErr = c.JSON(httpStatus, body)
	}
	if writeErr != nil {
		slog.Warn("failed to write error response", "error", writeErr)
	}
}

// badRequest reports a malformed request body or parameter.
func badRequest(format string, args ...any) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}
