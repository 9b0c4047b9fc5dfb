package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/probe"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeProbeTimeout   = "PROBE_TIMEOUT"
	ErrCodeProbeRefused   = "PROBE_REFUSED"
	ErrCodeUnreachable    = "HOST_UNREACHABLE"
	ErrCodeResolveFailed  = "RESOLVE_FAILED"
	ErrCodePermission     = "PERMISSION_DENIED"
	ErrCodeProbeFailed    = "PROBE_FAILED"
	ErrCodeSinkFailed     = "SINK_FAILED"
	ErrCodeStartupFailed  = "STARTUP_FAILED"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	env := JSONEnvelope{
		Success: true,
		Data:    data,
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	env := JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	env := JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	}
	return writeJSONEnvelope(w, env)
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var pbErr *errors.Error
	if stderrors.As(err, &pbErr) {
		return &JSONError{
			Code:       mapErrorCode(pbErr.Code, pbErr.Message),
			Message:    pbErr.Message,
			Suggestion: pbErr.Suggestion,
		}
	}

	var probeErr *probe.ProbeError
	if stderrors.As(err, &probeErr) {
		return probeErrorToJSON(probeErr)
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrProbe:
		return ErrCodeProbeFailed
	case errors.ErrSink:
		return ErrCodeSinkFailed
	case errors.ErrStartup:
		return ErrCodeStartupFailed
	}

	return ErrCodeUnknown
}

// probeErrorToJSON converts a probe error to JSON with a code per failure reason.
func probeErrorToJSON(probeErr *probe.ProbeError) *JSONError {
	var code string
	var suggestion string

	switch probeErr.Reason {
	case probe.ProbeFailTimeout:
		code = ErrCodeProbeTimeout
		suggestion = "Try a longer --timeout, or check the path to the host"
	case probe.ProbeFailRefused:
		code = ErrCodeProbeRefused
		suggestion = "The host answered but nothing listens on that port; try another --port"
	case probe.ProbeFailUnreachable:
		code = ErrCodeUnreachable
		suggestion = "Check your network connection and routes"
	case probe.ProbeFailResolve:
		code = ErrCodeResolveFailed
		suggestion = "Check the hostname spelling and your DNS settings"
	case probe.ProbeFailPermission:
		code = ErrCodePermission
		suggestion = "Run with elevated privileges or use --method tcp"
	default:
		code = ErrCodeProbeFailed
	}

	return &JSONError{
		Code:       code,
		Message:    probeErr.Error(),
		Suggestion: suggestion,
		Details: map[string]interface{}{
			"reason": probeErr.Reason.String(),
			"target": probeErr.Target,
		},
	}
}
