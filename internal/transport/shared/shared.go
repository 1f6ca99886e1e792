// Package shared centralizes JSON request decoding and response writing so
// every domain handler produces the same envelopes: either the entity or a
// list of structured error descriptors, never an unhandled fault.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "dealeraudit/pkg/domain-errors"
)

// errorDescriptor is the wire form of one coded error.
type errorDescriptor struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Errors []errorDescriptor `json:"errors"`
}

// WriteJSON writes a success payload.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// WriteError translates domain errors into HTTP responses. Accumulated
// validation lists are flattened so the caller sees every failure at once.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var list *dErrors.List
	if errors.As(err, &list) {
		w.WriteHeader(statusForList(list))
		_ = json.NewEncoder(w).Encode(envelope(list.Errors()))
		return
	}

	w.WriteHeader(statusFor(dErrors.CodeOf(err)))
	_ = json.NewEncoder(w).Encode(envelope([]error{err}))
}

func envelope(errs []error) errorEnvelope {
	out := errorEnvelope{Errors: make([]errorDescriptor, 0, len(errs))}
	for _, err := range errs {
		var coded *dErrors.Error
		if errors.As(err, &coded) {
			out.Errors = append(out.Errors, errorDescriptor{
				Code:    string(coded.Code),
				Field:   coded.Field,
				Message: coded.Message,
			})
			continue
		}
		out.Errors = append(out.Errors, errorDescriptor{
			Code:    string(dErrors.CodeInternal),
			Message: "internal error",
		})
	}
	return out
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// statusForList picks the most specific status when the accumulated list
// mixes codes: conflicts dominate plain validation failures.
func statusForList(list *dErrors.List) int {
	if list.HasCode(dErrors.CodeConflict) {
		return http.StatusConflict
	}
	if list.HasCode(dErrors.CodeNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// DecodeJSON decodes a request body, rejecting unknown fields and type
// mismatches (a string where a number belongs is a validation error, not a
// silent coercion).
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}
