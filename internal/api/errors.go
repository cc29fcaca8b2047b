package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Kind classifies a backend failure. The set is closed so flows can branch
// on it instead of sniffing message text.
type Kind string

const (
	KindValidation    Kind = "validation"     // malformed or rejected input
	KindAuth          Kind = "auth"           // 401, handled globally by the client
	KindStateConflict Kind = "state-conflict" // precondition on server state failed
	KindServer        Kind = "server"         // backend or transport fault
)

// Error is the tagged form of a non-2xx backend response, decoded once at
// the transport boundary from the {"detail": ...} body.
type Error struct {
	Status int
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %s (%d)", e.Kind, e.Status)
}

// KindOf extracts the failure kind from err. Transport-level failures and
// non-API errors report KindServer.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

// DetailOf extracts the server-supplied reason from err, or "".
func DetailOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

func kindFor(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden, status == http.StatusConflict, status == http.StatusNotFound:
		return KindStateConflict
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// decodeError reads the error body of resp into an *Error. Bodies that are
// not the expected {"detail": ...} shape keep their raw text as the detail.
func decodeError(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body struct {
		Detail string `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		detail = body.Detail
	} else {
		detail = strings.TrimSpace(string(raw))
	}

	return &Error{Status: resp.StatusCode, Kind: kindFor(resp.StatusCode), Detail: detail}
}
