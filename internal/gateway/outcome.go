// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"encoding/json"
	"net/http"
)

// Kind identifies which variant an Outcome is.
type Kind string

const (
	KindSuccess            Kind = "success"
	KindClientError        Kind = "client_error"
	KindTimeout            Kind = "timeout"
	KindBackendUnreachable Kind = "backend_unreachable"
	KindBackendError       Kind = "backend_error"
	KindInternalError      Kind = "internal_error"
)

// User-facing messages for the variants the gateway synthesizes. Backend
// errors carry the backend's own message instead.
const (
	MsgInvalidURL         = "Missing or invalid URL"
	MsgTimeout            = "Request timed out. The media may be unavailable."
	MsgBackendUnreachable = "Backend API is not connected. Set the EXTRACT_API_URL environment variable."
	MsgExtractionFailed   = "Extraction failed"
	MsgInternal           = "Internal server error"
)

// Outcome is the result of one extraction attempt. Exactly one variant is
// populated: Body for KindSuccess, Message for every other kind, and Status
// only for KindBackendError.
type Outcome struct {
	Kind    Kind
	Body    json.RawMessage
	Message string
	Status  int
}

// Success wraps a backend body, which is passed through verbatim.
func Success(body []byte) Outcome {
	return Outcome{Kind: KindSuccess, Body: json.RawMessage(body)}
}

// ClientError reports a malformed request that the user can fix.
func ClientError(msg string) Outcome {
	return Outcome{Kind: KindClientError, Message: msg}
}

// Timeout reports that the backend did not answer within the bound.
func Timeout() Outcome {
	return Outcome{Kind: KindTimeout, Message: MsgTimeout}
}

// BackendUnreachable reports a transport failure or a missing backend address.
func BackendUnreachable() Outcome {
	return Outcome{Kind: KindBackendUnreachable, Message: MsgBackendUnreachable}
}

// BackendError carries a backend-authored rejection. An empty msg falls back
// to MsgExtractionFailed.
func BackendError(status int, msg string) Outcome {
	if msg == "" {
		msg = MsgExtractionFailed
	}
	return Outcome{Kind: KindBackendError, Status: status, Message: msg}
}

// InternalError is the last-resort variant for unanticipated failures.
func InternalError() Outcome {
	return Outcome{Kind: KindInternalError, Message: MsgInternal}
}

// IsSuccess reports whether o carries an extraction result.
func (o Outcome) IsSuccess() bool { return o.Kind == KindSuccess }

// HTTPStatus maps the outcome onto the status code the inbound boundary
// answers with.
func (o Outcome) HTTPStatus() int {
	switch o.Kind {
	case KindSuccess:
		return http.StatusOK
	case KindClientError:
		return http.StatusBadRequest
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindBackendUnreachable:
		return http.StatusServiceUnavailable
	case KindBackendError:
		if o.Status > 0 {
			return o.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the human-readable text for a failed outcome. Success
// has no message.
func (o Outcome) UserMessage() string {
	if o.Kind == KindSuccess {
		return ""
	}
	if o.Message == "" {
		return MsgInternal
	}
	return o.Message
}

// errorBody is the wire form of every non-success outcome.
type errorBody struct {
	Error string `json:"error"`
}

// ResponseBody returns the bytes the inbound boundary writes: the backend body
// verbatim on success, {"error": message} otherwise.
func (o Outcome) ResponseBody() []byte {
	if o.Kind == KindSuccess {
		return o.Body
	}
	data, _ := json.Marshal(errorBody{Error: o.UserMessage()})
	return data
}

// FromResponse rebuilds an Outcome from a gateway HTTP response, so a remote
// front end sees the same variants an in-process caller does. The variant is
// recovered from the status code; the message is taken from the body as-is.
func FromResponse(status int, body []byte) Outcome {
	if status >= 200 && status < 300 {
		if !json.Valid(body) {
			return InternalError()
		}
		return Success(body)
	}

	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	var o Outcome
	switch status {
	case http.StatusBadRequest:
		o = ClientError(MsgInvalidURL)
	case http.StatusGatewayTimeout:
		o = Timeout()
	case http.StatusServiceUnavailable:
		o = BackendUnreachable()
	case http.StatusInternalServerError:
		o = InternalError()
	default:
		return BackendError(status, eb.Error)
	}
	if eb.Error != "" {
		o.Message = eb.Error
	}
	return o
}
