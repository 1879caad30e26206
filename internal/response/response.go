// Package response builds the JSON envelopes a serverless HTTP host
// expects from a handler: a status code, a header map and a body string.
package response

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json"

// DefaultHeaders are applied by JSON before any caller supplied headers.
var DefaultHeaders = map[string]string{
	"Content-Type":                 contentTypeJSON,
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type",
	"Access-Control-Allow-Methods": "OPTIONS,GET,POST,PUT,DELETE",
}

type Envelope struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Success encodes body as JSON. The status code defaults to 200.
// Encoding errors are returned as is.
func Success(body any, statusCode ...int) (Envelope, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		StatusCode: status(statusCode, http.StatusOK),
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       string(b),
	}, nil
}

// Error wraps message as {"error": message}. The status code defaults to 500.
func Error(message string, statusCode ...int) Envelope {
	// a struct with one string field always marshals
	b, _ := json.Marshal(errorBody{Error: message})
	return Envelope{
		StatusCode: status(statusCode, http.StatusInternalServerError),
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       string(b),
	}
}

// JSON builds an envelope on top of DefaultHeaders; entries in headers
// override the defaults. A nil body is sent as {}.
func JSON(statusCode int, body any, headers map[string]string) (Envelope, error) {
	if body == nil {
		body = struct{}{}
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Envelope{}, err
	}
	h := make(map[string]string, len(DefaultHeaders)+len(headers))
	for k, v := range DefaultHeaders {
		h[k] = v
	}
	for k, v := range headers {
		h[k] = v
	}
	return Envelope{StatusCode: statusCode, Headers: h, Body: string(b)}, nil
}

// Write copies the envelope onto w.
func (e Envelope) Write(w http.ResponseWriter) {
	for k, v := range e.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(e.StatusCode)
	_, _ = w.Write([]byte(e.Body))
}

func status(codes []int, def int) int {
	if len(codes) > 0 && codes[0] != 0 {
		return codes[0]
	}
	return def
}
