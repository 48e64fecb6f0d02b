// Package httpx holds the JSON conventions shared by every HTTP handler:
// bodies are {success, msg, ...} and failures carry a stable code.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
)

// MsgInvalidBody is reported for request bodies that are not valid JSON.
const MsgInvalidBody = "Invalid request body"

const msgInternal = "Internal server error"

// Body is a response document. Success is set by OK and Error.
type Body map[string]any

func NewRequestID() string { return "req_" + uuid.NewString() }

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id assigned to the request, "" if none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON decodes the request body into dst. Unknown fields are tolerated.
func ReadJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(err, apperr.InvalidInput, MsgInvalidBody)
	}
	return nil
}

// OK writes a 200 with success set.
func OK(w http.ResponseWriter, b Body) {
	if b == nil {
		b = Body{}
	}
	b["success"] = true
	WriteJSON(w, http.StatusOK, b)
}

// Message writes a 200 {success:true, msg}.
func Message(w http.ResponseWriter, msg string) {
	OK(w, Body{"msg": msg})
}

// Error reports err with the status of its kind. Errors that carry no kind
// are logged and answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Wrap(err, apperr.Internal, msgInternal)
	}
	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", RequestID(r.Context())),
			zap.String("code", e.Kind.Code()),
			zap.Error(err),
		}
		if e.Kind.Status() >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Info("request rejected", fields...)
		}
	}
	WriteJSON(w, e.Kind.Status(), Body{
		"success": false,
		"msg":     e.Msg,
		"code":    e.Kind.Code(),
	})
}
