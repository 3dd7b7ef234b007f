package response

import (
	"encoding/json"
	"net/http"
	"rentals/shared/constant"
	"rentals/shared/failure"
	"rentals/shared/logger"
)

// Data is the success envelope: {"data": ...}.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the failure body. Error holds the wrapped cause when it differs from Message.
type Error struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithJSON(w http.ResponseWriter, code int, payload any) {
	write(w, code, Data[any]{Data: &payload})
}

func WithMessage(w http.ResponseWriter, code int, message string) {
	write(w, code, Message{Message: &message})
}

// WithError answers with the Failure code in err, or 500 for plain errors.
func WithError(w http.ResponseWriter, err error) {
	body := Error{Message: err.Error()}
	if detail := failure.GetDetail(err); detail != body.Message {
		body.Error = detail
	}

	write(w, failure.GetCode(err), body)
}

func WithRequestLimitExceeded(w http.ResponseWriter) {
	WithMessage(w, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func write(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(code)

	if _, err = w.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
