package workflow

import "net/http"

// Status is the outcome reported to clients. Business rejections are statuses, not errors.
type Status string

const (
	StatusBorrowed        Status = "successfully borrowed"
	StatusReturned        Status = "successfully returned"
	StatusExtended        Status = "successfully extended"
	StatusAlreadyBorrowed Status = "already borrowed"
	StatusNotBorrowed     Status = "book not borrowed"
	StatusUserUnknown     Status = "user unknown"
	StatusBookUnknown     Status = "book unknown"
	StatusLimitReached    Status = "maximum borrow period reached"
)

func (s Status) Succeeded() bool {
	return s == StatusBorrowed || s == StatusReturned || s == StatusExtended
}

func (s Status) HTTPStatus() int {
	switch s {
	case StatusBorrowed, StatusReturned, StatusExtended:
		return http.StatusOK
	case StatusUserUnknown, StatusBookUnknown:
		return http.StatusNotFound
	case StatusAlreadyBorrowed, StatusNotBorrowed:
		return http.StatusConflict
	case StatusLimitReached:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
