package errutil

import "net/http"

type CoreStatus string

const (
	StatusBadRequest       CoreStatus = "BAD_REQUEST"
	StatusNotFound         CoreStatus = "NOT_FOUND"
	StatusConflict         CoreStatus = "CONFLICT"
	StatusValidationFailed CoreStatus = "VALIDATION_FAILED"
	StatusTimeout          CoreStatus = "TIMEOUT"
	StatusInternal         CoreStatus = "INTERNAL"
	StatusUnknown          CoreStatus = "UNKNOWN"

	// Pipeline failure classes. ProbeFailed covers unreadable or
	// video-less inputs, EncodeFailed a stage transform, StorageFailed
	// artifact upload/download/delete, QueueUnavailable the queue
	// transport itself.
	StatusProbeFailed      CoreStatus = "PROBE_FAILED"
	StatusEncodeFailed     CoreStatus = "ENCODE_FAILED"
	StatusStorageFailed    CoreStatus = "STORAGE_FAILED"
	StatusQueueUnavailable CoreStatus = "QUEUE_UNAVAILABLE"
)

// HTTPStatus converts the CoreStatus to its closest HTTP status code
// equivalent so gin handlers can return domain errors directly.
func (s CoreStatus) HTTPStatus() int {
	switch s {
	case StatusBadRequest, StatusValidationFailed:
		return http.StatusBadRequest
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	case StatusTimeout:
		return http.StatusGatewayTimeout
	case StatusProbeFailed, StatusEncodeFailed:
		return http.StatusUnprocessableEntity
	case StatusStorageFailed, StatusQueueUnavailable:
		return http.StatusServiceUnavailable
	case StatusInternal, StatusUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
