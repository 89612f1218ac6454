package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrStorageUnavailable   = fmt.Errorf("storage unavailable")
	ErrTransportUnavailable = fmt.Errorf("transport unavailable")
	ErrMalformedPayload     = fmt.Errorf("malformed payload")
	ErrUnknownEventType     = fmt.Errorf("unknown event type")
	ErrMessageNotFound      = fmt.Errorf("message not found")
)
