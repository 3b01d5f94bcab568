package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrServerNotFound  = fmt.Errorf("server not found")
	ErrMemberNotFound  = fmt.Errorf("member not found")
	ErrSlowConsumer    = fmt.Errorf("session send buffer full")
	ErrSessionClosed   = fmt.Errorf("session closed")
	ErrInvalidPresence = fmt.Errorf("invalid presence status")
	ErrInvalidColor    = fmt.Errorf("invalid role color")
)
