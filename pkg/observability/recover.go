package observability

import (
	"fmt"
	"runtime/debug"
)

// RecoverAsError recovers a panic, logs it with its stack and stores it in
// *errp. It must be deferred directly:
//
//	func run() (err error) {
//	    defer observability.RecoverAsError(logger, "probe redis", &err)
//	    ...
//	}
func RecoverAsError(logger *Logger, where string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	logger.WithField("panic", fmt.Sprint(r)).
		WithField("stack", string(debug.Stack())).
		WithField("context", where).
		Error("PANIC recovered")
	if errp != nil {
		*errp = fmt.Errorf("panic in %s: %v", where, r)
	}
}
