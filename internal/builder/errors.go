package builder

import (
	"github.com/pkg/errors"
)

// ContractViolation is the panic value raised when generation hits a
// programmer error: an unknown method with no argument rule, a cyclic
// object recipe, an unbalanced block or a construct path that does not
// assign its join slots. It is never a runtime condition to recover from
// inside the engine.
type ContractViolation struct {
	err error
}

func (c *ContractViolation) Error() string {
	return "contract violation: " + c.err.Error()
}

func (c *ContractViolation) Unwrap() error {
	return c.err
}

// Violationf aborts generation with a ContractViolation.
func Violationf(format string, args ...interface{}) {
	panic(&ContractViolation{err: errors.Errorf(format, args...)})
}

// RecoverViolation turns a ContractViolation panic into *errp. Other panics
// propagate. It must be called directly by a deferred statement.
func RecoverViolation(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if cv, ok := r.(*ContractViolation); ok {
		*errp = cv
		return
	}
	panic(r)
}
