package fungp

import "github.com/pkg/errors"

// ErrInvalidConfig is returned by Run when the supplied Options fail
// validation. The run never begins.
var ErrInvalidConfig = errors.New("fungp: invalid config")

// ErrUnreachable signals an invariant violation inside the core. The
// only violation the core detects is a truncation that failed to
// converge; operator arities are not re-checked after variation. These
// are implementation bugs, not caller mistakes.
var ErrUnreachable = errors.New("fungp: unreachable invariant violation")

// invalidConfig wraps ErrInvalidConfig with a formatted message.
func invalidConfig(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

// unreachable wraps ErrUnreachable with a formatted message.
func unreachable(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUnreachable, format, args...)
}
