package hal

import "go.uber.org/zap"

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger used for load, instantiate and invoke
// boundaries. The default is a no-op logger; the per-instruction loop never
// logs.
func WithLogger(log *zap.Logger) Option {
	return func(e *Environment) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMaxValueStack caps the value stack of every instance created by this
// environment. Values <= 0 select the default limit.
func WithMaxValueStack(n int) Option {
	return func(e *Environment) {
		e.maxValueStack = n
	}
}
