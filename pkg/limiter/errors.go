package limiter

// ConfigError reports an invalid Config or an unparsable rate
// expression. It is only ever returned at construction time.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "rate limiter config error: " + e.Message
}

// BackendError reports that the backing store was unreachable or that
// the atomic operation timed out. It is a distinct failure mode from a
// denial: a denied request is a normal Decision, never an error.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return "rate limiter backend error in " + e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
