package ringbuffer

import "errors"

// ErrorKind classifies the failures a ring buffer can surface
type ErrorKind int

const (
	// KindConfiguration marks construction-time failures; the buffer is
	// not usable
	KindConfiguration ErrorKind = iota

	// KindSchemaMismatch marks an insert whose batch does not conform
	// to the record schema; the buffer is untouched
	KindSchemaMismatch

	// KindEpisodeTrackingDisabled marks an episode query against a
	// buffer constructed without episode semantics
	KindEpisodeTrackingDisabled
)

// BufferError implements errors unique to a ring buffer memory
type BufferError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// Error satisfies the error interface
func (e *BufferError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause
func (e *BufferError) Unwrap() error {
	return e.Err
}

var errInvalidCapacity = errors.New("capacity must be a positive integer")

var errNilSpace = errors.New("nil record space")

var errNilEngine = errors.New("nil engine")

var errNoTerminalField = errors.New("episode semantics require a bool " +
	"terminal field in the record space")

var errEpisodeTrackingDisabled = errors.New("episode tracking disabled " +
	"at construction")

func kindOf(err error) (ErrorKind, bool) {
	bufferErr, ok := err.(*BufferError)
	if !ok {
		return 0, false
	}
	return bufferErr.Kind, true
}

// IsConfiguration returns whether an error reports an invalid buffer
// configuration
func IsConfiguration(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindConfiguration
}

// IsSchemaMismatch returns whether an error reports a batch that does
// not conform to the buffer's record schema
func IsSchemaMismatch(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindSchemaMismatch
}

// IsEpisodeTrackingDisabled returns whether an error reports an episode
// query against a buffer without episode semantics
func IsEpisodeTrackingDisabled(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindEpisodeTrackingDisabled
}
