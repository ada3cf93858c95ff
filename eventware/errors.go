package eventware

import "errors"

// ErrNilCause replaces a nil error passed to Radio.Error.
var ErrNilCause = errors.New("eventware: error reported without a cause")
