package eventware

import "fmt"

// Kind tells the three outcomes apart.
type Kind int

const (
	// KindOk lets the next handler run.
	KindOk Kind = iota
	// KindDone ends the chain successfully.
	KindDone
	// KindError ends the chain with a cause.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindDone:
		return "done"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the single result a handler reports.
type Outcome struct {
	Kind Kind
	// Err is set only for KindError.
	Err error
}

// Ok lets the chain continue with the next handler.
func Ok() Outcome { return Outcome{Kind: KindOk} }

// Done ends the chain successfully; later handlers do not run.
func Done() Outcome { return Outcome{Kind: KindDone} }

// Fail builds an error outcome. A nil cause becomes ErrNilCause.
func Fail(err error) Outcome {
	if err == nil {
		err = ErrNilCause
	}
	return Outcome{Kind: KindError, Err: err}
}

func (o Outcome) String() string {
	if o.Kind == KindError {
		return "error: " + o.Err.Error()
	}
	return o.Kind.String()
}
