package eventware

import "sync/atomic"

// Radio carries exactly one Outcome from a handler to whoever composed it.
//
// The first report wins. Later reports on the same Radio are dropped, so a
// handler that reports twice, or reports from several goroutines, still
// produces one delivery. A handler that never reports stalls its chain
// forever; nothing here times out.
type Radio struct {
	fired   atomic.Bool
	deliver func(Outcome)
}

// NewRadio returns a Radio that hands its one Outcome to deliver.
// deliver runs on the goroutine of the reporting handler.
func NewRadio(deliver func(Outcome)) *Radio {
	return &Radio{deliver: deliver}
}

// Report delivers o unless something was already reported. It returns
// whether o was the delivered outcome.
func (r *Radio) Report(o Outcome) bool {
	if !r.fired.CompareAndSwap(false, true) {
		return false
	}
	if r.deliver != nil {
		r.deliver(o)
	}
	return true
}

// Ok lets the chain continue.
func (r *Radio) Ok() { r.Report(Ok()) }

// Done ends the chain successfully.
func (r *Radio) Done() { r.Report(Done()) }

// Error ends the chain with err.
func (r *Radio) Error(err error) { r.Report(Fail(err)) }

// Next reports Ok for a nil err and Error otherwise, for handlers written
// in the next(err) style.
func (r *Radio) Next(err error) {
	if err != nil {
		r.Error(err)
		return
	}
	r.Ok()
}

// Reported tells whether an outcome has already been delivered.
func (r *Radio) Reported() bool {
	return r.fired.Load()
}
