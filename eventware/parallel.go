package eventware

import (
	"sync"

	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Parallel composes handlers into one that starts all of them, in list order,
// without waiting for any to report.
//
// The aggregate resolves on the first Error or Done it observes, or with Ok
// once every handler has reported Ok. Reports are serialized, so when several
// handlers report before returning, the earliest registered one wins. Anything
// reported after resolution is dropped.
//
// Handlers still running after resolution are not stopped. If one holds a
// resource until it reports, that resource stays held.
//
// With no handlers the result reports Ok at once. The returned Handler keeps
// its aggregation state per invocation and is reusable.
func Parallel(handlers ...Handler) Handler {
	group := compact(handlers)
	if len(group) == 0 {
		return Noop
	}

	return func(req *request.Request, res *response.Response, radio *Radio) {
		var (
			mu        sync.Mutex
			remaining = len(group)
			resolved  bool
		)

		settle := func(o Outcome) {
			mu.Lock()
			if resolved {
				mu.Unlock()
				return
			}
			if o.Kind == KindOk {
				remaining--
				if remaining > 0 {
					mu.Unlock()
					return
				}
			}
			resolved = true
			mu.Unlock()

			radio.Report(o)
		}

		for _, h := range group {
			h(req, res, NewRadio(settle))
		}
	}
}
