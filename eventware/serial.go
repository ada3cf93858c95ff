package eventware

import (
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Serial composes handlers into one that runs them one at a time, in order.
//
// Each handler gets its own Radio. Ok starts the next handler; Done or Error
// is forwarded to the caller and nothing after it runs. Ok from the last
// handler is forwarded as Ok. With no handlers the result reports Ok at once.
//
// The returned Handler keeps no per-run state and may be invoked any number
// of times, concurrently included.
func Serial(handlers ...Handler) Handler {
	chain := compact(handlers)
	if len(chain) == 0 {
		return Noop
	}

	return func(req *request.Request, res *response.Response, radio *Radio) {
		var step func(i int)
		step = func(i int) {
			if i == len(chain) {
				radio.Ok()
				return
			}
			chain[i](req, res, NewRadio(func(o Outcome) {
				if o.Kind == KindOk {
					step(i + 1)
					return
				}
				radio.Report(o)
			}))
		}
		step(0)
	}
}
