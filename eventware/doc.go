// Package eventware composes request handlers that report their result
// asynchronously.
//
// A Handler receives the request, the response and a Radio, and reports one
// of three outcomes on the Radio: Ok (carry on), Done (stop, all good) or
// Error (stop, something failed). Serial runs handlers one after the other
// and stops at the first non-Ok outcome. Parallel starts them all at once and
// resolves on the first Error or Done, or on Ok once every handler is Ok.
//
//	auth := eventware.Func(checkToken)
//	warm := eventware.Parallel(loadCart, loadUser)
//	h := eventware.Serial(auth, warm, render)
//
// There is no cancellation. Once Parallel has resolved, handlers that have not
// reported yet keep running and their reports are ignored.
package eventware
