// Package procview is the UI-independent state of the process-details
// view: it reads the filter from query parameters, gates and runs the
// count/list fetch cycle, tracks the current page and remembers which
// clusters are expanded.
//
// A Controller is confined to one goroutine. Front ends that fetch
// asynchronously split a cycle into Begin, Fetch and Apply; results of
// superseded cycles are discarded by Apply.
package procview
