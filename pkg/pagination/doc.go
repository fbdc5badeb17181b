// Package pagination holds the page arithmetic of the process-details
// view and a parallel batch fetcher for exporting whole filter sets.
//
// Pages are 1-based and hold PageSize clusters. The visible window shows
// at most WindowSize page numbers, centred on the current page where
// possible:
//
//	pager, visible := pagination.NewPager(page, totalCount)
//	skip := pagination.Skip(page, pagination.PageSize)
//
// The batch fetcher counts first, then distributes list requests across
// a worker pool:
//
//	fetcher := pagination.NewBatchFetcher(apiClient, pagination.DefaultConfig())
//	clusters, err := fetcher.FetchAll(ctx, filter)
//
// On a failed page the remaining work is cancelled and the partial result
// is returned with the error.
package pagination
