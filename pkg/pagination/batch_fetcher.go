package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/medshield-admin/pkg/logging"
	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procview_export_pages_total",
		Help: "Cluster pages fetched by the batch fetcher by outcome",
	}, []string{"outcome"})

	exportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "procview_export_duration_seconds",
		Help:    "Duration of full batch exports",
		Buckets: []float64{0.5, 1, 5, 10, 30, 60, 300},
	})
)

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests.
	MaxConcurrency int
	// Timeout per page fetch.
	Timeout time.Duration
	// PageSize is the limit sent with every list request.
	PageSize int
}

// DefaultConfig returns the default batch configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
		PageSize:       PageSize,
	}
}

// ClusterSource is the subset of the API client the batch fetcher needs.
type ClusterSource interface {
	CountClusters(ctx context.Context, f model.FilterCriteria) (int, error)
	ListClusters(ctx context.Context, f model.FilterCriteria, skip, limit int) ([]model.DocumentCluster, error)
}

// PageResult represents the result of fetching a single page.
type PageResult struct {
	PageNumber int
	Clusters   []model.DocumentCluster
	Error      error
}

// BatchFetcher fetches every page of a filter set with a worker pool.
type BatchFetcher struct {
	source ClusterSource
	config Config
}

// NewBatchFetcher creates a new batch fetcher.
func NewBatchFetcher(source ClusterSource, config Config) *BatchFetcher {
	defaults := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}

	return &BatchFetcher{
		source: source,
		config: config,
	}
}

// FetchAll counts the clusters for f and fetches all pages in parallel.
// Clusters are returned in page order. When a page fails the remaining
// work is cancelled and the pages fetched so far are returned together
// with the error.
func (bf *BatchFetcher) FetchAll(ctx context.Context, f model.FilterCriteria) ([]model.DocumentCluster, error) {
	logger := logging.NewLogger("batch-fetcher")
	start := time.Now()
	defer func() {
		exportDuration.Observe(time.Since(start).Seconds())
	}()

	countCtx, cancelCount := context.WithTimeout(ctx, bf.config.Timeout)
	total, err := bf.source.CountClusters(countCtx, f)
	cancelCount()
	if err != nil {
		return nil, fmt.Errorf("count clusters: %w", err)
	}

	totalPages := TotalPages(total, bf.config.PageSize)
	logger.Info().
		Str("phase", f.Phase).
		Str("role", f.Role).
		Int("total_count", total).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	if totalPages == 0 {
		return []model.DocumentCluster{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pageQueue := make(chan int)
	pageResults := make(chan PageResult)

	go func() {
		defer close(pageQueue)
		for page := 1; page <= totalPages; page++ {
			select {
			case pageQueue <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	workers := min(bf.config.MaxConcurrency, totalPages)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go bf.worker(ctx, f, pageQueue, pageResults, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
	}()

	pages := make(map[int][]model.DocumentCluster, totalPages)
	var firstErr error
	for result := range pageResults {
		if result.Error != nil {
			pagesFetchedTotal.WithLabelValues("error").Inc()
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", result.PageNumber, result.Error)
				cancel()
			}
			continue
		}

		pagesFetchedTotal.WithLabelValues("ok").Inc()
		pages[result.PageNumber] = result.Clusters

		if len(pages)%50 == 0 {
			logger.Info().
				Int("fetched", len(pages)).
				Int("total", totalPages).
				Float64("progress_pct", float64(len(pages))/float64(totalPages)*100).
				Msg("Fetch progress")
		}
	}

	clusters := make([]model.DocumentCluster, 0, total)
	for page := 1; page <= totalPages; page++ {
		clusters = append(clusters, pages[page]...)
	}

	if firstErr != nil {
		logger.Warn().
			Err(firstErr).
			Int("fetched_pages", len(pages)).
			Int("total_pages", totalPages).
			Msg("Worker error - returning partial results")
		return clusters, fmt.Errorf("partial data (%d/%d pages): %w", len(pages), totalPages, firstErr)
	}

	if len(clusters) != total {
		logger.Warn().
			Int("total_count", total).
			Int("fetched", len(clusters)).
			Msg("Cluster count changed during export")
	}

	logger.Info().
		Int("pages", len(pages)).
		Int("clusters", len(clusters)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return clusters, nil
}

// worker processes pages from the queue.
func (bf *BatchFetcher) worker(ctx context.Context, f model.FilterCriteria, pageQueue <-chan int, results chan<- PageResult, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	logger := logging.NewLogger("batch-fetcher")
	pagesProcessed := 0

	for pageNum := range pageQueue {
		pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		clusters, err := bf.source.ListClusters(pageCtx, f, Skip(pageNum, bf.config.PageSize), bf.config.PageSize)
		cancel()

		if err != nil {
			logger.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")
		}

		// results is drained until every worker is done
		results <- PageResult{PageNumber: pageNum, Clusters: clusters, Error: err}
		if err != nil {
			return
		}
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		logger.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
}
