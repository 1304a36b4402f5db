package downloader

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// MaxWorkers caps the pool size
const MaxWorkers = 16

// Pool downloads images concurrently
type Pool struct {
	downloader  *Downloader
	concurrency int
}

// NewPool creates a pool of concurrency workers around d
func NewPool(d *Downloader, concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = 4
	}
	if concurrency > MaxWorkers {
		concurrency = MaxWorkers
	}
	return &Pool{downloader: d, concurrency: concurrency}
}

// DownloadAll fetches every job into dir. Results come back in job order;
// jobs skipped because ctx ended carry ctx's error.
func (p *Pool) DownloadAll(ctx context.Context, jobs []Job, dir string) []*Result {
	results := make([]*Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	work := make(chan int)
	var wg sync.WaitGroup
	for w := 1; w <= p.concurrency && w <= len(jobs); w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range work {
				log.Debug().Int("worker_id", id).Str("url", jobs[i].URL).Msg("Downloading image")
				results[i] = p.downloader.Download(ctx, jobs[i], dir)
			}
		}(w)
	}

send:
	for i := range jobs {
		select {
		case work <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(work)
	wg.Wait()

	for i, r := range results {
		if r == nil {
			results[i] = &Result{Job: jobs[i], Err: ctx.Err()}
		}
	}
	return results
}
