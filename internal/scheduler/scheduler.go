package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/askanna-io/askanna-cli/internal/download"
	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/rs/zerolog/log"
)

// Transfer performs one job. Implementations must be safe for concurrent use.
type Transfer func(ctx context.Context, job utils.TransferJob) error

// Reporter receives job status; *output.Manager satisfies it.
type Reporter interface {
	Register(label string) int
	SetMessage(id int, message string)
	SetProgress(id int, done, total int64)
	Complete(id int, message string)
	ReportError(id int, err error)
}

// DownloadTransfer runs every job as its own download session.
func DownloadTransfer(client utils.HTTPDoer, opts download.Options) Transfer {
	return func(ctx context.Context, job utils.TransferJob) error {
		jobOpts := opts
		jobOpts.Overwrite = job.Overwrite
		jobOpts.Progress = job.ProgressFunc
		_, err := download.New(client, jobOpts).Download(ctx, job.URL, job.OutputPath)
		return err
	}
}

// Run drains jobs with numWorkers goroutines and returns the number of
// failed jobs.
func Run(ctx context.Context, jobs []utils.TransferJob, numWorkers int, transfer Transfer) int {
	outputMgr := output.NewManager()
	outputMgr.StartDisplay()
	defer outputMgr.StopDisplay()
	return run(ctx, jobs, numWorkers, transfer, outputMgr)
}

func run(ctx context.Context, jobs []utils.TransferJob, numWorkers int, transfer Transfer, reporter Reporter) int {
	numWorkers = max(1, min(numWorkers, len(jobs)))
	jobCh := make(chan utils.TransferJob, len(jobs))
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	var failed int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := range numWorkers {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			n := processJobs(ctx, workerID, jobCh, transfer, reporter)
			mu.Lock()
			failed += n
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	return failed
}

func processJobs(ctx context.Context, workerID int, jobCh <-chan utils.TransferJob, transfer Transfer, reporter Reporter) int {
	failed := 0
	for job := range jobCh {
		id := reporter.Register(job.OutputPath)
		if err := ctx.Err(); err != nil {
			reporter.ReportError(id, err)
			failed++
			continue
		}
		log.Debug().Str("op", "scheduler/scheduler").Int("worker", workerID).Str("job", job.ID).Str("type", job.JobType).Msg("starting job")
		reporter.SetMessage(id, describe(job))
		job.ProgressFunc = func(done, total int64) {
			reporter.SetProgress(id, done, total)
		}
		if err := transfer(ctx, job); err != nil {
			log.Debug().Str("op", "scheduler/scheduler").Err(err).Str("job", job.ID).Msg("job failed")
			reporter.ReportError(id, err)
			failed++
			continue
		}
		reporter.Complete(id, fmt.Sprintf("Completed %s", job.OutputPath))
	}
	return failed
}

func describe(job utils.TransferJob) string {
	if job.JobType == "" {
		return fmt.Sprintf("Downloading %s", job.OutputPath)
	}
	return fmt.Sprintf("Downloading %s %s", job.JobType, job.OutputPath)
}
