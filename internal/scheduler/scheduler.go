package scheduler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	rangehttp "github.com/tanq16/rangefetch/internal/downloaders/http"
	"github.com/tanq16/rangefetch/internal/downloaders/s3"
	"github.com/tanq16/rangefetch/internal/output"
	"github.com/tanq16/rangefetch/internal/utils"
)

// downloaderRegistry maps job types to their downloader implementations
var downloaderRegistry = map[string]utils.Downloader{
	"http": &rangehttp.HTTPDownloader{},
	"s3":   &s3.S3Downloader{},
}

// Output is where the status display is drawn.
var Output io.Writer = os.Stdout

// Run executes jobs with at most numWorkers jobs in flight. Every job is
// attempted; the returned error joins the failures.
func Run(jobs []utils.Job, numWorkers int) error {
	return run(jobs, numWorkers, downloaderRegistry)
}

func run(jobs []utils.Job, numWorkers int, registry map[string]utils.Downloader) error {
	numWorkers = max(1, min(numWorkers, len(jobs)))
	outputMgr := output.NewManager(Output)
	outputMgr.StartDisplay()
	defer outputMgr.StopDisplay()

	jobCh := make(chan utils.Job, len(jobs))
	for _, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.New().String()
		}
		jobCh <- job
	}
	close(jobCh)

	var mu sync.Mutex
	var errs []error
	var wg sync.WaitGroup
	for i := range numWorkers {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobCh {
				if err := processJob(&job, registry, outputMgr); err != nil {
					log.Error().Str("op", "scheduler").Str("jobID", job.ID).Int("worker", workerID).Err(err).Msg("job failed")
					mu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", job.URL, err))
					mu.Unlock()
				}
			}
		}(i + 1)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func processJob(job *utils.Job, registry map[string]utils.Downloader, outputMgr *output.Manager) error {
	name := job.OutputPath
	if name == "" {
		name = job.URL
	}
	displayID := outputMgr.RegisterJob(name)
	downloader, exists := registry[job.JobType]
	if !exists {
		err := fmt.Errorf("unknown job type: %s", job.JobType)
		outputMgr.ReportError(displayID, err)
		return err
	}
	if job.Metadata == nil {
		job.Metadata = make(map[string]any)
	}

	outputMgr.SetMessage(displayID, fmt.Sprintf("Validating %s job", job.JobType))
	if err := downloader.ValidateJob(job); err != nil {
		outputMgr.ReportError(displayID, fmt.Errorf("validation failed: %w", err))
		outputMgr.SetMessage(displayID, fmt.Sprintf("Validation failed for %s", name))
		return err
	}

	outputMgr.SetMessage(displayID, fmt.Sprintf("Building %s job", job.JobType))
	job.ProgressFunc = func(downloaded, total int64) {
		outputMgr.UpdateProgress(displayID, downloaded, total)
	}
	if err := downloader.BuildJob(job); err != nil {
		outputMgr.ReportError(displayID, fmt.Errorf("build failed: %w", err))
		outputMgr.SetMessage(displayID, fmt.Sprintf("Build failed for %s", job.OutputPath))
		return err
	}

	outputMgr.SetStatus(displayID, "running")
	outputMgr.SetMessage(displayID, fmt.Sprintf("Downloading %s", job.OutputPath))
	if err := downloader.Download(job); err != nil {
		outputMgr.ReportError(displayID, fmt.Errorf("download failed: %w", err))
		outputMgr.SetMessage(displayID, fmt.Sprintf("Download failed for %s", job.OutputPath))
		return err
	}
	outputMgr.Complete(displayID, fmt.Sprintf("Completed %s", job.OutputPath))
	return nil
}
