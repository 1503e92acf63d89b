package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	jobmodel "github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/metrics"
)

// jobDeadline bounds one whole job; batch and ingest jobs legitimately make
// many external calls, so this is generous compared to per-call timeouts.
const jobDeadline = 10 * time.Minute

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobDeadline)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job = _ragService.IngestDocument(ctx, job)
	case jobmodel.JobTypeBatch:
		job = _ragService.ProcessBatch(ctx, job)
	default:
		job = _ragService.ProcessRequest(ctx, job)
	}

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
