package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-computes KPI reports for active users.
	TaskReportWarmup = "report:warmup"
	// TaskCacheBump invalidates every cached KPI report.
	TaskCacheBump = "report:cache_bump"
)

// ReportWarmupPayload parameterises a warmup run.
type ReportWarmupPayload struct {
	Currency string `json:"currency"`
}

// NewReportWarmupTask constructs an Asynq task for report warmup.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// NewCacheBumpTask constructs an Asynq task for cache invalidation.
func NewCacheBumpTask() *asynq.Task {
	return asynq.NewTask(TaskCacheBump, nil)
}

// EnqueueReportWarmup enqueues a warmup task.
func (c *Client) EnqueueReportWarmup(ctx context.Context, payload ReportWarmupPayload) (*asynq.TaskInfo, error) {
	task, err := NewReportWarmupTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}
