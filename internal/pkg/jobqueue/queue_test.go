package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueue(t *testing.T) {
	tests := []struct {
		name            string
		workers         int
		expectedWorkers int
	}{
		{"Valid worker count", 5, 5},
		{"Zero workers", 0, 3},
		{"Negative workers", -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := NewQueue(nil, tt.workers)

			assert.NotNil(t, queue)
			assert.Equal(t, tt.expectedWorkers, queue.workers)
			assert.Equal(t, tt.expectedWorkers, cap(queue.workerPool))
			assert.NotNil(t, queue.stopCh)
			assert.False(t, queue.running)
		})
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "job:", JobKeyPrefix)
	assert.Equal(t, "job_queue", JobQueueKey)
	assert.Equal(t, "job_processing", JobProcessingKey)
	assert.Equal(t, "job_stats", JobStatsKey)
	assert.Equal(t, 3, DefaultMaxRetries)
	assert.Equal(t, 24*time.Hour, JobTTL)
}

func TestRegisterHandler(t *testing.T) {
	queue := NewQueue(nil, 1)

	_, ok := queue.handlerFor(JobTypePushTopic)
	assert.False(t, ok)

	calls := 0
	queue.RegisterHandler(JobTypePushTopic, func(ctx context.Context, job *Job) error {
		calls++
		return nil
	})
	h, ok := queue.handlerFor(JobTypePushTopic)
	require.True(t, ok)
	require.NoError(t, h(context.Background(), &Job{}))
	assert.Equal(t, 1, calls)
}

func TestProcessJobWithRedis(t *testing.T) {
	client := newIsolatedRedisClient(t, isolatedJobQueueTestRedisDB)
	ctx := context.Background()

	t.Run("completed job is removed", func(t *testing.T) {
		queue := NewQueue(client, 1)
		var seen *PushTopicJobPayload
		queue.RegisterHandler(JobTypePushTopic, func(ctx context.Context, job *Job) error {
			p, err := PushTopicJobPayloadFromMap(job.Payload)
			seen = p
			return err
		})

		job, err := queue.EnqueueJob(ctx, JobTypePushTopic, PushTopicJobPayload{Topic: "global", Title: "t", Body: "b"}.ToMap())
		require.NoError(t, err)

		dequeued, err := queue.dequeueJob(ctx)
		require.NoError(t, err)
		assert.Equal(t, job.ID, dequeued.ID)

		queue.processJob(ctx, dequeued)
		require.NotNil(t, seen)
		assert.Equal(t, "global", seen.Topic)

		_, err = queue.GetJob(ctx, job.ID)
		assert.Error(t, err)
		size, err := queue.GetProcessingSize(ctx)
		require.NoError(t, err)
		assert.Zero(t, size)

		stats, err := queue.GetJobStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats[JobStatusCompleted])
	})

	t.Run("failing job is scheduled for retry", func(t *testing.T) {
		queue := NewQueue(client, 1)
		queue.retryDelay = 10 * time.Millisecond
		queue.RegisterHandler(JobTypePushSubscribe, func(ctx context.Context, job *Job) error {
			return errors.New("token rejected")
		})

		job, err := queue.EnqueueJob(ctx, JobTypePushSubscribe, PushSubscribeJobPayload{Token: "x", Topic: "global"}.ToMap())
		require.NoError(t, err)
		dequeued, err := queue.dequeueJob(ctx)
		require.NoError(t, err)

		queue.processJob(ctx, dequeued)

		stored, err := queue.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, JobStatusRetrying, stored.Status)
		assert.Equal(t, 1, stored.RetryCount)
		assert.Equal(t, "token rejected", stored.ErrorMsg)

		assert.Eventually(t, func() bool {
			n, err := queue.GetQueueSize(ctx)
			return err == nil && n == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("unknown type fails", func(t *testing.T) {
		queue := NewQueue(client, 1)
		job := &Job{ID: "unknown-1", Type: "nope", MaxRetries: 0}
		queue.processJob(ctx, job)
		assert.Equal(t, JobStatusFailed, job.Status)
		assert.Contains(t, job.ErrorMsg, "unknown job type")
	})
}
