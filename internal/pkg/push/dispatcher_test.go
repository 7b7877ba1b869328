package push

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/jobqueue"
)

type recordingQueue struct {
	jobs     []*jobqueue.Job
	err      error
	handlers map[jobqueue.JobType]jobqueue.Handler
}

func (q *recordingQueue) EnqueueJob(ctx context.Context, jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error) {
	if q.err != nil {
		return nil, q.err
	}
	job := &jobqueue.Job{ID: "job", Type: jobType, Payload: payload}
	q.jobs = append(q.jobs, job)
	return job, nil
}

func (q *recordingQueue) RegisterHandler(jobType jobqueue.JobType, h jobqueue.Handler) {
	if q.handlers == nil {
		q.handlers = map[jobqueue.JobType]jobqueue.Handler{}
	}
	q.handlers[jobType] = h
}

type fakeSender struct {
	sent       []Message
	topics     []string
	subscribed []string
	err        error
}

func (s *fakeSender) SendToTopic(ctx context.Context, topic string, msg Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.topics = append(s.topics, topic)
	s.sent = append(s.sent, msg)
	return "projects/kmcc/messages/1", nil
}

func (s *fakeSender) SubscribeToTopic(ctx context.Context, token, topic string) error {
	if s.err != nil {
		return s.err
	}
	s.subscribed = append(s.subscribed, token+"@"+topic)
	return nil
}

func TestDispatcherUsesOneTopicForBroadcastAndSubscribe(t *testing.T) {
	q := &recordingQueue{}
	d := NewDispatcher(q, "")
	assert.Equal(t, DefaultTopic, d.Topic())

	d.Broadcast(context.Background(), Message{Title: "Hello", Body: "World", Data: map[string]string{"type": "admin"}})
	d.Subscribe(context.Background(), "device-1")

	require.Len(t, q.jobs, 2)
	assert.Equal(t, jobqueue.JobTypePushTopic, q.jobs[0].Type)
	assert.Equal(t, DefaultTopic, q.jobs[0].Payload["topic"])
	assert.Equal(t, jobqueue.JobTypePushSubscribe, q.jobs[1].Type)
	assert.Equal(t, DefaultTopic, q.jobs[1].Payload["topic"])
}

func TestDispatcherNeverFailsTheCaller(t *testing.T) {
	q := &recordingQueue{err: errors.New("redis down")}
	d := NewDispatcher(q, "members")
	assert.NotPanics(t, func() {
		d.Broadcast(context.Background(), Message{Title: "x"})
		d.Subscribe(context.Background(), "token")
	})

	disabled := NewDispatcher(nil, "")
	assert.NotPanics(t, func() {
		disabled.Broadcast(context.Background(), Message{Title: "x"})
		disabled.Subscribe(context.Background(), "token")
	})

	var nilDispatcher *Dispatcher
	assert.NotPanics(t, func() { nilDispatcher.Broadcast(context.Background(), Message{}) })
}

func TestJobHandlersDeliverThroughSender(t *testing.T) {
	q := &recordingQueue{}
	sender := &fakeSender{}
	RegisterJobHandlers(q, sender)
	d := NewDispatcher(q, "global")

	d.Broadcast(context.Background(), Message{Title: "New Travel", Body: "Check out the latest travel update!"})
	d.Subscribe(context.Background(), "device-9")
	require.Len(t, q.jobs, 2)

	for _, job := range q.jobs {
		h, ok := q.handlers[job.Type]
		require.True(t, ok, job.Type)
		require.NoError(t, h(context.Background(), job))
	}

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "New Travel", sender.sent[0].Title)
	assert.Equal(t, []string{"global"}, sender.topics)
	assert.Equal(t, []string{"device-9@global"}, sender.subscribed)
}

func TestJobHandlersReportFailures(t *testing.T) {
	q := &recordingQueue{}
	RegisterJobHandlers(q, &fakeSender{err: errors.New("unavailable")})

	err := q.handlers[jobqueue.JobTypePushTopic](context.Background(), &jobqueue.Job{
		Payload: jobqueue.PushTopicJobPayload{Topic: "global", Title: "t"}.ToMap(),
	})
	assert.EqualError(t, err, "unavailable")

	err = q.handlers[jobqueue.JobTypePushTopic](context.Background(), &jobqueue.Job{Payload: map[string]interface{}{}})
	assert.Error(t, err)

	err = q.handlers[jobqueue.JobTypePushSubscribe](context.Background(), &jobqueue.Job{Payload: map[string]interface{}{"topic": "global"}})
	assert.Error(t, err)
}
