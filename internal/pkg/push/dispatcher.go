package push

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/jobqueue"
)

// Enqueuer is the part of the job queue the dispatcher needs
type Enqueuer interface {
	EnqueueJob(ctx context.Context, jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error)
}

// Dispatcher schedules notifications without blocking the caller on delivery.
// A nil queue turns every call into a logged no-op.
type Dispatcher struct {
	queue Enqueuer
	topic string
}

func NewDispatcher(queue Enqueuer, topic string) *Dispatcher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Dispatcher{queue: queue, topic: topic}
}

// Topic returns the topic used for broadcasts and subscriptions
func (d *Dispatcher) Topic() string {
	return d.topic
}

// Broadcast queues msg for every subscribed device. Failures are logged only.
func (d *Dispatcher) Broadcast(ctx context.Context, msg Message) {
	if d == nil || d.queue == nil {
		log.Warnf("[Push] Delivery disabled, dropping notification %q", msg.Title)
		return
	}
	payload := jobqueue.PushTopicJobPayload{
		Topic: d.topic,
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
	}
	if _, err := d.queue.EnqueueJob(ctx, jobqueue.JobTypePushTopic, payload.ToMap()); err != nil {
		log.Errorf("[Push] Failed to queue notification %q: %v", msg.Title, err)
	}
}

// Subscribe queues a topic subscription for a device token. Failures are logged only.
func (d *Dispatcher) Subscribe(ctx context.Context, token string) {
	if d == nil || d.queue == nil {
		log.Warn("[Push] Delivery disabled, skipping topic subscription")
		return
	}
	payload := jobqueue.PushSubscribeJobPayload{Token: token, Topic: d.topic}
	if _, err := d.queue.EnqueueJob(ctx, jobqueue.JobTypePushSubscribe, payload.ToMap()); err != nil {
		log.Errorf("[Push] Failed to queue topic subscription: %v", err)
	}
}

// HandlerRegistry is implemented by *jobqueue.Queue
type HandlerRegistry interface {
	RegisterHandler(jobType jobqueue.JobType, h jobqueue.Handler)
}

// RegisterJobHandlers binds the push job types to sender
func RegisterJobHandlers(reg HandlerRegistry, sender Sender) {
	reg.RegisterHandler(jobqueue.JobTypePushTopic, func(ctx context.Context, job *jobqueue.Job) error {
		p, err := jobqueue.PushTopicJobPayloadFromMap(job.Payload)
		if err != nil {
			return err
		}
		if p.Topic == "" {
			return errors.New("push job without topic")
		}
		id, err := sender.SendToTopic(ctx, p.Topic, Message{Title: p.Title, Body: p.Body, Data: p.Data})
		if err != nil {
			return err
		}
		log.Infof("[Push] Notification sent: %s", id)
		return nil
	})

	reg.RegisterHandler(jobqueue.JobTypePushSubscribe, func(ctx context.Context, job *jobqueue.Job) error {
		p, err := jobqueue.PushSubscribeJobPayloadFromMap(job.Payload)
		if err != nil {
			return err
		}
		if p.Token == "" {
			return errors.New("subscription job without token")
		}
		return sender.SubscribeToTopic(ctx, p.Token, p.Topic)
	})
}
