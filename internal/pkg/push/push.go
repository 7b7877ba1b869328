// Package push delivers mobile notifications through Firebase Cloud Messaging.
//
// Requests never talk to FCM directly: a Dispatcher turns each notification into a
// job on the redis queue and the queue workers hand it to a Sender.
package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/gofiber/fiber/v2/log"
	"google.golang.org/api/option"
)

// DefaultTopic is the topic every registered device is subscribed to.
const DefaultTopic = "global"

// Message is a notification addressed to a topic
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender is the transport used by the queue workers
type Sender interface {
	SendToTopic(ctx context.Context, topic string, msg Message) (string, error)
	SubscribeToTopic(ctx context.Context, token, topic string) error
}

// FCMSender sends through the Firebase Admin SDK
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender initialises a Firebase app from a service account file
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &FCMSender{client: client}, nil
}

func (s *FCMSender) SendToTopic(ctx context.Context, topic string, msg Message) (string, error) {
	return s.client.Send(ctx, &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
}

func (s *FCMSender) SubscribeToTopic(ctx context.Context, token, topic string) error {
	resp, err := s.client.SubscribeToTopic(ctx, []string{token}, topic)
	if err != nil {
		return err
	}
	if resp.FailureCount > 0 && len(resp.Errors) > 0 {
		return fmt.Errorf("subscribe to %s rejected: %s", topic, resp.Errors[0].Reason)
	}
	log.Debugf("[Push] Subscribed token to topic %s", topic)
	return nil
}
