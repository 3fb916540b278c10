package service

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"hazel-marketplace/internal/logger"
)

// fcmClient is the part of the Firebase messaging client used here.
type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebasePush struct {
	client fcmClient
}

// NewFirebasePush connects to Firebase Cloud Messaging with a service
// account file. Devices subscribe to the topic "user-<id>".
func NewFirebasePush(ctx context.Context, credentialsFile string) (PushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return &firebasePush{client: client}, nil
}

// UserTopic is the FCM topic a user's devices subscribe to.
func UserTopic(userID int32) string {
	return fmt.Sprintf("user-%d", userID)
}

func (p *firebasePush) Send(ctx context.Context, userID int32, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Topic:        UserTopic(userID),
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	}
	logger.ExternalServiceCall("FCM", "Send", "topic", msg.Topic)
	id, err := p.client.Send(ctx, msg)
	logger.ExternalServiceResult("FCM", "Send", err, "messageID", id)
	return err
}

type noopPush struct{}

// NewNoopPush is used when Firebase is not configured.
func NewNoopPush() PushSender {
	return noopPush{}
}

func (noopPush) Send(context.Context, int32, string, string, map[string]string) error {
	return nil
}

type multiPush []PushSender

// MultiPush delivers to every sender and joins their errors.
func MultiPush(senders ...PushSender) PushSender {
	return multiPush(senders)
}

func (m multiPush) Send(ctx context.Context, userID int32, title, body string, data map[string]string) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, userID, title, body, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
