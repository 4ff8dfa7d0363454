package servicebus

import (
	"context"
	"encoding/json"
	"strings"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus connects to a Service Bus namespace with the default Azure credential
// chain. A connection string is accepted in place of the namespace.
func NewServiceBus(namespace string) (*azservicebus.Client, error) {
	if strings.HasPrefix(namespace, "Endpoint=") {
		return azservicebus.NewClientFromConnectionString(namespace, nil)
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// EventSender forwards engine events to a Service Bus queue or topic.
type EventSender struct {
	queue     string
	newSender func(queue string) (messageSender, error)
}

func NewEventSender(client *azservicebus.Client, queue string) *EventSender {
	return &EventSender{
		queue: queue,
		newSender: func(q string) (messageSender, error) {
			return client.NewSender(q, nil)
		},
	}
}

func (s *EventSender) Publish(ctx context.Context, evt model.Event) error {
	sender, err := s.newSender(s.queue)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}()

	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	contentType := "application/json"
	subject := string(evt.Type)
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]any{
			"session_id": evt.SessionID,
			"attempt":    evt.Attempt,
		},
	}
	if err := sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

var _ repository.IEventSink = (*EventSender)(nil)
