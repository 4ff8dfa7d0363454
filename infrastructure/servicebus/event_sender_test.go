package servicebus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"creative-assigner/domain/model"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent    []*azservicebus.Message
	sendErr error
	closed  int
}

func (f *fakeSender) SendMessage(ctx context.Context, m *azservicebus.Message, _ *azservicebus.SendMessageOptions) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) Close(context.Context) error {
	f.closed++
	return nil
}

func newTestSender(f *fakeSender, openErr error) *EventSender {
	return &EventSender{
		queue: "submission-events",
		newSender: func(q string) (messageSender, error) {
			if openErr != nil {
				return nil, openErr
			}
			return f, nil
		},
	}
}

func TestEventSender_Publish(t *testing.T) {
	f := &fakeSender{}
	evt := model.Event{Type: model.EventSubmissionComplete, SessionID: "s-1", Attempt: 3}

	require.NoError(t, newTestSender(f, nil).Publish(context.Background(), evt))

	require.Len(t, f.sent, 1)
	msg := f.sent[0]
	assert.Equal(t, "submission-complete", *msg.Subject)
	assert.Equal(t, "application/json", *msg.ContentType)
	assert.Equal(t, "s-1", msg.ApplicationProperties["session_id"])

	var got model.Event
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, evt, got)
	assert.Equal(t, 1, f.closed)
}

func TestEventSender_Errors(t *testing.T) {
	evt := model.Event{Type: model.EventSubmissionComplete}

	err := newTestSender(&fakeSender{}, errors.New("namespace not found")).Publish(context.Background(), evt)
	assert.EqualError(t, err, "namespace not found")

	f := &fakeSender{sendErr: errors.New("quota exceeded")}
	err = newTestSender(f, nil).Publish(context.Background(), evt)
	assert.EqualError(t, err, "quota exceeded")
	assert.Equal(t, 1, f.closed, "the sender is closed on failure too")
}
