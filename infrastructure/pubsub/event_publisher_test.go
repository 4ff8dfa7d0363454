package pubsub_test

import (
	"context"
	"encoding/json"
	"testing"

	"creative-assigner/domain/model"
	"creative-assigner/infrastructure/pubsub"

	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestEventPublisher_Publish(t *testing.T) {
	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	client, err := pubsub.NewPubSub(ctx, "creative-assigner-test", option.WithGRPCConn(conn))
	require.NoError(t, err)
	defer client.Close()

	publisher := pubsub.NewEventPublisher(client, "submission-events")
	defer publisher.Close()

	evt := model.Event{Type: model.EventSubmissionComplete, SessionID: "s-1", Attempt: 2}
	require.NoError(t, publisher.Publish(ctx, evt))
	require.NoError(t, publisher.Publish(ctx, evt), "the topic is created once")

	msgs := srv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "submission-complete", msgs[0].Attributes["type"])
	assert.Equal(t, "s-1", msgs[0].Attributes["session_id"])

	var got model.Event
	require.NoError(t, json.Unmarshal(msgs[0].Data, &got))
	assert.Equal(t, evt, got)
}
