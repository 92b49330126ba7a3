package sinks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestPubSubSinkPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "lookups"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	sink, err := newPubSubSink(ctx, SinkConfig{
		ID:     "ps",
		Type:   TypePubSub,
		PubSub: &PubSubSinkConfig{ProjectID: "test-project", Topic: "lookups"},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubSink: %v", err)
	}
	defer sink.(*pubsubSink).Close()

	evt, err := NewEvent("doc.json", []string{"a", "b"}, 2)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if err := sink.Send(ctx, evt); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message on the emulator, got %d", len(msgs))
	}
	if msgs[0].Attributes["source"] != "doc.json" || msgs[0].Attributes["lookup_id"] != evt.ID {
		t.Fatalf("unexpected attributes %#v", msgs[0].Attributes)
	}
	var got Event
	if err := json.Unmarshal(msgs[0].Data, &got); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got.ID != evt.ID || got.Value != 2.0 {
		t.Fatalf("unexpected payload %#v", got)
	}
}
