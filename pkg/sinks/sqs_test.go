package sinks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSSinkSendSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &sqsSink{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := sink.Send(context.Background(), Event{ID: "lookup-1", Source: "doc.json", Value: 2})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["source"]
	if !ok || aws.ToString(attr.StringValue) != "doc.json" {
		t.Fatalf("source attribute missing or wrong: %#v", attr)
	}
	if aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if _, ok := client.input.MessageAttributes["lookup_id"]; !ok {
		t.Fatalf("lookup_id attribute missing")
	}
	if body := aws.ToString(client.input.MessageBody); !strings.Contains(body, `"source":"doc.json"`) || !strings.Contains(body, `"value":2`) {
		t.Fatalf("MessageBody missing fields: %s", body)
	}
}

func TestSQSSinkSendError(t *testing.T) {
	sink := &sqsSink{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
		log:      noopLogger{},
	}

	if err := sink.Send(context.Background(), Event{Source: "doc.json"}); err == nil {
		t.Fatalf("expected error from Send")
	}
}

func TestNewSQSSinkWithStaticCredentials(t *testing.T) {
	s, err := newSQSSink(context.Background(), SinkConfig{
		ID:   "queue",
		Type: TypeSQS,
		SQS: &SQSSinkConfig{
			QueueURL: "http://localhost:4566/000000000000/lookups",
			AWSConfig: AWSConfig{
				Region:          "us-east-1",
				Endpoint:        "http://localhost:4566",
				AccessKeyID:     "test",
				SecretAccessKey: "test",
			},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSQSSink: %v", err)
	}
	if s.ID() != "queue" || s.Type() != TypeSQS {
		t.Fatalf("unexpected sink identity %s/%s", s.ID(), s.Type())
	}
}
