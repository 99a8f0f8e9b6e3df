package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of *sqs.Client used for publishing.
type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSPublisher struct {
	client SQSAPI
	queue  string

	mu       sync.Mutex
	queueURL *string
}

func NewSQSPublisher(client SQSAPI, queue string) *SQSPublisher {
	return &SQSPublisher{client: client, queue: queue}
}

func (s *SQSPublisher) url(ctx context.Context) (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queueURL != nil {
		return s.queueURL, nil
	}
	out, err := s.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(s.queue),
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving queue URL for %s: %w", s.queue, err)
	}
	s.queueURL = out.QueueUrl
	return s.queueURL, nil
}

func (s *SQSPublisher) Publish(ctx context.Context, e PurchaseEvent) error {
	qurl, err := s.url(ctx)
	if err != nil {
		return err
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    qurl,
		MessageBody: aws.String(string(b)),
	})
	if err != nil {
		return fmt.Errorf("sending message to %s: %w", s.queue, err)
	}
	log.Printf("Message sent to queue: %s\n", aws.ToString(out.MessageId))
	return nil
}
