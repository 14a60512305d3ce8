package lib

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

var (
	sqsClient *sqs.Client
	sqsMu     sync.Mutex
)

// AWSGetSQSClient builds the client from the default credential chain
// (environment, shared config, instance role).
func AWSGetSQSClient(ctx context.Context) (*sqs.Client, error) {
	sqsMu.Lock()
	defer sqsMu.Unlock()
	if sqsClient != nil {
		return sqsClient, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	sqsClient = sqs.NewFromConfig(cfg)
	return sqsClient, nil
}

func SQSProduceMessage(ctx context.Context, queue string, body string) error {
	client, err := AWSGetSQSClient(ctx)
	if err != nil {
		return err
	}
	qurl, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queue),
	})
	if err != nil {
		return fmt.Errorf("queue url for %s: %w", queue, err)
	}
	_, err = client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    qurl.QueueUrl,
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("send to %s: %w", queue, err)
	}
	return nil
}
