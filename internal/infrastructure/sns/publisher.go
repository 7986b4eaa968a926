package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/procodeli/portal/internal/config"
	"github.com/procodeli/portal/internal/infrastructure/awsconf"
)

// EventPublisher publishes security events to an SNS topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

// NewPublisher returns an error when no topic is configured so callers can
// fall back gracefully.
func NewPublisher(ctx context.Context, cfg *config.Config) (EventPublisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not set")
	}
	awsCfg, err := awsconf.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &publisher{client: sns.NewFromConfig(awsCfg, clientOpts...), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) PublishEvent(ctx context.Context, eventType string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(b)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
		},
	})
	return err
}
