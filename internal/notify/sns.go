package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/jornageo/registration/internal/models"
)

// DefaultSubject is the SNS subject of published registrations.
const DefaultSubject = "New JornaGEO Registration"

// SNSAPI is the subset of the SNS client the notifiers use.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	Subscribe(ctx context.Context, in *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
}

// SNSPublisher publishes the full record as JSON.
type SNSPublisher struct {
	client   SNSAPI
	topicARN string
	subject  string
}

// NewSNSPublisher creates a publisher for topicARN.
func NewSNSPublisher(client SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN, subject: DefaultSubject}
}

// Notify publishes reg to the topic.
func (p *SNSPublisher) Notify(ctx context.Context, reg *models.Registration) error {
	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String(p.subject),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// SNSSubscriber treats the topic as an announcement list and subscribes the registrant.
// SNS sends the registrant a confirmation email before delivery starts.
type SNSSubscriber struct {
	client   SNSAPI
	topicARN string
}

// NewSNSSubscriber creates a subscriber for topicARN.
func NewSNSSubscriber(client SNSAPI, topicARN string) *SNSSubscriber {
	return &SNSSubscriber{client: client, topicARN: topicARN}
}

// Notify subscribes reg.Email with the email protocol.
func (s *SNSSubscriber) Notify(ctx context.Context, reg *models.Registration) error {
	_, err := s.client.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(s.topicARN),
		Protocol: aws.String("email"),
		Endpoint: aws.String(reg.Email),
	})
	if err != nil {
		return fmt.Errorf("sns subscribe: %w", err)
	}
	return nil
}
