// Package notify delivers manager alerts for reorder requests.
package notify

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"pharmacy-inventory/internal/common/config"
	"pharmacy-inventory/internal/common/errors"
	"pharmacy-inventory/internal/common/logger"
)

// SNSPublisher is the subset of the SNS client the notifier needs.
type SNSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// SESSender is the subset of the SES client the notifier needs.
type SESSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// ManagerNotifier fans a reorder alert out to the configured channels.
// Delivery failures are logged and returned, never escalated to the caller's
// user-facing response.
type ManagerNotifier struct {
	cfg    config.NotificationConfig
	snsAPI SNSPublisher
	sesAPI SESSender
	logger logger.Logger
}

func NewManagerNotifier(cfg config.NotificationConfig, snsAPI SNSPublisher, sesAPI SESSender, log logger.Logger) *ManagerNotifier {
	return &ManagerNotifier{
		cfg:    cfg,
		snsAPI: snsAPI,
		sesAPI: sesAPI,
		logger: log.WithFields(map[string]interface{}{"component": "manager-notifier"}),
	}
}

// NotifyReorder publishes the reorder alert to SNS and/or SES depending on
// configuration. Returns the first delivery error encountered.
func (n *ManagerNotifier) NotifyReorder(ctx context.Context, requestID, medicine string, stock int) error {
	if !n.cfg.Enabled {
		return nil
	}

	subject := fmt.Sprintf("Reorder request %s", requestID)
	body := fmt.Sprintf("Reorder request %s for %s | Stock: %d units", requestID, medicine, stock)

	var firstErr error

	if n.cfg.SNSTopicARN != "" && n.snsAPI != nil {
		_, err := n.snsAPI.Publish(ctx, &sns.PublishInput{
			TopicArn: awssdk.String(n.cfg.SNSTopicARN),
			Subject:  awssdk.String(subject),
			Message:  awssdk.String(body),
		})
		if err != nil {
			firstErr = errors.NewNotificationFailedError("sns", err)
			n.logger.Error("sns publish failed", map[string]interface{}{
				"requestId": requestID,
				"error":     err.Error(),
			})
		}
	}

	if n.cfg.EmailTo != "" && n.sesAPI != nil {
		_, err := n.sesAPI.SendEmail(ctx, &ses.SendEmailInput{
			Source: awssdk.String(n.cfg.EmailFrom),
			Destination: &sestypes.Destination{
				ToAddresses: []string{n.cfg.EmailTo},
			},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: awssdk.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: awssdk.String(body)},
				},
			},
		})
		if err != nil {
			if firstErr == nil {
				firstErr = errors.NewNotificationFailedError("ses", err)
			}
			n.logger.Error("ses send failed", map[string]interface{}{
				"requestId": requestID,
				"error":     err.Error(),
			})
		}
	}

	if firstErr == nil {
		n.logger.Info("manager notified", map[string]interface{}{
			"requestId": requestID,
			"medicine":  medicine,
			"stock":     stock,
		})
	}
	return firstErr
}
