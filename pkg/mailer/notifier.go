package mailer

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Notifier queues transactional emails. Delivery happens out of process.
type Notifier interface {
	Send(ctx context.Context, to, template string, data map[string]any) error
}

type jsonPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier publishes EmailJob messages for the email worker.
type QueueNotifier struct {
	pub jsonPublisher
}

func NewQueueNotifier(pub jsonPublisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (n *QueueNotifier) Send(ctx context.Context, to, template string, data map[string]any) error {
	if to == "" || template == "" {
		return errors.New("mailer: recipient and template are required")
	}
	return n.pub.PublishJSON(ctx, EmailJob{To: to, Template: template, Data: data})
}

// LogNotifier only logs; used when the queue is not configured or sending is disabled.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Send(_ context.Context, to, template string, _ map[string]any) error {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"to": to, "template": template}).Debug("email skipped: mail sending disabled")
	}
	return nil
}
