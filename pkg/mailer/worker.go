package mailer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	mailtpl "github.com/anycompany/carmarket/pkg/mailer/templates"
)

// Deliverer sends a fully rendered message.
type Deliverer interface {
	Deliver(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

// Worker renders queued jobs and hands them to a Deliverer.
type Worker struct {
	Deliverer Deliverer
	Logger    *logrus.Logger
	Timeout   time.Duration
}

// Handle processes one message body. Malformed jobs are dropped, delivery failures retried.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil || job.To == "" {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	subject, text, html, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Error("render failed")
		return Drop
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Deliverer.Deliver(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("send failed")
		return Retry
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}

// Run consumes deliveries until the channel closes or ctx is done.
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			switch w.Handle(ctx, msg.Body) {
			case Ack:
				_ = msg.Ack(false)
			case Drop:
				_ = msg.Nack(false, false)
			case Retry:
				_ = msg.Nack(false, true)
			}
		}
	}
}
