// Package notifier turns feedback events into notification mail for the
// institutional inbox.
package notifier

import (
	"context"

	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gamisaur/gccan/pkg/mailer"
	"github.com/gamisaur/gccan/pkg/tasks"
)

// Notifier consumes feedback-submitted events from the Kafka topic and mails
// a notice for each one. It satisfies kafka.TaskProcessor.
type Notifier struct {
	mail mailer.Mailer
}

// New creates a Notifier.
func New(mail mailer.Mailer) *Notifier {
	return &Notifier{mail: mail}
}

// Process handles one feedback event.
func (n *Notifier) Process(ctx context.Context, task tasks.FeedbackSubmittedTask) error {
	log.Infof("notifying about feedback %s from %s", task.FeedbackID, task.Email)
	if err := n.mail.SendFeedbackNotice(task.Email, task.Message); err != nil {
		return err
	}
	return nil
}
