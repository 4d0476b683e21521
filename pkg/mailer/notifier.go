package mailer

import (
	"context"
	"sync"
)

// Notifier is the fire-and-forget delivery collaborator consumed by the
// account service. Failures are logged by callers, never surfaced to the
// user-facing operation.
type Notifier interface {
	Notify(ctx context.Context, job EmailJob) error
}

// Publisher is the queue half of async delivery; helpers.RabbitPublisher
// satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier enqueues jobs on RabbitMQ for the email worker to deliver.
type QueueNotifier struct {
	pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (n *QueueNotifier) Notify(ctx context.Context, job EmailJob) error {
	return n.pub.PublishJSON(ctx, job)
}

// NopNotifier drops every job. Used when mail sending is disabled.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, EmailJob) error { return nil }

// RecorderNotifier captures jobs for assertions in tests.
type RecorderNotifier struct {
	mu   sync.Mutex
	Jobs []EmailJob
	Err  error
}

func (n *RecorderNotifier) Notify(_ context.Context, job EmailJob) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Jobs = append(n.Jobs, job)
	return nil
}

var (
	_ Notifier = (*QueueNotifier)(nil)
	_ Notifier = NopNotifier{}
	_ Notifier = (*RecorderNotifier)(nil)
)
