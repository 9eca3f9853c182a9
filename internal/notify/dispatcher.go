// Package notify fans notifications out to storage off the request path.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/hackmate/backend/internal/metrics"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/sirupsen/logrus"
)

const storeTimeout = 5 * time.Second

// Store persists a single notification.
type Store interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// Dispatcher is a bounded queue of notifications drained by worker goroutines.
// Notify never blocks: when the queue is full the notification is dropped.
type Dispatcher struct {
	store   Store
	queue   chan models.Notification
	workers int
	log     *logrus.Entry

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Call Start to launch the workers.
func NewDispatcher(store Store, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		store:   store,
		queue:   make(chan models.Notification, queueSize),
		workers: workers,
		log:     logrus.WithField("component", "notify"),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	d.log.Infof("Notification dispatcher started with %d workers.", d.workers)
}

// Notify enqueues n. It reports whether n was accepted. Notifications whose
// sender is the recipient are suppressed.
func (d *Dispatcher) Notify(n models.Notification) bool {
	if n.SelfAddressed() {
		metrics.NotificationsTotal.WithLabelValues(string(n.Type), "suppressed").Inc()
		return false
	}
	if !n.Type.Valid() {
		d.log.WithField("type", n.Type).Warn("dropping notification with unknown type")
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.NotificationsTotal.WithLabelValues(string(n.Type), "dropped").Inc()
		return false
	}

	select {
	case d.queue <- n:
		metrics.NotificationsTotal.WithLabelValues(string(n.Type), "enqueued").Inc()
		return true
	default:
		metrics.NotificationsTotal.WithLabelValues(string(n.Type), "dropped").Inc()
		d.log.WithFields(logrus.Fields{
			"type":         n.Type,
			"recipient_id": n.RecipientID,
		}).Warn("notification queue full, dropping notification")
		return false
	}
}

// Close stops accepting notifications and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info("Notification dispatcher drained.")
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := d.store.CreateNotification(ctx, &n); err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(n.Type), "failed").Inc()
		d.log.WithError(err).WithFields(logrus.Fields{
			"type":         n.Type,
			"recipient_id": n.RecipientID,
		}).Error("failed to store notification")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(string(n.Type), "created").Inc()
}
