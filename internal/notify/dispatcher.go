package notify

import (
	"log"
	"sync"

	"github.com/su413/storefront-golang/internal/models"
)

// Channel is one independent outbound notification path. A channel's
// failure never affects the other channels or the caller.
type Channel interface {
	Name() string
	Send(order *models.Order) error
}

// Dispatcher fans a placed order out to every channel on a pool of
// background workers, decoupled from the request/response cycle.
type Dispatcher struct {
	channels []Channel
	jobs     chan *models.Order
	wg       sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher builds a dispatcher over the given channels. The queue
// is buffered so Dispatch never blocks a checkout response.
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		jobs:     make(chan *models.Order, 64),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	log.Printf("Notification dispatcher started with %d worker(s)", workers)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for order := range d.jobs {
		for _, ch := range d.channels {
			if err := ch.Send(order); err != nil {
				// Absorbed: a committed order is never undone or failed
				// by a notification problem.
				log.Printf("notification via %s failed for order %s: %v", ch.Name(), order.OrderNumber, err)
			}
		}
	}
}

// Dispatch enqueues an order for notification. It never blocks; if the
// queue is full, or the dispatcher has already been stopped, the
// notification is dropped with a log line.
func (d *Dispatcher) Dispatch(order *models.Order) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		log.Printf("dispatcher stopped, dropping notifications for order %s", order.OrderNumber)
		return
	}
	select {
	case d.jobs <- order:
	default:
		log.Printf("notification queue full, dropping notifications for order %s", order.OrderNumber)
	}
}

// Stop drains the queue and waits for in-flight sends to finish. Orders
// dispatched after Stop are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	close(d.jobs)
	d.wg.Wait()
}
