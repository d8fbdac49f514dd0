package routing

import (
	"sync"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// Notifier fans out "config changed" signals to downstream views. Rendering
// and cache invalidation react to the signal; the applier itself never
// reaches into dependent state.
type Notifier struct {
	mu          sync.RWMutex
	subscribers []func(models.RoutingConfig)
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a callback invoked after every successful apply.
// Callbacks receive their own copy of the committed config.
func (n *Notifier) Subscribe(fn func(models.RoutingConfig)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// Notify invokes all subscribers with a copy of cfg.
func (n *Notifier) Notify(cfg models.RoutingConfig) {
	n.mu.RLock()
	subs := make([]func(models.RoutingConfig), len(n.subscribers))
	copy(subs, n.subscribers)
	n.mu.RUnlock()

	for _, fn := range subs {
		fn(cfg.Clone())
	}
}
