package emitter

import (
	"context"
	"sync"

	"github.com/walletwatch/xrpl-wallet-events/pkg/common/logger"
)

// Feed is the account-level subscription surface of the ledger client.
type Feed interface {
	SubscribeAccounts(ctx context.Context, accounts []string) error
	UnsubscribeAccounts(ctx context.Context, accounts []string) error
}

// addressSub is the per-address state: one dispatcher and the number of
// registered (kind, callback) pairs sharing the feed subscription. The ref
// count only moves through Registry.On and Handle release.
type addressSub struct {
	dispatcher *dispatcher
	refCount   int
}

// Registry owns the address-to-subscription table. A feed-level subscribe
// is issued only on the 0->1 listener transition for an address, and the
// matching unsubscribe only on 1->0.
//
// Feed requests are optimistic: the local table is updated first and is not
// rolled back when the feed call fails; the error is returned so the caller
// can surface it. Reconnect-time resubscription trues the feed back up.
type Registry struct {
	mu   sync.Mutex
	feed Feed
	subs map[string]*addressSub
	taps []func(address string, evt Event)
}

func NewRegistry(feed Feed) *Registry {
	return &Registry{
		feed: feed,
		subs: make(map[string]*addressSub),
	}
}

// Handle undoes one On registration. Release is idempotent.
type Handle struct {
	registry *Registry
	address  string
	l        *listener
	once     sync.Once
}

// Close releases the registration without a caller context.
func (h *Handle) Close() error {
	return h.Release(context.Background())
}

// Release detaches the callback and drops the address ref, unsubscribing
// the address from the feed when it was the last one.
func (h *Handle) Release(ctx context.Context) error {
	var err error
	h.once.Do(func() {
		err = h.registry.off(ctx, h.address, h.l)
	})
	return err
}

// On registers fn for the given event kind on address. The first listener
// for an address triggers one feed-level subscribe; further listeners only
// bump the ref count. The returned handle is the only way to unregister.
//
// A feed error is returned alongside a valid handle: the registration
// itself has already happened (see the Registry doc on optimism).
func (r *Registry) On(ctx context.Context, address string, kind Kind, fn Handler) (*Handle, error) {
	r.mu.Lock()
	sub, ok := r.subs[address]
	if !ok {
		sub = &addressSub{dispatcher: newDispatcher()}
		r.subs[address] = sub
	}
	sub.refCount++
	first := sub.refCount == 1
	l := sub.dispatcher.add(kind, fn)
	r.mu.Unlock()

	handle := &Handle{registry: r, address: address, l: l}

	if first {
		logger.Debug("subscribing address on feed", "address", address)
		if err := r.feed.SubscribeAccounts(ctx, []string{address}); err != nil {
			return handle, err
		}
	}
	return handle, nil
}

func (r *Registry) off(ctx context.Context, address string, l *listener) error {
	r.mu.Lock()
	sub, ok := r.subs[address]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	sub.dispatcher.remove(l)
	sub.refCount--
	last := sub.refCount <= 0
	if last {
		sub.dispatcher.removeAll()
		delete(r.subs, address)
	}
	r.mu.Unlock()

	if last {
		logger.Debug("unsubscribing address from feed", "address", address)
		return r.feed.UnsubscribeAccounts(ctx, []string{address})
	}
	return nil
}

// Tap registers an observer invoked for every event emitted to any
// subscribed address, after the address's own listeners. Taps cannot be
// removed; they live as long as the registry.
func (r *Registry) Tap(fn func(address string, evt Event)) {
	r.mu.Lock()
	r.taps = append(r.taps, fn)
	r.mu.Unlock()
}

// Has reports whether address currently holds a live subscription.
func (r *Registry) Has(address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[address]
	return ok
}

// emit dispatches evt to address's listeners of that kind, then to taps.
// No-op when the address has no subscription. Handlers run outside the
// registry lock so they may subscribe or release in the callback.
func (r *Registry) emit(address string, evt Event) {
	r.mu.Lock()
	var handlers []Handler
	if sub, ok := r.subs[address]; ok {
		handlers = sub.dispatcher.handlers(evt.Kind())
	} else {
		r.mu.Unlock()
		return
	}
	taps := r.taps
	r.mu.Unlock()

	for _, fn := range handlers {
		fn(evt)
	}
	for _, tap := range taps {
		tap(address, evt)
	}
}

// refs reports the current ref count for address; zero when absent.
func (r *Registry) refs(address string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subs[address]; ok {
		return sub.refCount
	}
	return 0
}
