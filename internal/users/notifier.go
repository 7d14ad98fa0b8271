package users

import "sync"

// Notifier fans out user record changes to live subscribers, keyed by token
// identifier. It backs the server-push profile subscription: a subscriber
// receives the record after every successful write until it cancels.
//
// Delivery is latest-wins: each subscription buffers a single pending update,
// and a newer record displaces an undelivered older one. Slow consumers
// therefore skip intermediate states but always converge on the last write.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan User
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[int]chan User)}
}

// Subscribe registers interest in changes to the record with the given token
// identifier. The returned cancel function must be called to release the
// subscription; after cancel the channel is closed.
func (n *Notifier) Subscribe(tokenIdentifier string) (<-chan User, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan User, 1)
	id := n.nextID
	n.nextID++

	if n.subs[tokenIdentifier] == nil {
		n.subs[tokenIdentifier] = make(map[int]chan User)
	}
	n.subs[tokenIdentifier][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if set, ok := n.subs[tokenIdentifier]; ok {
			if c, ok := set[id]; ok {
				delete(set, id)
				close(c)
			}
			if len(set) == 0 {
				delete(n.subs, tokenIdentifier)
			}
		}
	}

	return ch, cancel
}

// Publish delivers the record to all subscribers of its token identifier.
// Never blocks.
func (n *Notifier) Publish(user User) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[user.TokenIdentifier] {
		select {
		case ch <- user:
		default:
			// Displace the stale pending update.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- user:
			default:
			}
		}
	}
}
