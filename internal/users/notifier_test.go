package users

import "testing"

func TestNotifierDeliversToSubscribers(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe("u1")
	defer cancel()

	n.Publish(User{TokenIdentifier: "u1", Name: "Alice"})

	select {
	case got := <-ch:
		if got.Name != "Alice" {
			t.Fatalf("expected Alice, got %q", got.Name)
		}
	default:
		t.Fatal("expected a buffered update")
	}
}

func TestNotifierLatestWins(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe("u1")
	defer cancel()

	n.Publish(User{TokenIdentifier: "u1", Name: "first"})
	n.Publish(User{TokenIdentifier: "u1", Name: "second"})
	n.Publish(User{TokenIdentifier: "u1", Name: "third"})

	got := <-ch
	if got.Name != "third" {
		t.Fatalf("expected the latest update, got %q", got.Name)
	}
}

func TestNotifierIgnoresOtherTokens(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe("u1")
	defer cancel()

	n.Publish(User{TokenIdentifier: "u2"})

	select {
	case <-ch:
		t.Fatal("expected no delivery for a different token")
	default:
	}
}

func TestNotifierCancelClosesChannel(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe("u1")
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel closed after cancel")
	}

	// Publishing after cancel must not panic.
	n.Publish(User{TokenIdentifier: "u1"})
}
