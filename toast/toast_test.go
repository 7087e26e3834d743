package toast

import "testing"

func TestPublishReachesSubscribers(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	var got []Toast
	unsubscribe := e.Subscribe(func(tst Toast) { got = append(got, tst) })
	defer unsubscribe()

	id := e.Success("saved")
	if id == "" {
		t.Fatal("Publish should return a toast id")
	}
	if len(got) != 1 {
		t.Fatalf("got %d toasts, want 1", len(got))
	}
	if got[0].Message != "saved" || got[0].Type != TypeSuccess || got[0].ID != id {
		t.Errorf("toast = %+v", got[0])
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	count := 0
	unsubscribe := e.Subscribe(func(Toast) { count++ })

	e.Info("one")
	unsubscribe()
	e.Info("two")
	// Unsubscribing twice is harmless.
	unsubscribe()

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	a, b := 0, 0
	e.Subscribe(func(Toast) { a++ })
	e.Subscribe(func(Toast) { b++ })

	e.Error("boom")
	if a != 1 || b != 1 {
		t.Errorf("a=%d b=%d, want both 1", a, b)
	}
}

func TestCloseMakesPublishNoop(t *testing.T) {
	e := NewEmitter()

	count := 0
	e.Subscribe(func(Toast) { count++ })
	e.Close()

	if id := e.Publish("late", TypeInfo); id != "" {
		t.Errorf("Publish after Close returned id %q, want empty", id)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 after Close", count)
	}
	// Subscribing after Close returns a usable no-op unsubscribe.
	e.Subscribe(func(Toast) { count++ })()
}

func TestToastIDsAreUnique(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := e.Info("n")
		if seen[id] {
			t.Fatalf("duplicate toast id %q", id)
		}
		seen[id] = true
	}
}
