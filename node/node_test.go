package node

import "testing"

func TestEventBusDeliversMatchingTopic(t *testing.T) {
	bus := NewEventBus(1)
	sub := bus.Subscribe(TopicBlockImported)
	defer sub.Unsubscribe()

	bus.Publish(TopicBlockImported, 7)
	bus.PublishAsync(TopicPeerConnected, "ignored") // different topic, not delivered

	select {
	case ev := <-sub.Chan():
		if ev.Topic != TopicBlockImported || ev.Payload.(int) != 7 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected a delivered event")
	}
}

func TestEventBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus(0)
	sub := bus.Subscribe(TopicBlockImported)
	sub.Unsubscribe()
	if _, ok := <-sub.Chan(); ok {
		t.Fatal("expected channel to be closed after Unsubscribe")
	}
	if bus.SubscriberCount(TopicBlockImported) != 0 {
		t.Fatal("expected zero subscribers after Unsubscribe")
	}
}

type fakeService struct {
	name      string
	startErr  error
	suspended bool
}

func (f *fakeService) Name() string { return f.name }
func (f *fakeService) Start() error { return f.startErr }
func (f *fakeService) Stop() error  { return nil }
func (f *fakeService) Suspend() error {
	f.suspended = true
	return nil
}
func (f *fakeService) Resume() error {
	f.suspended = false
	return nil
}

func TestLifecycleStartSuspendResumeStop(t *testing.T) {
	lm := NewLifecycle(DefaultConfig())
	a := &fakeService{name: "a"}
	b := &fakeService{name: "b"}
	if err := lm.Register(a, 1); err != nil {
		t.Fatal(err)
	}
	if err := lm.Register(b, 0); err != nil {
		t.Fatal(err)
	}

	if errs := lm.StartAll(); len(errs) != 0 {
		t.Fatalf("unexpected start errors: %v", errs)
	}
	if lm.RunningCount() != 2 {
		t.Fatalf("RunningCount = %d, want 2", lm.RunningCount())
	}

	if errs := lm.SuspendAll(); len(errs) != 0 {
		t.Fatalf("unexpected suspend errors: %v", errs)
	}
	if !a.suspended || !b.suspended {
		t.Fatal("expected both services suspended")
	}
	if lm.GetState("a") != StateSuspended {
		t.Fatalf("GetState(a) = %v, want StateSuspended", lm.GetState("a"))
	}

	if errs := lm.ResumeAll(); len(errs) != 0 {
		t.Fatalf("unexpected resume errors: %v", errs)
	}
	if lm.GetState("a") != StateRunning {
		t.Fatalf("GetState(a) = %v, want StateRunning", lm.GetState("a"))
	}

	if errs := lm.StopAll(); len(errs) != 0 {
		t.Fatalf("unexpected stop errors: %v", errs)
	}
	if lm.GetState("a") != StateStopped {
		t.Fatalf("GetState(a) = %v, want StateStopped", lm.GetState("a"))
	}
}

func TestLifecycleRejectsDuplicateName(t *testing.T) {
	lm := NewLifecycle(DefaultConfig())
	a := &fakeService{name: "a"}
	a2 := &fakeService{name: "a"}
	if err := lm.Register(a, 0); err != nil {
		t.Fatal(err)
	}
	if err := lm.Register(a2, 0); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}
