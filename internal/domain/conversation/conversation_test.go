package conversation

import (
	"errors"
	"testing"

	"github.com/docchat/docchat/internal/domain/entities"
)

func TestConversation_StartsEmptyAndIdle(t *testing.T) {
	convo := New()

	if convo.Len() != 0 {
		t.Errorf("expected empty transcript, got %d turns", convo.Len())
	}
	if convo.Busy() {
		t.Error("gate must start released")
	}
}

func TestConversation_AppendPreservesOrder(t *testing.T) {
	convo := New()
	convo.Append(entities.NewUserTurn("first"))
	convo.Append(entities.NewAssistantTurn("second", nil))
	convo.Append(entities.NewUserTurn("third"))

	turns := convo.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, want := range []string{"first", "second", "third"} {
		if turns[i].Content != want {
			t.Errorf("turn %d: expected %q, got %q", i, want, turns[i].Content)
		}
	}
}

func TestConversation_SnapshotIsACopy(t *testing.T) {
	convo := New()
	convo.Append(entities.NewUserTurn("original"))

	snapshot := convo.Turns()
	snapshot[0].Content = "tampered"

	if convo.Turns()[0].Content != "original" {
		t.Error("mutating a snapshot must not reach the stored transcript")
	}
}

func TestConversation_GateRejectsSecondBegin(t *testing.T) {
	convo := New()

	if err := convo.Begin(); err != nil {
		t.Fatalf("first begin failed: %v", err)
	}
	if err := convo.Begin(); !errors.Is(err, ErrActionInFlight) {
		t.Fatalf("expected ErrActionInFlight, got %v", err)
	}

	convo.End()
	if err := convo.Begin(); err != nil {
		t.Fatalf("begin after release failed: %v", err)
	}
}

func TestConversation_GateTogglesOncePerAction(t *testing.T) {
	convo := New()

	for i := 0; i < 5; i++ {
		if err := convo.Begin(); err != nil {
			t.Fatalf("action %d: begin failed: %v", i, err)
		}
		if !convo.Busy() {
			t.Fatalf("action %d: expected busy while held", i)
		}
		convo.End()
		if convo.Busy() {
			t.Fatalf("action %d: gate left held after release", i)
		}
	}
}

func TestConversation_RenderHookFiresPerAppend(t *testing.T) {
	convo := New()
	fired := 0
	convo.SetRenderHook(func() { fired++ })

	convo.Append(entities.NewUserTurn("a"))
	convo.Append(entities.NewAssistantTurn("b", nil))

	if fired != 2 {
		t.Errorf("expected hook to fire twice, got %d", fired)
	}
}
