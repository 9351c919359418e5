package memory

import (
	"errors"
	"testing"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

func stagePtr(s store.Stage) *store.Stage    { return &s }
func intentPtr(i store.Intent) *store.Intent { return &i }

func TestGetOrCreate(t *testing.T) {
	repo := NewSessionRepository(0)

	session := repo.GetOrCreate("user-1")
	if session.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", session.UserID, "user-1")
	}
	if session.Stage != store.StageIntentDetection {
		t.Errorf("Stage = %q, want %q", session.Stage, store.StageIntentDetection)
	}
	if session.Intent != "" {
		t.Errorf("Intent = %q, want empty", session.Intent)
	}
	if len(session.History) != 0 {
		t.Errorf("History has %d entries, want 0", len(session.History))
	}

	// Second call returns the same session, not a fresh one.
	repo.AppendMessage("user-1", store.MessageRoleUser, "hello")
	again := repo.GetOrCreate("user-1")
	if len(again.History) != 1 {
		t.Errorf("History has %d entries after append, want 1", len(again.History))
	}
}

func TestGetOrCreateReturnsCopy(t *testing.T) {
	repo := NewSessionRepository(0)

	session := repo.GetOrCreate("user-1")
	session.Intent = store.IntentFlight
	session.History = append(session.History, store.Message{Role: store.MessageRoleUser, Content: "x"})

	stored := repo.GetOrCreate("user-1")
	if stored.Intent != "" {
		t.Errorf("mutating the returned session leaked into the store: Intent = %q", stored.Intent)
	}
	if len(stored.History) != 0 {
		t.Errorf("mutating the returned session leaked into the store: %d history entries", len(stored.History))
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	repo := NewSessionRepository(0)

	_, err := repo.Update("user-1", store.SessionUpdate{
		Intent: intentPtr(store.IntentFlight),
		Stage:  stagePtr(store.StageSlotExtraction),
		FlightSlots: &store.FlightSlots{
			FromCity: "New York",
			ToCity:   "Los Angeles",
		},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// A patch touching only the slots must leave intent and stage alone.
	updated, err := repo.Update("user-1", store.SessionUpdate{
		FlightSlots: &store.FlightSlots{
			FromCity:       "New York",
			ToCity:         "Los Angeles",
			DepartureDate:  "2025-12-25",
			PassengerCount: 2,
		},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Intent != store.IntentFlight {
		t.Errorf("Intent = %q, want %q", updated.Intent, store.IntentFlight)
	}
	if updated.Stage != store.StageSlotExtraction {
		t.Errorf("Stage = %q, want %q", updated.Stage, store.StageSlotExtraction)
	}
	if updated.FlightSlots == nil || updated.FlightSlots.DepartureDate != "2025-12-25" {
		t.Errorf("FlightSlots = %+v, want departure date merged in", updated.FlightSlots)
	}
	if updated.FlightSlots.PassengerCount != 2 {
		t.Errorf("PassengerCount = %d, want 2", updated.FlightSlots.PassengerCount)
	}
}

func TestUpdateValidationFailureLeavesState(t *testing.T) {
	repo := NewSessionRepository(0)

	if _, err := repo.Update("user-1", store.SessionUpdate{
		Intent:      intentPtr(store.IntentFlight),
		FlightSlots: &store.FlightSlots{FromCity: "Berlin", PassengerCount: 1},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	_, err := repo.Update("user-1", store.SessionUpdate{
		FlightSlots: &store.FlightSlots{FromCity: "Berlin", PassengerCount: -3},
	})
	if err == nil {
		t.Fatal("Update() with negative passenger count succeeded, want *ValidationError")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Update() error = %T, want *ValidationError", err)
	}

	stored := repo.GetOrCreate("user-1")
	if stored.FlightSlots == nil || stored.FlightSlots.PassengerCount != 1 {
		t.Errorf("stored FlightSlots = %+v, want pre-merge state kept", stored.FlightSlots)
	}
}

func TestAppendMessageOrder(t *testing.T) {
	repo := NewSessionRepository(0)

	repo.AppendMessage("user-1", store.MessageRoleUser, "first")
	repo.AppendMessage("user-1", store.MessageRoleAssistant, "second")
	repo.AppendMessage("user-1", store.MessageRoleUser, "third")

	session := repo.GetOrCreate("user-1")
	if len(session.History) != 3 {
		t.Fatalf("History has %d entries, want 3", len(session.History))
	}

	wantContents := []string{"first", "second", "third"}
	wantRoles := []string{store.MessageRoleUser, store.MessageRoleAssistant, store.MessageRoleUser}
	for i, msg := range session.History {
		if msg.Content != wantContents[i] {
			t.Errorf("History[%d].Content = %q, want %q", i, msg.Content, wantContents[i])
		}
		if msg.Role != wantRoles[i] {
			t.Errorf("History[%d].Role = %q, want %q", i, msg.Role, wantRoles[i])
		}
		if msg.Timestamp.IsZero() {
			t.Errorf("History[%d].Timestamp is zero", i)
		}
	}
}

func TestResetKeepsHistory(t *testing.T) {
	repo := NewSessionRepository(0)

	repo.AppendMessage("user-1", store.MessageRoleUser, "book me a flight")
	if _, err := repo.Update("user-1", store.SessionUpdate{
		Intent:      intentPtr(store.IntentFlight),
		Stage:       stagePtr(store.StageSearch),
		FlightSlots: &store.FlightSlots{FromCity: "Oslo", PassengerCount: 1},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	session := repo.Reset("user-1")

	if session.Intent != "" {
		t.Errorf("Intent = %q, want empty after reset", session.Intent)
	}
	if session.FlightSlots != nil || session.HotelSlots != nil || session.CombinedSlots != nil {
		t.Error("slots survived reset")
	}
	if session.Stage != store.StageIntentDetection {
		t.Errorf("Stage = %q, want %q", session.Stage, store.StageIntentDetection)
	}
	if len(session.History) != 1 {
		t.Errorf("History has %d entries, want 1 (reset must not touch history)", len(session.History))
	}
}

func TestClearAndCount(t *testing.T) {
	repo := NewSessionRepository(0)

	repo.GetOrCreate("user-1")
	repo.GetOrCreate("user-2")
	if got := repo.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	repo.Clear("user-1")
	if got := repo.Count(); got != 1 {
		t.Errorf("Count() = %d after Clear, want 1", got)
	}

	fresh := repo.GetOrCreate("user-1")
	if len(fresh.History) != 0 || fresh.Intent != "" {
		t.Errorf("session after Clear is not fresh: %+v", fresh)
	}
}
