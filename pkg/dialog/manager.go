package dialog

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/followup"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/search"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/slots"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

const (
	errTurnMessage   = "Sorry, I encountered an error processing your request. Please try again."
	errSearchMessage = "Sorry, I encountered an error while searching. Please try again."
	newSearchAck     = "Sure! Let's start a new search. What would you like to book?"
)

// newSearchTriggers are matched case-insensitively as substrings while
// a session sits in the search stage.
var newSearchTriggers = []string{"new search", "different", "change"}

// Manager is the dialog state machine. It consumes one utterance at a
// time, drives the stage transitions, and delegates language work to
// the classifier/extractor and fulfillment to the search agent.
//
// Turns for the same user are serialized through a per-user mutex so a
// slow extraction cannot be overwritten by the next utterance. Turns
// for different users run independently.
type Manager struct {
	sessions   SessionStore
	classifier IntentClassifier
	extractor  EntityExtractor
	search     SearchAgent
	fallback   FallbackAgent
	logger     *log.Logger

	// Bounds each collaborator call; zero disables the timeout.
	callTimeout time.Duration

	turnLocks sync.Map // userID -> *sync.Mutex
}

func NewManager(
	sessions SessionStore,
	classifier IntentClassifier,
	extractor EntityExtractor,
	searchAgent SearchAgent,
	fallbackAgent FallbackAgent,
	callTimeout time.Duration,
	logger *log.Logger,
) *Manager {
	return &Manager{
		sessions:    sessions,
		classifier:  classifier,
		extractor:   extractor,
		search:      searchAgent,
		fallback:    fallbackAgent,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// ProcessMessage runs one full turn for the given user and returns the
// typed response. It never returns an error: every failure inside the
// turn is converted into a ResponseError with a generic apology.
func (m *Manager) ProcessMessage(ctx context.Context, userID, message string) (resp Response) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// A panicking collaborator must not take the transport down with it;
	// the session keeps whatever state the last successful step stored.
	defer func() {
		if r := recover(); r != nil {
			m.logger.Printf("[ERROR] Turn panicked for user %s: %v", userID, r)
			resp = errorResponse(errTurnMessage)
		}
	}()

	m.sessions.AppendMessage(userID, store.MessageRoleUser, message)
	session := m.sessions.GetOrCreate(userID)

	switch session.Stage {
	case store.StageSlotExtraction:
		return m.handleSlotExtraction(ctx, userID, message, session)
	case store.StageSearch:
		return m.handleSearch(ctx, userID, message, session)
	default:
		// Covers intent_detection, the declared-but-unused complete
		// stage, and anything unexpected.
		return m.handleIntentDetection(ctx, userID, message, session)
	}
}

func (m *Manager) handleIntentDetection(ctx context.Context, userID, message string, session *store.Session) Response {
	cctx, cancel := m.callContext(ctx)
	intent := m.classifier.Classify(cctx, message)
	cancel()

	if intent == store.IntentOther {
		// Stage deliberately stays where it was: unrecognized
		// utterances must not advance or corrupt state.
		return Response{
			Type:    ResponseMessage,
			Content: m.fallback.Handle(message),
		}
	}

	// Switching intent discards the old intent's slots; they never
	// carry over.
	if session.Intent != "" && session.Intent != intent {
		m.sessions.Reset(userID)
	}

	stage := store.StageSlotExtraction
	if _, err := m.sessions.Update(userID, store.SessionUpdate{Intent: &intent, Stage: &stage}); err != nil {
		m.logger.Printf("[ERROR] Failed to store intent for user %s: %v", userID, err)
		return errorResponse(errTurnMessage)
	}

	cctx, cancel = m.callContext(ctx)
	extracted := m.extractor.Extract(cctx, message, intent, store.SlotBundle{})
	cancel()

	updated, err := m.storeSlots(userID, intent, extracted)
	if err != nil {
		m.logger.Printf("[ERROR] Failed to store slots for user %s: %v", userID, err)
		return errorResponse(errTurnMessage)
	}

	return m.evaluate(ctx, userID, updated)
}

func (m *Manager) handleSlotExtraction(ctx context.Context, userID, message string, session *store.Session) Response {
	if session.Intent == "" {
		// Impossible state; self-heal by re-running detection.
		return m.handleIntentDetection(ctx, userID, message, session)
	}

	cctx, cancel := m.callContext(ctx)
	extracted := m.extractor.Extract(cctx, message, session.Intent, session.ActiveSlots())
	cancel()

	updated, err := m.storeSlots(userID, session.Intent, extracted)
	if err != nil {
		m.logger.Printf("[ERROR] Failed to store slots for user %s: %v", userID, err)
		return errorResponse(errTurnMessage)
	}

	return m.evaluate(ctx, userID, updated)
}

func (m *Manager) handleSearch(ctx context.Context, userID, message string, session *store.Session) Response {
	lower := strings.ToLower(message)
	for _, trigger := range newSearchTriggers {
		if strings.Contains(lower, trigger) {
			m.sessions.Reset(userID)
			return Response{
				Type:    ResponseMessage,
				Content: newSearchAck,
			}
		}
	}

	// No trigger: the user is starting an unrelated request while
	// nominally still in the search stage.
	return m.handleIntentDetection(ctx, userID, message, session)
}

// storeSlots merges the extracted bundle into the slot field matching
// the intent. An empty bundle leaves the session untouched.
func (m *Manager) storeSlots(userID string, intent store.Intent, extracted store.SlotBundle) (*store.Session, error) {
	patch := store.SessionUpdate{}
	switch intent {
	case store.IntentFlight:
		patch.FlightSlots = extracted.Flight
	case store.IntentHotel:
		patch.HotelSlots = extracted.Hotel
	case store.IntentBoth:
		patch.CombinedSlots = extracted.Combined
	}
	return m.sessions.Update(userID, patch)
}

// evaluate checks completeness and either runs fulfillment or asks the
// next follow-up question.
func (m *Manager) evaluate(ctx context.Context, userID string, session *store.Session) Response {
	result := slots.Evaluate(session.Intent, session.ActiveSlots())
	if result.Complete {
		return m.proceedToSearch(ctx, userID, session)
	}
	return m.requestMissingSlots(userID, result.Missing)
}

func (m *Manager) requestMissingSlots(userID string, missing []slots.Field) Response {
	stage := store.StageSlotExtraction
	if _, err := m.sessions.Update(userID, store.SessionUpdate{Stage: &stage}); err != nil {
		m.logger.Printf("[ERROR] Failed to store stage for user %s: %v", userID, err)
		return errorResponse(errTurnMessage)
	}

	question := followup.Synthesize(missing)
	m.sessions.AppendMessage(userID, store.MessageRoleAssistant, question)

	return Response{
		Type:             ResponseFollowUp,
		Content:          question,
		RequiresFollowUp: true,
		FollowUpQuestion: question,
	}
}

// proceedToSearch moves the session to the search stage and dispatches
// fulfillment. For Both, flight and hotel searches run concurrently.
// Failures leave the session in the search stage so a retry utterance
// re-enters the search branch.
func (m *Manager) proceedToSearch(ctx context.Context, userID string, session *store.Session) Response {
	stage := store.StageSearch
	if _, err := m.sessions.Update(userID, store.SessionUpdate{Stage: &stage}); err != nil {
		m.logger.Printf("[ERROR] Failed to store stage for user %s: %v", userID, err)
		return errorResponse(errTurnMessage)
	}

	cctx, cancel := m.callContext(ctx)
	defer cancel()

	switch session.Intent {
	case store.IntentFlight:
		if session.FlightSlots == nil {
			return errorResponse(errSearchMessage)
		}
		flights, err := m.search.SearchFlights(cctx, *session.FlightSlots)
		if err != nil {
			m.logger.Printf("[ERROR] Flight search failed for user %s: %v", userID, err)
			return errorResponse(errSearchMessage)
		}
		content := search.FormatFlightResults(flights)
		m.sessions.AppendMessage(userID, store.MessageRoleAssistant, content)
		return Response{Type: ResponseSearchResults, Content: content, Data: flights}

	case store.IntentHotel:
		if session.HotelSlots == nil {
			return errorResponse(errSearchMessage)
		}
		hotels, err := m.search.SearchHotels(cctx, *session.HotelSlots)
		if err != nil {
			m.logger.Printf("[ERROR] Hotel search failed for user %s: %v", userID, err)
			return errorResponse(errSearchMessage)
		}
		content := search.FormatHotelResults(hotels)
		m.sessions.AppendMessage(userID, store.MessageRoleAssistant, content)
		return Response{Type: ResponseSearchResults, Content: content, Data: hotels}

	case store.IntentBoth:
		if session.CombinedSlots == nil {
			return errorResponse(errSearchMessage)
		}
		flightSlots := session.CombinedSlots.FlightPart()
		hotelSlots := session.CombinedSlots.HotelPart()

		var flights []search.FlightResult
		var hotels []search.HotelResult
		g, gctx := errgroup.WithContext(cctx)
		g.Go(func() error {
			var err error
			flights, err = m.search.SearchFlights(gctx, flightSlots)
			return err
		})
		g.Go(func() error {
			var err error
			hotels, err = m.search.SearchHotels(gctx, hotelSlots)
			return err
		})
		if err := g.Wait(); err != nil {
			m.logger.Printf("[ERROR] Combined search failed for user %s: %v", userID, err)
			return errorResponse(errSearchMessage)
		}

		content := search.FormatFlightResults(flights) + "\n---\n\n" + search.FormatHotelResults(hotels)
		m.sessions.AppendMessage(userID, store.MessageRoleAssistant, content)
		return Response{
			Type:    ResponseSearchResults,
			Content: content,
			Data:    search.CombinedResults{Flights: flights, Hotels: hotels},
		}

	default:
		return errorResponse(errSearchMessage)
	}
}

func (m *Manager) userLock(userID string) *sync.Mutex {
	v, _ := m.turnLocks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (m *Manager) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.callTimeout)
}

func errorResponse(content string) Response {
	return Response{
		Type:    ResponseError,
		Content: content,
	}
}
