// Package escapegame implements the orchestrator for escape room
// authoring and play. It validates requests, loads reference data and
// session state, runs the engine, and persists each transition as a
// single atomic write before fanning events out.
package escapegame

//go:generate mockgen -destination=mock/mock_service.go -package=escapegamemock github.com/gamelearn/escape-api/internal/orchestrators/escapegame Service

import (
	"context"
	"log/slog"

	"github.com/gamelearn/escape-api/internal/engine"
	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
	"github.com/gamelearn/escape-api/internal/messaging"
	"github.com/gamelearn/escape-api/internal/pkg/clock"
	"github.com/gamelearn/escape-api/internal/pkg/idgen"
	escaperoomrepo "github.com/gamelearn/escape-api/internal/repositories/escaperoom"
	sessionrepo "github.com/gamelearn/escape-api/internal/repositories/gamesession"
)

// Service defines the interface for escape game operations
type Service interface {
	// Definition authoring
	CreateEscapeRoom(ctx context.Context, input *CreateEscapeRoomInput) (*CreateEscapeRoomOutput, error)
	GetEscapeRoom(ctx context.Context, input *GetEscapeRoomInput) (*GetEscapeRoomOutput, error)
	ListEscapeRooms(ctx context.Context, input *ListEscapeRoomsInput) (*ListEscapeRoomsOutput, error)

	// Session lifecycle and play
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)
	MoveToRoom(ctx context.Context, input *MoveToRoomInput) (*MoveToRoomOutput, error)
	SolvePuzzle(ctx context.Context, input *SolvePuzzleInput) (*SolvePuzzleOutput, error)
	InteractWithItem(ctx context.Context, input *InteractWithItemInput) (*InteractWithItemOutput, error)
	RequestHint(ctx context.Context, input *RequestHintInput) (*RequestHintOutput, error)
	CompleteGame(ctx context.Context, input *CompleteGameInput) (*CompleteGameOutput, error)
	ListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error)
}

// Config holds the dependencies for the orchestrator
type Config struct {
	EscapeRoomRepo escaperoomrepo.Repository
	SessionRepo    sessionrepo.Repository
	Engine         engine.Engine
	Publisher      messaging.Publisher // optional, defaults to noop
	Clock          clock.Clock         // optional, defaults to real clock
	IDGenerator    idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EscapeRoomRepo == nil {
		vb.RequiredField("EscapeRoomRepo")
	}
	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	escapeRoomRepo escaperoomrepo.Repository
	sessionRepo    sessionrepo.Repository
	engine         engine.Engine
	publisher      messaging.Publisher
	clock          clock.Clock
	idGen          idgen.Generator
}

// NewOrchestrator creates a new escape game orchestrator with the
// provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = messaging.NewNoopPublisher()
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		escapeRoomRepo: cfg.EscapeRoomRepo,
		sessionRepo:    cfg.SessionRepo,
		engine:         cfg.Engine,
		publisher:      publisher,
		clock:          c,
		idGen:          cfg.IDGenerator,
	}, nil
}

// Ensure orchestrator implements Service
var _ Service = (*orchestrator)(nil)

func (o *orchestrator) CreateEscapeRoom(
	ctx context.Context,
	input *CreateEscapeRoomInput,
) (*CreateEscapeRoomOutput, error) {
	if input.EscapeRoom == nil {
		return nil, errors.InvalidArgument("escape room is required")
	}
	def := input.EscapeRoom
	if def.Title == "" {
		return nil, errors.InvalidArgument("title is required")
	}

	if def.ID == "" {
		def.ID = o.idGen.Generate()
	}
	def.CreatedAt = o.clock.Now()

	if err := validateDefinition(def); err != nil {
		return nil, err
	}

	createOutput, err := o.escapeRoomRepo.Create(ctx, escaperoomrepo.CreateInput{EscapeRoom: def})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create escape room")
	}

	slog.InfoContext(ctx, "escape room created",
		"escape_room_id", def.ID,
		"title", def.Title,
		"rooms", len(def.Rooms),
	)

	return &CreateEscapeRoomOutput{EscapeRoom: createOutput.EscapeRoom}, nil
}

// validateDefinition checks cross-references inside a definition:
// connections must join known rooms and item placements must name
// catalog items. It does not enforce exactly one starting room.
func validateDefinition(def *entities.EscapeRoom) error {
	vb := errors.NewValidationBuilder()

	for i, conn := range def.Connections {
		if def.Room(conn.FromRoomID) == nil {
			vb.Fieldf("connections", "connection %d references unknown from_room %s", i, conn.FromRoomID)
		}
		if def.Room(conn.ToRoomID) == nil {
			vb.Fieldf("connections", "connection %d references unknown to_room %s", i, conn.ToRoomID)
		}
	}
	for ri := range def.Rooms {
		for _, loc := range def.Rooms[ri].Items {
			if def.Item(loc.ItemID) == nil {
				vb.Fieldf("rooms", "room %s places unknown item %s", def.Rooms[ri].ID, loc.ItemID)
			}
		}
	}

	return vb.Build()
}

func (o *orchestrator) GetEscapeRoom(
	ctx context.Context,
	input *GetEscapeRoomInput,
) (*GetEscapeRoomOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("escape room ID is required")
	}

	getOutput, err := o.escapeRoomRepo.Get(ctx, escaperoomrepo.GetInput{ID: input.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get escape room")
	}

	return &GetEscapeRoomOutput{EscapeRoom: getOutput.EscapeRoom}, nil
}

func (o *orchestrator) ListEscapeRooms(
	ctx context.Context,
	_ *ListEscapeRoomsInput,
) (*ListEscapeRoomsOutput, error) {
	listOutput, err := o.escapeRoomRepo.ListPublished(ctx, escaperoomrepo.ListPublishedInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list escape rooms")
	}

	return &ListEscapeRoomsOutput{EscapeRooms: listOutput.EscapeRooms}, nil
}

func (o *orchestrator) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}
	if input.EscapeRoomID == "" {
		return nil, errors.InvalidArgument("escape room ID is required")
	}

	defOutput, err := o.escapeRoomRepo.Get(ctx, escaperoomrepo.GetInput{ID: input.EscapeRoomID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get escape room")
	}

	startOutput, err := o.engine.StartSession(&engine.StartSessionInput{
		Definition: defOutput.EscapeRoom,
	})
	if err != nil {
		return nil, err
	}

	session := &entities.GameSession{
		ID:            o.idGen.Generate(),
		PlayerID:      input.PlayerID,
		EscapeRoomID:  input.EscapeRoomID,
		CurrentRoomID: startOutput.CurrentRoomID,
		StartTime:     o.clock.Now(),
		State:         startOutput.State,
	}

	events := o.stampEvents(session.ID, startOutput.Events)
	createOutput, err := o.sessionRepo.Create(ctx, sessionrepo.CreateInput{
		Session: session,
		Events:  events,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}
	o.publishEvents(ctx, events)

	slog.InfoContext(ctx, "game session started",
		"session_id", session.ID,
		"player_id", input.PlayerID,
		"escape_room_id", input.EscapeRoomID,
		"starting_room_id", session.CurrentRoomID,
	)

	return &StartGameOutput{Session: createOutput.Session}, nil
}

func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	session, err := o.getOwnedSession(ctx, input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{Session: session}, nil
}

func (o *orchestrator) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	listOutput, err := o.sessionRepo.ListByPlayerID(ctx, sessionrepo.ListByPlayerIDInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	return &ListSessionsOutput{Sessions: listOutput.Sessions}, nil
}

func (o *orchestrator) MoveToRoom(ctx context.Context, input *MoveToRoomInput) (*MoveToRoomOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	session, def, err := o.loadOwnedSession(ctx, input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}
	expectedVersion := session.Version

	moveOutput, err := o.engine.MoveToRoom(&engine.MoveToRoomInput{
		Definition: def,
		Session:    session,
		RoomID:     input.RoomID,
	})
	if err != nil {
		return nil, err
	}

	session, err = o.persist(ctx, session, expectedVersion, moveOutput.Events)
	if err != nil {
		return nil, err
	}

	return &MoveToRoomOutput{Session: session}, nil
}

func (o *orchestrator) SolvePuzzle(ctx context.Context, input *SolvePuzzleInput) (*SolvePuzzleOutput, error) {
	if input.PuzzleID == "" {
		return nil, errors.InvalidArgument("puzzle ID is required")
	}

	session, def, err := o.loadOwnedSession(ctx, input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}
	expectedVersion := session.Version

	attemptOutput, err := o.engine.AttemptPuzzle(&engine.AttemptPuzzleInput{
		Definition: def,
		Session:    session,
		PuzzleID:   input.PuzzleID,
		Attempt:    input.Attempt,
	})
	if err != nil {
		return nil, err
	}

	// An already-solved puzzle leaves the session untouched; the
	// attempt event for everything else still needs to be persisted
	// even when the solution was wrong.
	if !attemptOutput.AlreadySolved {
		session, err = o.persist(ctx, session, expectedVersion, attemptOutput.Events)
		if err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "puzzle attempt",
		"session_id", session.ID,
		"puzzle_id", input.PuzzleID,
		"success", attemptOutput.Success,
		"already_solved", attemptOutput.AlreadySolved,
	)

	return &SolvePuzzleOutput{
		Success:       attemptOutput.Success,
		AlreadySolved: attemptOutput.AlreadySolved,
		Message:       attemptOutput.Message,
		UnlockedRooms: attemptOutput.UnlockedRooms,
		Session:       session,
	}, nil
}

func (o *orchestrator) InteractWithItem(
	ctx context.Context,
	input *InteractWithItemInput,
) (*InteractWithItemOutput, error) {
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}

	session, def, err := o.loadOwnedSession(ctx, input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}
	expectedVersion := session.Version

	switch input.Action {
	case ActionCollect:
		collectOutput, err := o.engine.CollectItem(&engine.CollectItemInput{
			Definition: def,
			Session:    session,
			ItemID:     input.ItemID,
		})
		if err != nil {
			return nil, err
		}
		session, err = o.persist(ctx, session, expectedVersion, collectOutput.Events)
		if err != nil {
			return nil, err
		}
		return &InteractWithItemOutput{
			Success: true,
			Message: collectOutput.Message,
			Item:    collectOutput.Item,
			Session: session,
		}, nil

	case ActionUse:
		useOutput, err := o.engine.UseItem(&engine.UseItemInput{
			Definition: def,
			Session:    session,
			ItemID:     input.ItemID,
			TargetID:   input.TargetID,
		})
		if err != nil {
			return nil, err
		}
		if len(useOutput.Events) > 0 {
			session, err = o.persist(ctx, session, expectedVersion, useOutput.Events)
			if err != nil {
				return nil, err
			}
		}
		return &InteractWithItemOutput{
			Success: useOutput.Success,
			Message: useOutput.Message,
			Effect:  useOutput.Effect,
			Item:    useOutput.Item,
			Session: session,
		}, nil

	case ActionCombine:
		if input.TargetID == "" {
			return nil, errors.InvalidArgument("target ID is required for combine")
		}
		combineOutput, err := o.engine.CombineItems(&engine.CombineItemsInput{
			Definition: def,
			Session:    session,
			ItemID:     input.ItemID,
			TargetID:   input.TargetID,
		})
		if err != nil {
			return nil, err
		}
		if combineOutput.Combined {
			session, err = o.persist(ctx, session, expectedVersion, combineOutput.Events)
			if err != nil {
				return nil, err
			}
		}
		return &InteractWithItemOutput{
			Success:    combineOutput.Combined,
			Message:    combineOutput.Message,
			ResultItem: combineOutput.ResultItem,
			Session:    session,
		}, nil

	default:
		return nil, errors.InvalidArgumentf(
			"invalid action %q, supported actions: collect, use, combine", input.Action)
	}
}

func (o *orchestrator) RequestHint(ctx context.Context, input *RequestHintInput) (*RequestHintOutput, error) {
	if input.PuzzleID == "" {
		return nil, errors.InvalidArgument("puzzle ID is required")
	}

	session, def, err := o.loadOwnedSession(ctx, input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}
	expectedVersion := session.Version

	hintOutput, err := o.engine.RequestHint(&engine.RequestHintInput{
		Definition: def,
		Session:    session,
		PuzzleID:   input.PuzzleID,
	})
	if err != nil {
		return nil, err
	}

	session, err = o.persist(ctx, session, expectedVersion, hintOutput.Events)
	if err != nil {
		return nil, err
	}

	return &RequestHintOutput{
		Hint:      hintOutput.Hint,
		HintsUsed: hintOutput.HintsUsed,
		Session:   session,
	}, nil
}

func (o *orchestrator) CompleteGame(ctx context.Context, input *CompleteGameInput) (*CompleteGameOutput, error) {
	session, def, err := o.loadOwnedSession(ctx, input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}
	expectedVersion := session.Version

	completeOutput, err := o.engine.CompleteSession(&engine.CompleteSessionInput{
		Definition: def,
		Session:    session,
	})
	if err != nil {
		return nil, err
	}

	session, err = o.persist(ctx, session, expectedVersion, completeOutput.Events)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "game session completed",
		"session_id", session.ID,
		"time_spent_seconds", session.TimeSpentSeconds,
		"hints_used", session.State.HintsUsed,
	)

	return &CompleteGameOutput{Session: session}, nil
}

func (o *orchestrator) ListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	if _, err := o.getOwnedSession(ctx, input.SessionID, input.PlayerID); err != nil {
		return nil, err
	}

	listOutput, err := o.sessionRepo.ListEvents(ctx, sessionrepo.ListEventsInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}

	return &ListEventsOutput{Events: listOutput.Events}, nil
}

// getOwnedSession loads a session and enforces caller ownership.
func (o *orchestrator) getOwnedSession(
	ctx context.Context,
	sessionID, playerID string,
) (*entities.GameSession, error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if playerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	getOutput, err := o.sessionRepo.Get(ctx, sessionrepo.GetInput{ID: sessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get session")
	}
	if getOutput.Session.PlayerID != playerID {
		return nil, errors.PermissionDeniedf("session %s does not belong to caller", sessionID)
	}

	return getOutput.Session, nil
}

// loadOwnedSession loads a session plus the definition it plays.
func (o *orchestrator) loadOwnedSession(
	ctx context.Context,
	sessionID, playerID string,
) (*entities.GameSession, *entities.EscapeRoom, error) {
	session, err := o.getOwnedSession(ctx, sessionID, playerID)
	if err != nil {
		return nil, nil, err
	}

	defOutput, err := o.escapeRoomRepo.Get(ctx, escaperoomrepo.GetInput{ID: session.EscapeRoomID})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get escape room for session")
	}

	return session, defOutput.EscapeRoom, nil
}

// persist writes the mutated session and its new events as one atomic
// unit, then fans the events out. Publishing is best-effort.
func (o *orchestrator) persist(
	ctx context.Context,
	session *entities.GameSession,
	expectedVersion int64,
	events []entities.GameEvent,
) (*entities.GameSession, error) {
	stamped := o.stampEvents(session.ID, events)

	updateOutput, err := o.sessionRepo.Update(ctx, sessionrepo.UpdateInput{
		Session:         session,
		ExpectedVersion: expectedVersion,
		Events:          stamped,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update session")
	}

	o.publishEvents(ctx, stamped)
	return updateOutput.Session, nil
}

// stampEvents fills in the session ID and timestamp the engine leaves
// blank.
func (o *orchestrator) stampEvents(sessionID string, events []entities.GameEvent) []entities.GameEvent {
	now := o.clock.Now()
	stamped := make([]entities.GameEvent, len(events))
	for i, event := range events {
		event.SessionID = sessionID
		event.Timestamp = now
		stamped[i] = event
	}
	return stamped
}

func (o *orchestrator) publishEvents(ctx context.Context, events []entities.GameEvent) {
	for _, event := range events {
		if err := o.publisher.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish game event",
				"session_id", event.SessionID,
				"event_type", event.Type,
				"error", err.Error(),
			)
		}
	}
}
