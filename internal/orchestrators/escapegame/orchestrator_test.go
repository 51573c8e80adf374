package escapegame_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gamelearn/escape-api/internal/engine"
	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
	"github.com/gamelearn/escape-api/internal/orchestrators/escapegame"
	"github.com/gamelearn/escape-api/internal/pkg/clock"
	"github.com/gamelearn/escape-api/internal/pkg/idgen"
	escaperoomrepo "github.com/gamelearn/escape-api/internal/repositories/escaperoom"
	sessionrepo "github.com/gamelearn/escape-api/internal/repositories/gamesession"
	"github.com/gamelearn/escape-api/internal/testutils"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []entities.GameEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event entities.GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []entities.GameEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entities.GameEvent(nil), p.events...)
}

type OrchestratorTestSuite struct {
	suite.Suite

	ctx         context.Context
	service     escapegame.Service
	sessionRepo sessionrepo.Repository
	publisher   *recordingPublisher
	cleanup     func()
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()

	redisClient, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	escapeRoomRepo, err := escaperoomrepo.NewRedis(&escaperoomrepo.RedisConfig{Client: redisClient})
	s.Require().NoError(err)
	sessRepo, err := sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: redisClient})
	s.Require().NoError(err)
	s.sessionRepo = sessRepo

	e, err := engine.New(&engine.Config{Clock: clock.New()})
	s.Require().NoError(err)

	s.publisher = &recordingPublisher{}

	service, err := escapegame.NewOrchestrator(&escapegame.Config{
		EscapeRoomRepo: escapeRoomRepo,
		SessionRepo:    sessRepo,
		Engine:         e,
		Publisher:      s.publisher,
		Clock:          clock.New(),
		IDGenerator:    idgen.NewSequential("sess"),
	})
	s.Require().NoError(err)
	s.service = service

	_, err = escapeRoomRepo.Create(s.ctx, escaperoomrepo.CreateInput{
		EscapeRoom: testutils.NewTestEscapeRoom(),
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *OrchestratorTestSuite) startGame(playerID string) *entities.GameSession {
	output, err := s.service.StartGame(s.ctx, &escapegame.StartGameInput{
		PlayerID:     playerID,
		EscapeRoomID: testutils.TestEscapeRoomID,
	})
	s.Require().NoError(err)
	return output.Session
}

func (s *OrchestratorTestSuite) TestStartGame() {
	session := s.startGame("player-1")

	s.NotEmpty(session.ID)
	s.Equal(testutils.TestRoomLab, session.CurrentRoomID)
	s.Equal(int64(1), session.Version)
	s.Equal([]string{testutils.TestRoomLab}, session.State.UnlockedRooms)

	published := s.publisher.published()
	s.Require().Len(published, 1)
	s.Equal(entities.EventGameStarted, published[0].Type)
	s.Equal(session.ID, published[0].SessionID)
	s.False(published[0].Timestamp.IsZero())
}

func (s *OrchestratorTestSuite) TestStartGame_UnknownDefinition() {
	_, err := s.service.StartGame(s.ctx, &escapegame.StartGameInput{
		PlayerID:     "player-1",
		EscapeRoomID: "missing",
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestOwnershipEnforced() {
	session := s.startGame("player-1")

	_, err := s.service.GetSession(s.ctx, &escapegame.GetSessionInput{
		PlayerID:  "player-2",
		SessionID: session.ID,
	})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))

	_, err = s.service.MoveToRoom(s.ctx, &escapegame.MoveToRoomInput{
		PlayerID:  "player-2",
		SessionID: session.ID,
		RoomID:    testutils.TestRoomVault,
	})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))
}

func (s *OrchestratorTestSuite) TestSolvePuzzle_WrongThenRight() {
	session := s.startGame("player-1")

	wrong, err := s.service.SolvePuzzle(s.ctx, &escapegame.SolvePuzzleInput{
		PlayerID:  "player-1",
		SessionID: session.ID,
		PuzzleID:  testutils.TestPuzzleDoorCode,
		Attempt:   entities.Solution{Code: "0000"},
	})
	s.Require().NoError(err)
	s.False(wrong.Success)
	s.Equal(int64(2), wrong.Session.Version, "a wrong attempt still persists its event")

	right, err := s.service.SolvePuzzle(s.ctx, &escapegame.SolvePuzzleInput{
		PlayerID:  "player-1",
		SessionID: session.ID,
		PuzzleID:  testutils.TestPuzzleDoorCode,
		Attempt:   entities.Solution{Code: "1234"},
	})
	s.Require().NoError(err)
	s.True(right.Success)
	s.Equal([]string{testutils.TestRoomVault}, right.UnlockedRooms)
	s.Equal(int64(3), right.Session.Version)

	// Solving again is a no-op that writes nothing.
	again, err := s.service.SolvePuzzle(s.ctx, &escapegame.SolvePuzzleInput{
		PlayerID:  "player-1",
		SessionID: session.ID,
		PuzzleID:  testutils.TestPuzzleDoorCode,
		Attempt:   entities.Solution{Code: "1234"},
	})
	s.Require().NoError(err)
	s.True(again.AlreadySolved)
	s.Equal(int64(3), again.Session.Version)

	eventsOutput, err := s.sessionRepo.ListEvents(s.ctx, sessionrepo.ListEventsInput{
		SessionID: session.ID,
	})
	s.Require().NoError(err)
	types := make([]string, len(eventsOutput.Events))
	for i, event := range eventsOutput.Events {
		types[i] = event.Type
	}
	s.Equal([]string{
		entities.EventGameStarted,
		entities.EventPuzzleAttempt,
		entities.EventPuzzleAttempt,
	}, types)
}

func (s *OrchestratorTestSuite) TestFullPlaythrough() {
	session := s.startGame("player-1")
	playerID := "player-1"

	// Collect the UV light, which reveals the hidden note.
	collect, err := s.service.InteractWithItem(s.ctx, &escapegame.InteractWithItemInput{
		PlayerID:  playerID,
		SessionID: session.ID,
		ItemID:    testutils.TestItemUVLight,
		Action:    escapegame.ActionCollect,
	})
	s.Require().NoError(err)
	s.True(collect.Success)

	note, err := s.service.InteractWithItem(s.ctx, &escapegame.InteractWithItemInput{
		PlayerID:  playerID,
		SessionID: session.ID,
		ItemID:    testutils.TestItemSecretNote,
		Action:    escapegame.ActionCollect,
	})
	s.Require().NoError(err)
	s.True(note.Session.State.HasItem(testutils.TestItemSecretNote))

	// Use the UV light on the door-code puzzle.
	use, err := s.service.InteractWithItem(s.ctx, &escapegame.InteractWithItemInput{
		PlayerID:  playerID,
		SessionID: session.ID,
		ItemID:    testutils.TestItemUVLight,
		Action:    escapegame.ActionUse,
		TargetID:  testutils.TestPuzzleDoorCode,
	})
	s.Require().NoError(err)
	s.True(use.Success)
	s.Equal("puzzle_unlocked", use.Effect)

	// Combine the key halves.
	for _, itemID := range []string{testutils.TestItemKeyHalfA, testutils.TestItemKeyHalfB} {
		_, err := s.service.InteractWithItem(s.ctx, &escapegame.InteractWithItemInput{
			PlayerID:  playerID,
			SessionID: session.ID,
			ItemID:    itemID,
			Action:    escapegame.ActionCollect,
		})
		s.Require().NoError(err)
	}
	combine, err := s.service.InteractWithItem(s.ctx, &escapegame.InteractWithItemInput{
		PlayerID:  playerID,
		SessionID: session.ID,
		ItemID:    testutils.TestItemKeyHalfA,
		Action:    escapegame.ActionCombine,
		TargetID:  testutils.TestItemKeyHalfB,
	})
	s.Require().NoError(err)
	s.True(combine.Success)
	s.Equal(testutils.TestItemMasterKey, combine.ResultItem.ID)

	// A hint, then solve the door code.
	hint, err := s.service.RequestHint(s.ctx, &escapegame.RequestHintInput{
		PlayerID:  playerID,
		SessionID: session.ID,
		PuzzleID:  testutils.TestPuzzleDoorCode,
	})
	s.Require().NoError(err)
	s.Equal(1, hint.HintsUsed)

	solve, err := s.service.SolvePuzzle(s.ctx, &escapegame.SolvePuzzleInput{
		PlayerID:  playerID,
		SessionID: session.ID,
		PuzzleID:  testutils.TestPuzzleDoorCode,
		Attempt:   entities.Solution{Code: "1234"},
	})
	s.Require().NoError(err)
	s.True(solve.Success)

	// Into the vault and out.
	move, err := s.service.MoveToRoom(s.ctx, &escapegame.MoveToRoomInput{
		PlayerID:  playerID,
		SessionID: session.ID,
		RoomID:    testutils.TestRoomVault,
	})
	s.Require().NoError(err)
	s.Equal(testutils.TestRoomVault, move.Session.CurrentRoomID)

	complete, err := s.service.CompleteGame(s.ctx, &escapegame.CompleteGameInput{
		PlayerID:  playerID,
		SessionID: session.ID,
	})
	s.Require().NoError(err)
	s.True(complete.Session.IsCompleted)
	s.NotNil(complete.Session.EndTime)
	s.Equal(1, complete.Session.State.HintsUsed)

	// Full audit trail in order, ending with the completion.
	eventsOutput, err := s.service.ListEvents(s.ctx, &escapegame.ListEventsInput{
		PlayerID:  playerID,
		SessionID: session.ID,
	})
	s.Require().NoError(err)
	s.Equal([]string{
		entities.EventGameStarted,
		entities.EventItemCollected,
		entities.EventItemCollected,
		entities.EventItemUsed,
		entities.EventItemCollected,
		entities.EventItemCollected,
		entities.EventItemsCombined,
		entities.EventHintRequested,
		entities.EventPuzzleAttempt,
		entities.EventRoomChanged,
		entities.EventGameCompleted,
	}, eventTypes(eventsOutput.Events))

	// Everything persisted was also published.
	s.Len(s.publisher.published(), 11)
}

func eventTypes(events []entities.GameEvent) []string {
	types := make([]string, len(events))
	for i, event := range events {
		types[i] = event.Type
	}
	return types
}

func (s *OrchestratorTestSuite) TestCompleteGame_NotInFinalRoom() {
	session := s.startGame("player-1")

	_, err := s.service.CompleteGame(s.ctx, &escapegame.CompleteGameInput{
		PlayerID:  "player-1",
		SessionID: session.ID,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestInteract_UnknownAction() {
	session := s.startGame("player-1")

	_, err := s.service.InteractWithItem(s.ctx, &escapegame.InteractWithItemInput{
		PlayerID:  "player-1",
		SessionID: session.ID,
		ItemID:    testutils.TestItemUVLight,
		Action:    escapegame.ItemAction("throw"),
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestInteract_CombineRequiresTarget() {
	session := s.startGame("player-1")

	_, err := s.service.InteractWithItem(s.ctx, &escapegame.InteractWithItemInput{
		PlayerID:  "player-1",
		SessionID: session.ID,
		ItemID:    testutils.TestItemKeyHalfA,
		Action:    escapegame.ActionCombine,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestListSessions() {
	s.startGame("player-1")
	s.startGame("player-1")
	s.startGame("player-2")

	listOutput, err := s.service.ListSessions(s.ctx, &escapegame.ListSessionsInput{
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Len(listOutput.Sessions, 2)
}

func (s *OrchestratorTestSuite) TestCreateEscapeRoom_Validation() {
	_, err := s.service.CreateEscapeRoom(s.ctx, &escapegame.CreateEscapeRoomInput{
		EscapeRoom: &entities.EscapeRoom{},
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	bad := testutils.NewTestEscapeRoom()
	bad.ID = "room-def-bad"
	bad.Connections[0].ToRoomID = "nowhere"
	_, err = s.service.CreateEscapeRoom(s.ctx, &escapegame.CreateEscapeRoomInput{
		EscapeRoom: bad,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}
