package gamesession_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
	redisclient "github.com/gamelearn/escape-api/internal/redis"
	"github.com/gamelearn/escape-api/internal/repositories/gamesession"
	"github.com/gamelearn/escape-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite

	ctx     context.Context
	client  redisclient.Client
	repo    gamesession.Repository
	cleanup func()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.client = client
	s.cleanup = cleanup

	repo, err := gamesession.NewRedis(&gamesession.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *RedisRepositoryTestSuite) startEvent(sessionID string) entities.GameEvent {
	return entities.GameEvent{
		SessionID: sessionID,
		Type:      entities.EventGameStarted,
		Data:      map[string]interface{}{"room_id": testutils.TestRoomLab},
		Timestamp: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	session := testutils.NewTestSession("sess-1", "player-1")

	createOutput, err := s.repo.Create(s.ctx, gamesession.CreateInput{
		Session: session,
		Events:  []entities.GameEvent{s.startEvent("sess-1")},
	})
	s.Require().NoError(err)
	s.Equal(int64(1), createOutput.Session.Version)

	getOutput, err := s.repo.Get(s.ctx, gamesession.GetInput{ID: "sess-1"})
	s.Require().NoError(err)
	s.Equal("player-1", getOutput.Session.PlayerID)
	s.Equal(testutils.TestRoomLab, getOutput.Session.CurrentRoomID)
	s.Equal(int64(1), getOutput.Session.Version)
	s.Equal([]string{testutils.TestRoomLab}, getOutput.Session.State.UnlockedRooms)

	eventsOutput, err := s.repo.ListEvents(s.ctx, gamesession.ListEventsInput{SessionID: "sess-1"})
	s.Require().NoError(err)
	s.Require().Len(eventsOutput.Events, 1)
	s.Equal(entities.EventGameStarted, eventsOutput.Events[0].Type)
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicate() {
	session := testutils.NewTestSession("sess-1", "player-1")

	_, err := s.repo.Create(s.ctx, gamesession.CreateInput{Session: session})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, gamesession.CreateInput{
		Session: testutils.NewTestSession("sess-1", "player-2"),
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, gamesession.GetInput{ID: "missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateIncrementsVersion() {
	session := testutils.NewTestSession("sess-1", "player-1")
	_, err := s.repo.Create(s.ctx, gamesession.CreateInput{Session: session})
	s.Require().NoError(err)

	session.CurrentRoomID = testutils.TestRoomVault
	session.State.UnlockRoom(testutils.TestRoomVault)

	updateOutput, err := s.repo.Update(s.ctx, gamesession.UpdateInput{
		Session:         session,
		ExpectedVersion: 1,
		Events: []entities.GameEvent{{
			SessionID: "sess-1",
			Type:      entities.EventRoomChanged,
			Data:      map[string]interface{}{"room_id": testutils.TestRoomVault},
		}},
	})
	s.Require().NoError(err)
	s.Equal(int64(2), updateOutput.Session.Version)

	getOutput, err := s.repo.Get(s.ctx, gamesession.GetInput{ID: "sess-1"})
	s.Require().NoError(err)
	s.Equal(testutils.TestRoomVault, getOutput.Session.CurrentRoomID)
	s.Equal(int64(2), getOutput.Session.Version)
}

func (s *RedisRepositoryTestSuite) TestUpdateVersionConflict() {
	session := testutils.NewTestSession("sess-1", "player-1")
	_, err := s.repo.Create(s.ctx, gamesession.CreateInput{Session: session})
	s.Require().NoError(err)

	// A concurrent writer bumped the session to version 2.
	winner := testutils.NewTestSession("sess-1", "player-1")
	winner.State.HintsUsed = 1
	_, err = s.repo.Update(s.ctx, gamesession.UpdateInput{
		Session:         winner,
		ExpectedVersion: 1,
	})
	s.Require().NoError(err)

	stale := testutils.NewTestSession("sess-1", "player-1")
	stale.CurrentRoomID = testutils.TestRoomVault
	_, err = s.repo.Update(s.ctx, gamesession.UpdateInput{
		Session:         stale,
		ExpectedVersion: 1,
		Events: []entities.GameEvent{{
			SessionID: "sess-1",
			Type:      entities.EventRoomChanged,
		}},
	})
	s.Require().Error(err)
	s.True(errors.IsAborted(err))

	// The losing write must leave stored state and events untouched.
	getOutput, err := s.repo.Get(s.ctx, gamesession.GetInput{ID: "sess-1"})
	s.Require().NoError(err)
	s.Equal(testutils.TestRoomLab, getOutput.Session.CurrentRoomID)
	s.Equal(1, getOutput.Session.State.HintsUsed)
	s.Equal(int64(2), getOutput.Session.Version)

	eventsOutput, err := s.repo.ListEvents(s.ctx, gamesession.ListEventsInput{SessionID: "sess-1"})
	s.Require().NoError(err)
	s.Empty(eventsOutput.Events)
}

func (s *RedisRepositoryTestSuite) TestUpdateNotFound() {
	session := testutils.NewTestSession("sess-missing", "player-1")
	_, err := s.repo.Update(s.ctx, gamesession.UpdateInput{
		Session:         session,
		ExpectedVersion: 1,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListByPlayerID() {
	for _, id := range []string{"sess-1", "sess-2"} {
		_, err := s.repo.Create(s.ctx, gamesession.CreateInput{
			Session: testutils.NewTestSession(id, "player-1"),
		})
		s.Require().NoError(err)
	}
	_, err := s.repo.Create(s.ctx, gamesession.CreateInput{
		Session: testutils.NewTestSession("sess-3", "player-2"),
	})
	s.Require().NoError(err)

	listOutput, err := s.repo.ListByPlayerID(s.ctx, gamesession.ListByPlayerIDInput{
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Len(listOutput.Sessions, 2)
	for _, session := range listOutput.Sessions {
		s.Equal("player-1", session.PlayerID)
	}
}

func (s *RedisRepositoryTestSuite) TestListByPlayerIDCleansStaleIndex() {
	_, err := s.repo.Create(s.ctx, gamesession.CreateInput{
		Session: testutils.NewTestSession("sess-1", "player-1"),
	})
	s.Require().NoError(err)

	// Index entry without a backing session document.
	err = s.client.SAdd(s.ctx, "game_session:player:player-1", "sess-gone").Err()
	s.Require().NoError(err)

	listOutput, err := s.repo.ListByPlayerID(s.ctx, gamesession.ListByPlayerIDInput{
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Require().Len(listOutput.Sessions, 1)
	s.Equal("sess-1", listOutput.Sessions[0].ID)

	members, err := s.client.SMembers(s.ctx, "game_session:player:player-1").Result()
	s.Require().NoError(err)
	s.Equal([]string{"sess-1"}, members)
}

func (s *RedisRepositoryTestSuite) TestListEventsAppendOrder() {
	session := testutils.NewTestSession("sess-1", "player-1")
	_, err := s.repo.Create(s.ctx, gamesession.CreateInput{
		Session: session,
		Events:  []entities.GameEvent{s.startEvent("sess-1")},
	})
	s.Require().NoError(err)

	types := []string{entities.EventPuzzleAttempt, entities.EventRoomChanged, entities.EventGameCompleted}
	version := int64(1)
	for _, eventType := range types {
		_, err := s.repo.Update(s.ctx, gamesession.UpdateInput{
			Session:         session,
			ExpectedVersion: version,
			Events:          []entities.GameEvent{{SessionID: "sess-1", Type: eventType}},
		})
		s.Require().NoError(err)
		version++
	}

	eventsOutput, err := s.repo.ListEvents(s.ctx, gamesession.ListEventsInput{SessionID: "sess-1"})
	s.Require().NoError(err)
	s.Require().Len(eventsOutput.Events, 4)
	s.Equal(entities.EventGameStarted, eventsOutput.Events[0].Type)
	for i, eventType := range types {
		s.Equal(eventType, eventsOutput.Events[i+1].Type)
	}
}
