package escaperoom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gamelearn/escape-api/internal/errors"
	redisclient "github.com/gamelearn/escape-api/internal/redis"
	"github.com/gamelearn/escape-api/internal/repositories/escaperoom"
	"github.com/gamelearn/escape-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite

	ctx     context.Context
	client  redisclient.Client
	repo    escaperoom.Repository
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

	repo, err := escaperoom.NewRedis(&escaperoom.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	def := testutils.NewTestEscapeRoom()

	_, err := s.repo.Create(s.ctx, escaperoom.CreateInput{EscapeRoom: def})
	s.Require().NoError(err)

	getOutput, err := s.repo.Get(s.ctx, escaperoom.GetInput{ID: def.ID})
	s.Require().NoError(err)

	stored := getOutput.EscapeRoom
	s.Equal(def.Title, stored.Title)
	s.Len(stored.Rooms, 2)
	s.Len(stored.Connections, 1)
	s.Len(stored.Items, 5)

	// Stored definitions keep the full solution; redaction is a
	// boundary concern.
	s.Equal("1234", stored.Rooms[0].Puzzles[0].Solution.Code)

	s.Require().NotNil(stored.Connections[0].UnlockCondition)
	s.Equal(testutils.TestPuzzleDoorCode, stored.Connections[0].UnlockCondition.PuzzleID)
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicate() {
	def := testutils.NewTestEscapeRoom()

	_, err := s.repo.Create(s.ctx, escaperoom.CreateInput{EscapeRoom: def})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, escaperoom.CreateInput{EscapeRoom: testutils.NewTestEscapeRoom()})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, escaperoom.GetInput{ID: "missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListPublishedFiltersUnpublished() {
	published := testutils.NewTestEscapeRoom()
	_, err := s.repo.Create(s.ctx, escaperoom.CreateInput{EscapeRoom: published})
	s.Require().NoError(err)

	draft := testutils.NewTestEscapeRoom()
	draft.ID = "room-def-draft"
	draft.IsPublished = false
	_, err = s.repo.Create(s.ctx, escaperoom.CreateInput{EscapeRoom: draft})
	s.Require().NoError(err)

	listOutput, err := s.repo.ListPublished(s.ctx, escaperoom.ListPublishedInput{})
	s.Require().NoError(err)
	s.Require().Len(listOutput.EscapeRooms, 1)
	s.Equal(published.ID, listOutput.EscapeRooms[0].ID)
}

func (s *RedisRepositoryTestSuite) TestListPublishedCleansStaleEntries() {
	def := testutils.NewTestEscapeRoom()
	_, err := s.repo.Create(s.ctx, escaperoom.CreateInput{EscapeRoom: def})
	s.Require().NoError(err)

	// Published index entry whose document is gone.
	err = s.client.SAdd(s.ctx, "escape_room:published", "room-gone").Err()
	s.Require().NoError(err)

	listOutput, err := s.repo.ListPublished(s.ctx, escaperoom.ListPublishedInput{})
	s.Require().NoError(err)
	s.Require().Len(listOutput.EscapeRooms, 1)
	s.Equal(def.ID, listOutput.EscapeRooms[0].ID)

	members, err := s.client.SMembers(s.ctx, "escape_room:published").Result()
	s.Require().NoError(err)
	s.Equal([]string{def.ID}, members)
}
