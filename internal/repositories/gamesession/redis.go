package gamesession

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
	redisclient "github.com/gamelearn/escape-api/internal/redis"
)

const (
	sessionKeyPrefix  = "game_session:"
	playerIndexPrefix = "game_session:player:"
	eventsKeySuffix   = ":events"

	errSessionNil     = "session cannot be nil"
	errSessionIDEmpty = "session ID cannot be empty"
	errPlayerIDEmpty  = "player ID cannot be empty"
)

// RedisConfig contains configuration for the Redis session repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Session.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := sessionKey(input.Session.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("session with ID %s already exists", input.Session.ID)
	}

	input.Session.Version = 1
	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	eventPayloads, err := marshalEvents(input.Events)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, playerIndexPrefix+input.Session.PlayerID, input.Session.ID)
	for _, payload := range eventPayloads {
		pipe.RPush(ctx, eventsKey(input.Session.ID), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create session")
	}

	return &CreateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	result, err := r.client.Get(ctx, sessionKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get session")
	}

	var session entities.GameSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	return &GetOutput{Session: &session}, nil
}

// Update applies a compare-and-swap write: the session document and its
// new events land in one MULTI block, guarded by WATCH on the session
// key so a concurrent writer aborts this transaction.
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := sessionKey(input.Session.ID)

	eventPayloads, err := marshalEvents(input.Events)
	if err != nil {
		return nil, err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return errors.NotFoundf("session with ID %s not found", input.Session.ID)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to get session")
		}

		var existing entities.GameSession
		if err := json.Unmarshal([]byte(stored), &existing); err != nil {
			return errors.Wrapf(err, "failed to unmarshal stored session")
		}

		if existing.Version != input.ExpectedVersion {
			return errors.Abortedf(
				"session %s version conflict: expected %d, stored %d",
				input.Session.ID, input.ExpectedVersion, existing.Version,
			)
		}

		input.Session.Version = input.ExpectedVersion + 1
		data, err := json.Marshal(input.Session)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal session")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			for _, payload := range eventPayloads {
				pipe.RPush(ctx, eventsKey(input.Session.ID), payload)
			}
			return nil
		})
		return err
	}, key)
	if err != nil {
		if err == redis.TxFailedErr {
			return nil, errors.Abortedf("session %s was modified concurrently", input.Session.ID)
		}
		return nil, errors.Wrapf(err, "failed to update session %s", input.Session.ID)
	}

	return &UpdateOutput{Session: input.Session}, nil
}

func (r *redisRepository) ListByPlayerID(
	ctx context.Context,
	input ListByPlayerIDInput,
) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	indexKey := playerIndexPrefix + input.PlayerID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get sessions from index %s", indexKey)
	}

	sessions := make([]*entities.GameSession, 0, len(ids))
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "session missing, cleaning up player index",
					"session_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get session %s", id)
		}
		sessions = append(sessions, getOutput.Session)
	}

	return &ListByPlayerIDOutput{Sessions: sessions}, nil
}

func (r *redisRepository) ListEvents(ctx context.Context, input ListEventsInput) (*ListEventsOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	payloads, err := r.client.LRange(ctx, eventsKey(input.SessionID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read events for session %s", input.SessionID)
	}

	events := make([]entities.GameEvent, 0, len(payloads))
	for _, payload := range payloads {
		var event entities.GameEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal event")
		}
		events = append(events, event)
	}

	return &ListEventsOutput{Events: events}, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func eventsKey(id string) string {
	return sessionKeyPrefix + id + eventsKeySuffix
}

func marshalEvents(events []entities.GameEvent) ([]string, error) {
	payloads := make([]string, 0, len(events))
	for i := range events {
		data, err := json.Marshal(&events[i])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal event")
		}
		payloads = append(payloads, string(data))
	}
	return payloads, nil
}
