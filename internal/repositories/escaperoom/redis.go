package escaperoom

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
	redisclient "github.com/gamelearn/escape-api/internal/redis"
)

const (
	roomKeyPrefix     = "escape_room:"
	publishedIndexKey = "escape_room:published"

	errDefinitionNil = "escape room cannot be nil"
	errIDEmpty       = "escape room ID cannot be empty"
)

// RedisConfig contains configuration for the Redis definition repository.
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

// NewRedis creates a new Redis-backed definition repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.EscapeRoom == nil {
		return nil, errors.InvalidArgument(errDefinitionNil)
	}
	if input.EscapeRoom.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	key := roomKeyPrefix + input.EscapeRoom.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("escape room with ID %s already exists", input.EscapeRoom.ID)
	}

	data, err := json.Marshal(input.EscapeRoom)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal escape room")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if input.EscapeRoom.IsPublished {
		pipe.SAdd(ctx, publishedIndexKey, input.EscapeRoom.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create escape room")
	}

	return &CreateOutput{EscapeRoom: input.EscapeRoom}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	result, err := r.client.Get(ctx, roomKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("escape room with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get escape room")
	}

	var room entities.EscapeRoom
	if err := json.Unmarshal([]byte(result), &room); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal escape room")
	}

	return &GetOutput{EscapeRoom: &room}, nil
}

func (r *redisRepository) ListPublished(ctx context.Context, _ ListPublishedInput) (*ListPublishedOutput, error) {
	ids, err := r.client.SMembers(ctx, publishedIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read published index")
	}

	rooms := make([]*entities.EscapeRoom, 0, len(ids))
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			// Stale index entries are cleaned up rather than surfaced.
			if errors.IsNotFound(err) {
				r.client.SRem(ctx, publishedIndexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get escape room %s", id)
		}
		rooms = append(rooms, getOutput.EscapeRoom)
	}

	return &ListPublishedOutput{EscapeRooms: rooms}, nil
}
