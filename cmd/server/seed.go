package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/pkg/idgen"
	"github.com/gamelearn/escape-api/internal/redis"
	escaperoomrepo "github.com/gamelearn/escape-api/internal/repositories/escaperoom"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load an escape room definition from a JSON file",
	Long:  `Load one escape room definition from a JSON file into Redis so it can be played.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "path to the definition JSON file")
	seedCmd.Flags().StringVar(&redisAddr, "redis-addr", envString("REDIS_ADDR", "localhost:6379"), "Redis address")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", seedFile, err)
	}

	var def entities.EscapeRoom
	if err := json.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("failed to parse %s: %w", seedFile, err)
	}
	if def.ID == "" {
		def.ID = idgen.NewUUID("").Generate()
	}
	if def.CreatedAt.IsZero() {
		def.CreatedAt = time.Now()
	}

	redisClient, err := redis.NewClient(redisAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	repo, err := escaperoomrepo.NewRedis(&escaperoomrepo.RedisConfig{Client: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create escape room repository: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := repo.Create(ctx, escaperoomrepo.CreateInput{EscapeRoom: &def}); err != nil {
		return fmt.Errorf("failed to store definition: %w", err)
	}

	fmt.Printf("Seeded escape room %s (%s)\n", def.ID, def.Title)
	return nil
}
