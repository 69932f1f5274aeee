package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/quantcommander/QuantAPI/internal/config"
	"github.com/quantcommander/QuantAPI/internal/data/redisStore"
	"github.com/quantcommander/QuantAPI/internal/data/store"
	"github.com/quantcommander/QuantAPI/internal/domain/jobModel"
	"github.com/redis/go-redis/v9"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	// 1. Start miniredis
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:     jobID,
		Status: jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			Question: "top 5 by region",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		// Verify it's gone from miniredis
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}

func TestInMemoryMessageStore_History(t *testing.T) {
	ms := store.InitMessageStore()
	ctx := context.Background()

	if err := ms.InitNewChat(ctx, "chat-9"); err != nil {
		t.Fatalf("InitNewChat failed: %v", err)
	}

	for i := 0; i < 7; i++ {
		err := ms.TrySaveChat(ctx, "chat-9", jobModel.JobPayload{Question: "q", Answer: "a"})
		if err != nil {
			t.Fatalf("TrySaveChat failed: %v", err)
		}
	}

	err, history := ms.GetMessageHistory(ctx, "chat-9")
	if err != nil {
		t.Fatalf("GetMessageHistory failed: %v", err)
	}
	if len(history) != 5 {
		t.Errorf("history length got %d, want 5", len(history))
	}
}

func TestInMemoryMessageStore_UnknownChat(t *testing.T) {
	ms := store.InitMessageStore()

	if ms.ValidateChatId(context.Background(), "nope") {
		t.Error("unknown chat id validated as true")
	}
	if err := ms.TrySaveChat(context.Background(), "nope", jobModel.JobPayload{}); err != nil {
		t.Errorf("TrySaveChat on unknown chat should be a no-op, got %v", err)
	}
}
