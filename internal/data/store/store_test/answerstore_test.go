package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/redisStore"
	"github.com/akolanti/DocQA/internal/data/store"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisAnswerStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	answerStore := store.TestAnswerStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	batchID := "batch_abc_123"

	answers := []jobModel.BatchAnswer{
		{
			Question: "What was the total revenue?",
			Kind:     "number",
			Answer: &commonModels.Answer{
				ReasoningSummary: "Found on the income statement.",
				RelevantPages:    []int{4, 5},
				FinalAnswer:      4970500.0,
			},
		},
		{
			Question: "Who audited the statements?",
			Kind:     "names",
			Error:    "provider down",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := answerStore.SaveBatchAnswers(ctx, batchID, answers); err != nil {
			t.Fatalf("SaveBatchAnswers failed: %v", err)
		}

		got, err := answerStore.GetBatchAnswers(ctx, batchID)
		if err != nil {
			t.Fatalf("GetBatchAnswers failed: %v", err)
		}
		if len(got) != len(answers) {
			t.Fatalf("got %d answers, want %d", len(got), len(answers))
		}
		if got[0].Question != answers[0].Question {
			t.Errorf("Question got %s, want %s", got[0].Question, answers[0].Question)
		}
		if got[0].Answer == nil || got[0].Answer.FinalAnswer != 4970500.0 {
			t.Errorf("FinalAnswer did not survive the roundtrip: %+v", got[0].Answer)
		}
		if got[1].Error != "provider down" {
			t.Errorf("Error got %s, want provider down", got[1].Error)
		}
	})

	t.Run("Rewrite Replaces Earlier Answers", func(t *testing.T) {
		rewrite := []jobModel.BatchAnswer{{Question: "only one now", Kind: "string"}}
		if err := answerStore.SaveBatchAnswers(ctx, batchID, rewrite); err != nil {
			t.Fatalf("SaveBatchAnswers failed: %v", err)
		}

		got, err := answerStore.GetBatchAnswers(ctx, batchID)
		if err != nil {
			t.Fatalf("GetBatchAnswers failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d answers after rewrite, want 1", len(got))
		}
	})

	t.Run("Answers Carry A TTL", func(t *testing.T) {
		if mr.TTL(batchID) <= 0 {
			t.Error("expected a TTL on the batch answers key")
		}
	})

	t.Run("Unknown Batch Is Empty", func(t *testing.T) {
		got, err := answerStore.GetBatchAnswers(ctx, "ghost-batch")
		if err != nil {
			t.Fatalf("GetBatchAnswers failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d answers for unknown batch, want 0", len(got))
		}
	})
}

func TestInMemoryAnswerStore_Lifecycle(t *testing.T) {
	answerStore := store.InitAnswerStore()

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	answers := []jobModel.BatchAnswer{{Question: "q", Kind: "boolean", Answer: &commonModels.Answer{FinalAnswer: true}}}

	if err := answerStore.SaveBatchAnswers(ctx, "mem-batch", answers); err != nil {
		t.Fatalf("SaveBatchAnswers failed: %v", err)
	}

	got, err := answerStore.GetBatchAnswers(ctx, "mem-batch")
	if err != nil {
		t.Fatalf("GetBatchAnswers failed: %v", err)
	}
	if len(got) != 1 || got[0].Answer == nil || got[0].Answer.FinalAnswer != true {
		t.Errorf("roundtrip mismatch: %+v", got)
	}

	if _, err := answerStore.GetBatchAnswers(ctx, "missing"); err == nil {
		t.Error("expected an error for a missing batch")
	}
}
