package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/redisStore"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// RedisAnswerStore keeps batch answers as a redis list per batch id, one
// entry per question, so callers can fetch results after the job record
// itself has expired.
type RedisAnswerStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisAnswerStore(ctx context.Context) *RedisAnswerStore {
	redis := redisStore.GetRedisStore(ctx, config.RedisAnswerStore)
	if redis == nil {
		return nil
	}
	return &RedisAnswerStore{
		store:  redis,
		logger: logger_i.NewLogger("AnswerStore"),
	}
}

func (s *RedisAnswerStore) SaveBatchAnswers(ctx context.Context, batchId string, answers []jobModel.BatchAnswer) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "batch Id", batchId)
	log.Debug("saving batch answers", "count", len(answers))

	// replace any partial earlier write - the batch is saved atomically or
	// not at all from the caller's perspective
	if err := s.store.Del(ctx, batchId); err != nil && !s.store.IsNil(err) {
		log.Error("error clearing previous batch answers", "error:", err)
		return err
	}

	for _, answer := range answers {
		data, err := json.Marshal(answer)
		if err != nil {
			return err
		}
		if err := s.store.ListPush(ctx, batchId, data); err != nil {
			log.Error("error saving batch answer", "error:", err)
			return err
		}
	}

	if err := s.store.Expire(ctx, batchId, config.RedisAnswerStoreTTL); err != nil {
		log.Error("error setting batch answers TTL", "error:", err)
	}
	log.Debug("Saved batch answers successfully")
	return nil
}

func TestAnswerStore(store *redisStore.Store) *RedisAnswerStore {
	return &RedisAnswerStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}

func (s *RedisAnswerStore) GetBatchAnswers(ctx context.Context, batchId string) ([]jobModel.BatchAnswer, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "batch Id", batchId)
	log.Debug("getting batch answers")

	raw, err := s.store.ListGetAll(ctx, batchId)
	if err != nil {
		log.Error("Error getting batch answers", "error:", err)
		return nil, err
	}

	answers := make([]jobModel.BatchAnswer, 0, len(raw))
	for _, entry := range raw {
		var answer jobModel.BatchAnswer
		if err := json.Unmarshal([]byte(entry), &answer); err != nil {
			log.Error("Error unmarshalling batch answer", "error:", err)
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}
