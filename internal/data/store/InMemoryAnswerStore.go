package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/jobModel"
)

type InMemoryAnswerStore struct {
	answerLock *sync.RWMutex
	answerMap  map[string][]jobModel.BatchAnswer
}

func InitAnswerStore() *InMemoryAnswerStore {
	return &InMemoryAnswerStore{
		answerLock: new(sync.RWMutex),
		answerMap:  make(map[string][]jobModel.BatchAnswer),
	}
}

func (store *InMemoryAnswerStore) SaveBatchAnswers(ctx context.Context, batchId string, answers []jobModel.BatchAnswer) error {
	store.answerLock.Lock()
	defer store.answerLock.Unlock()
	store.answerMap[batchId] = append([]jobModel.BatchAnswer(nil), answers...)
	inMemLogger.Info(batchId, " : Saved batch answers to store")
	return nil
}

func (store *InMemoryAnswerStore) GetBatchAnswers(ctx context.Context, batchId string) ([]jobModel.BatchAnswer, error) {
	store.answerLock.RLock()
	defer store.answerLock.RUnlock()
	answers, found := store.answerMap[batchId]
	if !found {
		return nil, fmt.Errorf("no batch answers for %s", batchId)
	}
	return answers, nil
}
