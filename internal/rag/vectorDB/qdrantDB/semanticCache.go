package qdrantDB

import (
	"context"
	"encoding/json"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

// GetCachedAnswer looks up the nearest cached question in the domain's
// collection and returns its stored answer when the similarity clears the
// cutoff. A cache miss is (nil, false, nil) - errors here never fail the
// question, the caller just answers fresh.
func (db *ClientHolder) GetCachedAnswer(ctx context.Context, domain commonModels.Domain, queryVector []float32) (*commonModels.Answer, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if err := db.ensureCollection(ctx, domain); err != nil {
		return nil, false, err
	}

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: domainCollection(domain),
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Cache Query failed", "error", err)
		return nil, false, err
	}
	if len(searchResult) == 0 {
		return nil, false, nil
	}

	loggr.Debug("Found cached answer", "semantic similarity score", searchResult[0].Score)
	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return nil, false, nil
	}

	var answer commonModels.Answer
	raw := searchResult[0].Payload["answer"].GetStringValue()
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		loggr.Error("Cached answer payload is malformed, ignoring", "error", err)
		return nil, false, nil
	}

	loggr.Info("Answer cache hit", "domain", domain)
	return &answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, domain commonModels.Domain, id string, vector []float32, answer *commonModels.Answer) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if err := db.ensureCollection(ctx, domain); err != nil {
		return err
	}

	payload, err := json.Marshal(answer)
	if err != nil {
		return err
	}

	loggr.Debug("Saving answer to cache", "domain", domain)
	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: domainCollection(domain),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    string(payload),
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}

// ResetDomain drops the domain's cache collection. Cached answers cite
// documents, so they must not outlive the documents they cite.
func (db *ClientHolder) ResetDomain(ctx context.Context, domain commonModels.Domain) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	db.mu.Lock()
	delete(db.created, domain)
	db.mu.Unlock()

	loggr.Info("Dropping answer cache collection", "domain", domain)
	return db.QObj.DeleteCollection(ctx, domainCollection(domain))
}
