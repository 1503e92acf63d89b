package qdrantDB

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

// ClientHolder implements vectorDB.AnswerCache over one shared grpc client.
// Collections are created lazily per domain on first use.
type ClientHolder struct {
	QObj *qdrant.Client

	mu      sync.Mutex
	created map[commonModels.Domain]bool
}

func GetQuadrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:    quadrantInstance,
		created: make(map[commonModels.Domain]bool),
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func domainCollection(domain commonModels.Domain) string {
	return config.AnswerCacheCollectionPrefix + string(domain)
}

// ensureCollection creates the domain's cache collection once per process.
func (db *ClientHolder) ensureCollection(ctx context.Context, domain commonModels.Domain) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.created[domain] {
		return nil
	}
	if err := createCollection(ctx, db.QObj, domainCollection(domain)); err != nil {
		return err
	}
	db.created[domain] = true
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {

		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
