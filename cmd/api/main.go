// @title           Document QA API
// @version         1.0
// @description     This API handles asynchronous document ingestion and question answering
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/store"
	jobmodel "github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/handlers"
	"github.com/akolanti/DocQA/internal/job"
	"github.com/akolanti/DocQA/internal/rag"
	"github.com/akolanti/DocQA/internal/rag/answer"
	"github.com/akolanti/DocQA/internal/rag/convert"
	"github.com/akolanti/DocQA/internal/rag/convert/local"
	"github.com/akolanti/DocQA/internal/rag/convert/mineru"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/DocQA/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/internal/rag/llm/gemini"
	"github.com/akolanti/DocQA/internal/rag/llm/openaiLLM"
	"github.com/akolanti/DocQA/internal/rag/vectorDB"
	"github.com/akolanti/DocQA/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/DocQA/internal/server"
	"github.com/akolanti/DocQA/internal/worker"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	if err := answer.CheckPromptTable(); err != nil {
		logger.Error("Prompt table is incomplete", "error", err)
		return
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and the stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	jobStore := store.GetRedisJobStore(serviceContext)
	answerStore := store.GetRedisAnswerStore(serviceContext)
	if jobStore == nil || answerStore == nil {
		logger.Error("Redis stores are offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.AnswerStore = store.InitAnswerStore()
	} else {
		serviceConfig.JobStore = jobStore
		serviceConfig.AnswerStore = answerStore
	}
	service := job.InitJobService(serviceConfig)

	embeddingService, llmProvider := initProviders(serviceContext, logger)
	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	//semantic answer cache is optional - without qdrant every answer is fresh
	var answerCache vectorDB.AnswerCache
	if cache := qdrantDB.GetQuadrantClient(serviceContext); cache != nil {
		answerCache = cache
	} else {
		logger.Warn("Qdrant is offline, running without the answer cache")
	}

	registry := rag.NewRegistry(embeddingService, llmProvider)
	generator := answer.NewGenerator(llmProvider)
	ragService := rag.NewService(registry, generator, embeddingService, pickConverter(logger), answerCache, service.AnswerStore)

	handlers.InitJobHandler(service, ragService)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// initProviders selects the embedding and completion provider pair. An
// unknown provider name is a configuration error, never a silent fallback.
func initProviders(ctx context.Context, logger *logger_i.Logger) (embedding.Embedder, llm.Provider) {
	switch config.EmbeddingProvider {
	case "gemini":
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey),
			gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GoogleEmbeddingAPIKey)
	case "openai":
		return openaiEmbedding.GetOpenAIEmbeddingClient(ctx, config.OpenAIEmbeddingModel, config.OpenAIAPIKey),
			openaiLLM.GetOpenAIClient(ctx, config.OpenAIModelName, config.OpenAIAPIKey)
	default:
		logger.Error("Unknown embedding provider", "provider", config.EmbeddingProvider)
		return nil, nil
	}
}

// pickConverter uses the hosted extraction service when its token is
// provisioned and falls back to in-process extraction otherwise.
func pickConverter(logger *logger_i.Logger) convert.Converter {
	if config.MineruToken != "" && config.MineruUploadBaseURL != "" {
		logger.Info("Using hosted document conversion")
		return mineru.NewConverter()
	}
	logger.Info("Using local document conversion")
	return local.NewConverter()
}
