package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = false //if redis init fails, it falls back to an internals in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	NoAuthBypass                    = true //local dev only, set false when AUTH_TOKEN is provisioned

	//answer cache (qdrant) - a cached answer counts only above this similarity
	CacheSimilarityCutoff        = 0.97
	AnswerCacheCollectionPrefix  = "answer-cache-"
	EmbeddingOutputDimensionality int32 = 1536

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB (semantic answer cache)
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//providers: "gemini" or "openai" - anything else fails startup
	EmbeddingProvider = "gemini"

	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-large"

	ModelTemperature float32 = 0.0

	//retrieval core
	MaxEmbeddingInputChars = 2048
	EmbeddingBatchSize     = 100
	RetrievalSampleSize    = 20  //candidate pool handed to the reranker
	RetrievalTopN          = 10  //final chunks handed to the answer generator
	RerankBatchSize        = 10  //blocks per rerank model call
	LLMWeight              = 0.7 //rerank score weight vs vector similarity
	DistancePrecision      = 4   //decimal places kept on similarity scores

	//page reference validation
	MinPageReferences = 2
	MaxPageReferences = 8

	//chunking
	ChunkSizeChars    = 1000
	ChunkOverlapChars = 150

	//external call policy
	ExternalCallTimeout = 30 * time.Second
	MaxCallRetries      = 3
	RetryBaseBackoff    = 2 * time.Second

	//batch question answering
	BatchParallelRequests = 4

	//pdf conversion (hosted extraction service)
	MineruTaskURL     = "https://mineru.net/api/v4/extract/task"
	MineruPollEvery   = 5 * time.Second
	MineruPollTimeout = 10 * time.Minute

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore    = 0
	RedisAnswerStore = 1

	//redis timeouts
	RedisJobStoreTTL    = 24 * time.Hour
	RedisAnswerStoreTTL = 24 * time.Hour
)

// secrets come from the environment, never from this file
var (
	AuthToken             = os.Getenv("AUTH_TOKEN")
	GoogleEmbeddingAPIKey = os.Getenv("GOOGLE_API_KEY")
	OpenAIAPIKey          = os.Getenv("OPENAI_API_KEY")
	RedisPassword         = os.Getenv("REDIS_PASSWORD")
	MineruToken           = os.Getenv("MINERU_TOKEN")
	MineruUploadBaseURL   = os.Getenv("MINERU_UPLOAD_BASE_URL") //object storage PUT endpoint for source PDFs
)
