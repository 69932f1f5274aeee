package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	CacheSimilarityCutoff           = 0.97

	//auth - token comes from the environment in prod, bypass stays for local dev
	NoAuthBypass = true
	AuthToken    = ""

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536
	DocumentCollectionName              = "quant-docs"

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

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//llm - the chat model runs on a local Ollama instance behind its
	//OpenAI-compatible endpoint
	OllamaBaseURL   = "http://localhost:11434/v1"
	OllamaAPIKey    = "ollama" //the local endpoint ignores the key but the client requires one
	OllamaModelName = "llama3.1:8b"

	//embeddings
	GoogleEmbeddingModel  = "gemini-embedding-001"
	GoogleEmbeddingAPIKey = ""

	ModelTemperature float64 = 0.7
	ModelContext             = "You are a financial analysis assistant for Quant Commander. Ground every statement in the computed analysis and document context you are given. If the data does not support an answer, say so."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//analysis
	DefaultTopN          = 5
	MaxTopN              = 100 //clamp for adversarial "top 999999" requests
	EnableRAGEnhancement = true

	//dataset upload
	MaxDatasetUploadBytes = 32 << 20 //32mb
	MaxDocumentUploadSize = 32 << 20

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisMessageStore = 1

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour
)
