// @title           Quant Commander API
// @version         1.0
// @description     This API handles asynchronous chat, dataset analysis and RAG
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
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

	"github.com/quantcommander/QuantAPI/internal/analysis"
	"github.com/quantcommander/QuantAPI/internal/config"
	"github.com/quantcommander/QuantAPI/internal/data/redisStore"
	"github.com/quantcommander/QuantAPI/internal/data/store"
	"github.com/quantcommander/QuantAPI/internal/dataset"
	jobmodel "github.com/quantcommander/QuantAPI/internal/domain/jobModel"
	"github.com/quantcommander/QuantAPI/internal/handlers"
	"github.com/quantcommander/QuantAPI/internal/job"
	"github.com/quantcommander/QuantAPI/internal/rag"
	"github.com/quantcommander/QuantAPI/internal/rag/embedding/googleEmbedding"
	"github.com/quantcommander/QuantAPI/internal/rag/llm/ollama"
	"github.com/quantcommander/QuantAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/quantcommander/QuantAPI/internal/server"
	"github.com/quantcommander/QuantAPI/internal/worker"
	"github.com/quantcommander/QuantAPI/pkg/logger_i"
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

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	jobStore, messageStore := initStores(serviceContext, logger)

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		MessageStore:      messageStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey)
	llmProvider := ollama.GetOllamaClient(serviceContext, config.OllamaModelName, config.OllamaBaseURL)

	var ragService rag.Service
	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		//structured dataset analysis still works without the RAG stack,
		//so degrade instead of refusing to start
		logger.Error("One or more external services failed to initialize. Running without RAG.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
	} else {
		ragService = rag.NewService(vectorDB, llmProvider, embeddingService)
	}

	analysisService := analysis.NewService(ragService, dataset.InitStore())

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, analysisService)
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

func initStores(ctx context.Context, logger *logger_i.Logger) (jobmodel.JobStore, jobmodel.MessageStore) {
	jobRedis := redisStore.GetRedisStore(ctx, config.RedisJobStore)
	messageRedis := redisStore.GetRedisStore(ctx, config.RedisMessageStore)

	if jobRedis == nil || messageRedis == nil {
		if config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline, falling back to in-memory stores")
			return store.InitInMemoryJobStore(), store.InitMessageStore()
		}
		logger.Error("Redis stores are offline and fallback is disabled")
		os.Exit(1)
	}
	return store.GetRedisJobStore(ctx), store.GetRedisMessageStore(ctx)
}
