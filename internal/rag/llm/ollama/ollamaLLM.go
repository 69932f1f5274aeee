package ollama

import (
	"fmt"
	"strings"
	"sync"

	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/quantcommander/QuantAPI/internal/clientPooling"
	"github.com/quantcommander/QuantAPI/internal/config"
	"github.com/quantcommander/QuantAPI/internal/rag/llm"
	"github.com/quantcommander/QuantAPI/pkg/logger_i"
)

type llmClient struct {
	client    *openai.Client
	modelName string
	prompt    string
}

var logger *logger_i.Logger
var ollamaClient *llmClient
var once sync.Once

// GetOllamaClient talks to a local Ollama instance through its
// OpenAI-compatible endpoint, so the openai client is the transport.
func GetOllamaClient(ctx context.Context, modelName string, baseURL string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_ollama")
		newOllamaClient(ctx, modelName, baseURL)
	})

	if ollamaClient == nil {
		return nil
	}
	return &llmClient{client: ollamaClient.client, modelName: ollamaClient.modelName, prompt: ollamaClient.prompt}
}

func newOllamaClient(ctx context.Context, modelName string, baseURL string) {

	c := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(config.OllamaAPIKey),
		option.WithHTTPClient(clientPooling.PooledClient),
	)

	ollamaClient = &llmClient{client: &c, modelName: modelName, prompt: config.ModelContext}
	logger.Debug("Ollama ", modelName, " client created")
	logger.Info("Ollama client created")
	go closeClient(ctx, ollamaClient)
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, matches []string, messageHistory []string) (string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	contextText := "This is the context :"

	if len(messageHistory) > 0 {
		contextText = contextText + "\n This is Message History :" +
			" Question stands for the user question and the answer stands for the answer you gave, sources are the source for answer \n"
		contextText = contextText + strings.Join(messageHistory, "\n")
	}
	contextText = contextText + "\n" + strings.Join(matches, "\n")
	userPrompt := fmt.Sprintf("Context:\n%s\n\nUser Question: %s", contextText, userQuery)

	result, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage(userPrompt),
		},
		Model:       openai.ChatModel(c.modelName),
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		loggr.Error("Ollama completion failed", "error", err)
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Ollama client")
	llm.client = nil
	llm.modelName = ""
	llm.prompt = ""
}
