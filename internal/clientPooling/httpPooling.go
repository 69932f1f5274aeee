package clientPooling

import (
	"net/http"

	"github.com/quantcommander/QuantAPI/internal/config"
)

var pooledTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// PooledClient is shared by the outbound llm calls so repeated
// completions reuse connections instead of redialing Ollama.
var PooledClient = &http.Client{
	Transport: pooledTransport,
}
