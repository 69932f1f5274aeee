// Command mcp exposes the query parser and dataset analysis over the Model
// Context Protocol on stdio, so agent frontends can call them as tools
// without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/quantcommander/QuantAPI/internal/dataset"
	"github.com/quantcommander/QuantAPI/internal/query"
	"github.com/quantcommander/QuantAPI/pkg/logger_i"
)

type parseIntentInput struct {
	Message string `json:"message" jsonschema:"the free-text chat message to classify"`
}

type parseIntentOutput struct {
	IsMatch   bool   `json:"is_match"`
	Direction string `json:"direction,omitempty"`
	Count     int    `json:"count,omitempty"`
	GroupBy   string `json:"group_by,omitempty"`
}

type analyzeInput struct {
	Path    string `json:"path" jsonschema:"path to a local CSV file"`
	Message string `json:"message" jsonschema:"a top/bottom N request, e.g. 'top 5 by State'"`
}

type analyzeOutput struct {
	Analysis string `json:"analysis"`
}

func parseIntent(ctx context.Context, req *mcp.CallToolRequest, in parseIntentInput) (*mcp.CallToolResult, parseIntentOutput, error) {
	if !query.IsTopBottomQuery(in.Message) {
		return nil, parseIntentOutput{IsMatch: false}, nil
	}
	intent := query.ParseTopBottomQuery(in.Message)
	return nil, parseIntentOutput{
		IsMatch:   true,
		Direction: string(intent.Direction),
		Count:     intent.Count,
		GroupBy:   intent.GroupBy,
	}, nil
}

func analyzeCSV(ctx context.Context, req *mcp.CallToolRequest, in analyzeInput) (*mcp.CallToolResult, analyzeOutput, error) {
	d, err := dataset.LoadCSV(in.Path, in.Path)
	if err != nil {
		return nil, analyzeOutput{}, err
	}

	intent := query.ParseTopBottomQuery(in.Message)
	result, err := d.TopN(intent)
	if err != nil {
		return nil, analyzeOutput{}, err
	}

	out := fmt.Sprintf("%s %d by %s:\n", result.Direction, result.Count, result.Measure)
	for i, row := range result.Rows {
		out += fmt.Sprintf("%d. %s: %.2f\n", i+1, row.Label, row.Value)
	}
	return nil, analyzeOutput{Analysis: out}, nil
}

func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("mcp")

	server := mcp.NewServer(&mcp.Implementation{Name: "quant-commander", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_intent",
		Description: "Classify a chat message as a top/bottom N analysis request and extract direction, count and grouping column.",
	}, parseIntent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_csv",
		Description: "Run a top/bottom N ranking over a local CSV file and return the rendered analysis.",
	}, analyzeCSV)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
