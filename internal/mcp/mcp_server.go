// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/netseries/core/measures"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the netseries MCP server without starting it.
// baseInput carries the resolved defaults that tool arguments override.
// This is exposed for unit testing.
func NewMCPServer(baseInput *contract.ConfigRawInput) *server.MCPServer {
	s := server.NewMCPServer(
		"Network Series Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseInput: baseInput}

	// --- 1. Tool: extract_series ---
	s.AddTool(mcp.NewTool("extract_series",
		append(sourceOptions(),
			mcp.WithDescription("Aggregate an event log into windowed graph snapshots and measure each window."),
			mcp.WithString("measure", mcp.Description("Named measure (see list_measures). Defaults to 'edges'."), mcp.Enum(measures.Names()...)),
			mcp.WithString("pairwise", mcp.Description("Pairwise strategy for the 'pair' measure."), mcp.Enum(measures.PairwiseNames()...)),
			mcp.WithBoolean("directed", mcp.Description("Treat events as directed from a to b.")),
			mcp.WithNumber("lag", mcp.Description("Window lag for lagged measures. Defaults to 1.")),
			mcp.WithBoolean("first_net_only", mcp.Description("Compare every window against the first one.")),
			mcp.WithNumber("permutations", mcp.Description("Number of null-model permutations per window (0 disables).")),
			mcp.WithNumber("confidence", mcp.Description("Confidence level of the null interval, in (0, 1).")),
			mcp.WithBoolean("convergence", mcp.Description("Compute the subsampling convergence slope.")),
			mcp.WithBoolean("ratio_index", mcp.Description("Normalize edge weights with the ratio index.")),
			mcp.WithBoolean("trim", mcp.Description("Drop nodes not observed across the whole window.")),
			mcp.WithNumber("workers", mcp.Description("Number of snapshot builders.")),
			mcp.WithNumber("seed", mcp.Description("Random seed for permutations and subsampling.")),
		)...,
	), h.handleExtractSeries)

	// --- 2. Tool: list_windows ---
	s.AddTool(mcp.NewTool("list_windows",
		append(sourceOptions(),
			mcp.WithDescription("List the time windows an event log would be split into, with event counts."),
		)...,
	), h.handleListWindows)

	// --- 3. Tool: list_measures ---
	s.AddTool(mcp.NewTool("list_measures",
		mcp.WithDescription("List the named measures and pairwise strategies."),
	), h.handleListMeasures)

	return s
}

// sourceOptions are the arguments shared by tools that read an event log.
func sourceOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("events_path", mcp.Description("Path to the events file (csv, parquet or sqlite)."), mcp.Required()),
		mcp.WithString("source", mcp.Description("Event source. Inferred from the file extension when omitted."), mcp.Enum("csv", "parquet", "sqlite", "mysql", "postgresql")),
		mcp.WithString("table", mcp.Description("Table holding a, b, weight, ts for database sources.")),
		mcp.WithString("window_size", mcp.Description("Window length (e.g., '7 days', '12h')."), mcp.Required()),
		mcp.WithString("window_shift", mcp.Description("Distance between window starts. Defaults to the window size.")),
		mcp.WithString("resolution", mcp.Description("Timestamp granularity (e.g., '1 day', '0' for exact).")),
		mcp.WithString("start", mcp.Description("First window start (RFC3339 or YYYY-MM-DD). Defaults to the first event.")),
	}
}

// StartMCPServer starts the netseries MCP server on stdio.
func StartMCPServer(_ context.Context, baseInput *contract.ConfigRawInput) error {
	s := NewMCPServer(baseInput)
	return server.ServeStdio(s)
}
