// Package mcpserver exposes the algorithm catalog and step generation as
// MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhisek/algoquest/internal/cache"
	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/steps"
)

const serverName = "algoquest"

// Server hosts the MCP server.
type Server struct {
	mcpServer *server.MCPServer
	cache     cache.Cache
}

// AlgorithmInfo describes one registered algorithm.
type AlgorithmInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	NeedsTarget bool   `json:"needs_target"`
	Sample      []int  `json:"sample"`
}

// AlgorithmList is the list_algorithms result.
type AlgorithmList struct {
	Algorithms []AlgorithmInfo `json:"algorithms"`
}

// StepsInput is the argument set shared by generate_steps and
// explain_outcome. Omitted data uses the algorithm's sample.
type StepsInput struct {
	Algorithm string `json:"algorithm"`
	Data      []int  `json:"data"`
	Target    *int   `json:"target"`
}

// StepsResult is the generate_steps result.
type StepsResult struct {
	Algorithm string         `json:"algorithm"`
	Steps     int            `json:"steps"`
	Outcome   steps.Outcome  `json:"outcome"`
	History   *steps.History `json:"history"`
}

// OutcomeResult is the explain_outcome result.
type OutcomeResult struct {
	Algorithm string        `json:"algorithm"`
	Outcome   steps.Outcome `json:"outcome"`
	Summary   string        `json:"summary"`
}

// New creates a configured server. c may be nil.
func New(version string, c cache.Cache) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
		cache:     c,
	}
	s.mcpServer.AddTool(listAlgorithmsTool(), s.handleListAlgorithms)
	s.mcpServer.AddTool(generateStepsTool(), s.handleGenerateSteps)
	s.mcpServer.AddTool(explainOutcomeTool(), s.handleExplainOutcome)
	return s
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve() error {
	if s == nil || s.mcpServer == nil {
		return errors.New("MCP server is not configured")
	}
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func listAlgorithmsTool() mcp.Tool {
	return mcp.NewTool("list_algorithms",
		mcp.WithDescription("List the algorithms that can be visualized step by step."),
		mcp.WithOutputSchema[AlgorithmList](),
	)
}

func stepsOptions(description string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("algorithm", mcp.Required(), mcp.Description("Algorithm name, e.g. bubble-sort or binary-search")),
		mcp.WithArray("data",
			mcp.Description(fmt.Sprintf("Up to %d integers; the algorithm's sample when omitted", dataset.MaxLen)),
			mcp.Items(map[string]any{"type": "integer"}),
		),
		mcp.WithNumber("target", mcp.Description("Value to search for; searches only")),
	}
}

func generateStepsTool() mcp.Tool {
	opts := append(stepsOptions("Generate the full step history of an algorithm run."),
		mcp.WithOutputSchema[StepsResult]())
	return mcp.NewTool("generate_steps", opts...)
}

func explainOutcomeTool() mcp.Tool {
	opts := append(stepsOptions("Run an algorithm and summarize how it ended."),
		mcp.WithOutputSchema[OutcomeResult]())
	return mcp.NewTool("explain_outcome", opts...)
}

func (s *Server) handleListAlgorithms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out AlgorithmList
	for _, a := range steps.All() {
		out.Algorithms = append(out.Algorithms, AlgorithmInfo{
			Name:        a.Name,
			Title:       a.Title,
			Kind:        string(a.Kind),
			NeedsTarget: a.NeedsTarget,
			Sample:      a.Sample,
		})
	}
	return mcp.NewToolResultStructuredOnly(out), nil
}

func (s *Server) handleGenerateSteps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alg, _, h, errResult := s.run(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultStructuredOnly(StepsResult{
		Algorithm: alg.Name,
		Steps:     h.Len(),
		Outcome:   h.Outcome,
		History:   h,
	}), nil
}

func (s *Server) handleExplainOutcome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alg, target, h, errResult := s.run(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	summary := steps.Describe(alg, h, target)
	return mcp.NewToolResultStructured(OutcomeResult{
		Algorithm: alg.Name,
		Outcome:   h.Outcome,
		Summary:   summary,
	}, summary), nil
}

// run binds and validates the arguments and generates the history. Input
// problems come back as a tool error result.
func (s *Server) run(ctx context.Context, request mcp.CallToolRequest) (steps.Algorithm, int, *steps.History, *mcp.CallToolResult) {
	var input StepsInput
	if err := request.BindArguments(&input); err != nil {
		return steps.Algorithm{}, 0, nil, mcp.NewToolResultErrorFromErr("invalid arguments", err)
	}
	alg, err := steps.Lookup(input.Algorithm)
	if err != nil {
		return steps.Algorithm{}, 0, nil, mcp.NewToolResultError(err.Error())
	}

	data := alg.Sample
	if input.Data != nil {
		data = input.Data
	}
	target := alg.SampleTarget
	if input.Target != nil {
		target = *input.Target
	}
	if err := dataset.Check(data); err != nil {
		return alg, 0, nil, mcp.NewToolResultError(err.Error())
	}
	if alg.NeedsTarget {
		if err := dataset.Check([]int{target}); err != nil {
			return alg, 0, nil, mcp.NewToolResultError(err.Error())
		}
	}

	h, _, err := cache.Generate(ctx, s.cache, alg, data, target)
	if err != nil {
		return alg, 0, nil, mcp.NewToolResultError(err.Error())
	}
	return alg, target, h, nil
}
