package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Wizard defines the interface required by the MCP server to drive applications.
type Wizard interface {
	Start(ctx context.Context) (domain.Record, error)
	Load(ctx context.Context, id string) (domain.Record, error)
	SaveField(ctx context.Context, id string, field domain.Field, values []string) (domain.Record, error)
	CommitStep(ctx context.Context, id string, step domain.Step, values []string) (domain.Record, error)
	Back(ctx context.Context, id string) (domain.Retreat, error)
	Submit(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context) ([]domain.Summary, error)
}

// ApplicationResponse is the structured result of every tool acting on one application.
type ApplicationResponse struct {
	ID          string   `json:"id" jsonschema_description:"The application id"`
	CurrentStep string   `json:"current_step" jsonschema_description:"The step the applicant is on"`
	Progress    string   `json:"progress" jsonschema_description:"Position in the flow, e.g. step 2 of 4"`
	Submitted   bool     `json:"submitted" jsonschema_description:"Whether the review was confirmed"`
	Field       string   `json:"field,omitempty" jsonschema_description:"Answer collected on the current step"`
	Options     []string `json:"options,omitempty" jsonschema_description:"Accepted values for field"`
	Multiple    bool     `json:"multiple,omitempty" jsonschema_description:"Whether field takes several values"`

	AgeBracket            []string `json:"age_bracket"`
	GenderIdentity        []string `json:"gender_identity"`
	CompetencePreferences []string `json:"competence_preferences"`
}

// BackResponse reports where going back led.
type BackResponse struct {
	Exited bool   `json:"exited" jsonschema_description:"True when the applicant left the flow"`
	Step   string `json:"step,omitempty" jsonschema_description:"The step the application moved back to"`
}

// ListResponse is the landing view.
type ListResponse struct {
	Applications []SummaryResponse `json:"applications"`
}

// SummaryResponse is one landing view entry.
type SummaryResponse struct {
	ID          string `json:"id"`
	CurrentStep string `json:"current_step"`
	Submitted   bool   `json:"submitted"`
}

type idArgs struct {
	ID string `json:"id"`
}

type answerArgs struct {
	ID     string `json:"id"`
	Field  string `json:"field"`
	Values string `json:"values"`
}

type stepArgs struct {
	ID     string `json:"id"`
	Step   string `json:"step"`
	Values string `json:"values"`
}

// Server wraps the wizard and exposes it as an MCP Server.
type Server struct {
	wizard    Wizard
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(wizard Wizard, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		wizard:    wizard,
		logger:    logger,
		mcpServer: server.NewMCPServer("intake-mcp", strings.TrimSpace(intake.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_applications",
		mcp.WithDescription("List every application with its current step and submission status."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleList))

	s.mcpServer.AddTool(mcp.NewTool("start_application",
		mcp.WithDescription("Start a new application. It is positioned on the first step."),
		mcp.WithOutputSchema[ApplicationResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("get_application",
		mcp.WithDescription("Read an application: current step, accepted options and saved answers."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
		mcp.WithOutputSchema[ApplicationResponse](),
	), mcp.NewStructuredToolHandler(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("save_answer",
		mcp.WithDescription("Save an answer without moving. The field's step must have been reached."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
		mcp.WithString("field", mcp.Required(),
			mcp.Description("Answer field"),
			mcp.Enum(fieldNames()...),
		),
		mcp.WithString("values", mcp.Description("Comma separated values; empty clears a multiple choice field")),
		mcp.WithOutputSchema[ApplicationResponse](),
	), mcp.NewStructuredToolHandler(s.handleSaveAnswer))

	s.mcpServer.AddTool(mcp.NewTool("next_step",
		mcp.WithDescription("Commit the current step's answer and advance. The review step is completed with submit_application."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
		mcp.WithString("step", mcp.Required(), mcp.Description("The step being left; must be the current step")),
		mcp.WithString("values", mcp.Description("Comma separated answer values for the step")),
		mcp.WithOutputSchema[ApplicationResponse](),
	), mcp.NewStructuredToolHandler(s.handleNext))

	s.mcpServer.AddTool(mcp.NewTool("previous_step",
		mcp.WithDescription("Go back one step. Going back from the first step leaves the flow and writes nothing."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
		mcp.WithOutputSchema[BackResponse](),
	), mcp.NewStructuredToolHandler(s.handleBack))

	s.mcpServer.AddTool(mcp.NewTool("submit_application",
		mcp.WithDescription("Confirm the review step. Submitting twice has no further effect."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
		mcp.WithOutputSchema[ApplicationResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (ListResponse, error) {
	summaries, err := s.wizard.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	resp := ListResponse{Applications: make([]SummaryResponse, 0, len(summaries))}
	for _, sum := range summaries {
		resp.Applications = append(resp.Applications, SummaryResponse{
			ID:          sum.ID,
			CurrentStep: sum.CurrentStep.String(),
			Submitted:   sum.Submitted,
		})
	}
	return resp, nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (ApplicationResponse, error) {
	rec, err := s.wizard.Start(ctx)
	if err != nil {
		return ApplicationResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return toResponse(rec), nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args idArgs) (ApplicationResponse, error) {
	rec, err := s.wizard.Load(ctx, args.ID)
	if err != nil {
		return ApplicationResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return toResponse(rec), nil
}

func (s *Server) handleSaveAnswer(ctx context.Context, request mcp.CallToolRequest, args answerArgs) (ApplicationResponse, error) {
	field, err := domain.ParseField(args.Field)
	if err != nil {
		return ApplicationResponse{}, err
	}
	rec, err := s.wizard.SaveField(ctx, args.ID, field, splitValues(args.Values))
	if err != nil {
		s.logger.Warn("MCP save_answer rejected", "application_id", args.ID, "field", args.Field, "error", err)
		return ApplicationResponse{}, fmt.Errorf("save failed: %w", err)
	}
	return toResponse(rec), nil
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest, args stepArgs) (ApplicationResponse, error) {
	step, err := domain.ParseStep(args.Step)
	if err != nil {
		return ApplicationResponse{}, err
	}
	rec, err := s.wizard.CommitStep(ctx, args.ID, step, splitValues(args.Values))
	if err != nil {
		s.logger.Warn("MCP next_step rejected", "application_id", args.ID, "step", args.Step, "error", err)
		return ApplicationResponse{}, fmt.Errorf("next failed: %w", err)
	}
	return toResponse(rec), nil
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args idArgs) (BackResponse, error) {
	ret, err := s.wizard.Back(ctx, args.ID)
	if err != nil {
		return BackResponse{}, fmt.Errorf("back failed: %w", err)
	}
	prev, ok := ret.Step()
	if !ok {
		return BackResponse{Exited: true}, nil
	}
	return BackResponse{Step: prev.String()}, nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args idArgs) (ApplicationResponse, error) {
	rec, err := s.wizard.Submit(ctx, args.ID)
	if err != nil {
		return ApplicationResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	return toResponse(rec), nil
}

func (s *Server) registerResources() {
	// EXPOSE: intake://applications
	s.mcpServer.AddResource(mcp.NewResource("intake://applications", "Applications",
		mcp.WithResourceDescription("Landing view of every application"),
		mcp.WithMIMEType("application/json"),
	), s.readApplications)
}

func (s *Server) readApplications(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.handleList(ctx, mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode applications: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "intake://applications",
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func toResponse(rec domain.Record) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                    rec.ID,
		CurrentStep:           rec.CurrentStep.String(),
		Submitted:             rec.Submitted,
		AgeBracket:            rec.Values(domain.FieldAgeBracket),
		GenderIdentity:        rec.Values(domain.FieldGenderIdentity),
		CompetencePreferences: rec.Values(domain.FieldCompetencePreferences),
	}
	if p, err := domain.ProgressOf(rec.CurrentStep); err == nil {
		resp.Progress = p.String()
	}
	if field, ok := rec.CurrentStep.Field(); ok && !rec.Submitted {
		resp.Field = field.String()
		resp.Options = field.Options()
		resp.Multiple = field.Multiple()
	}
	return resp
}

// splitValues parses the comma separated form used by the tools.
func splitValues(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func fieldNames() []string {
	var names []string
	for _, f := range domain.Fields() {
		names = append(names, f.String())
	}
	return names
}
