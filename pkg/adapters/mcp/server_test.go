package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	engine, err := intake.New(store)
	require.NoError(t, err)
	return NewServer(engine, nil), store
}

func TestTools_FullFlow(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	started, err := s.handleStart(ctx, req, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "age", started.CurrentStep)
	assert.Equal(t, "step 1 of 4", started.Progress)
	assert.Equal(t, "age_bracket", started.Field)
	assert.Equal(t, domain.FieldAgeBracket.Options(), started.Options)
	id := started.ID

	resp, err := s.handleNext(ctx, req, stepArgs{ID: id, Step: "age", Values: "46-55"})
	require.NoError(t, err)
	assert.Equal(t, "gender", resp.CurrentStep)

	resp, err = s.handleNext(ctx, req, stepArgs{ID: id, Step: "gender", Values: "nonbinary"})
	require.NoError(t, err)
	assert.Equal(t, "preferences", resp.CurrentStep)
	assert.True(t, resp.Multiple)

	resp, err = s.handleNext(ctx, req, stepArgs{ID: id, Step: "preferences", Values: "rbts, lgbtq,,rbts"})
	require.NoError(t, err)
	assert.Equal(t, "review", resp.CurrentStep)
	assert.Empty(t, resp.Field)
	assert.Equal(t, []string{"lgbtq", "rbts"}, resp.CompetencePreferences)

	resp, err = s.handleSubmit(ctx, req, idArgs{ID: id})
	require.NoError(t, err)
	assert.True(t, resp.Submitted)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.IsComplete())
	require.NotNil(t, rec.GenderIdentity)
	assert.Equal(t, domain.GenderNonbinary, *rec.GenderIdentity)
}

func TestTools_SaveAnswer(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	started, err := s.handleStart(ctx, req, struct{}{})
	require.NoError(t, err)

	resp, err := s.handleSaveAnswer(ctx, req, answerArgs{ID: started.ID, Field: "age_bracket", Values: "18-25"})
	require.NoError(t, err)
	assert.Equal(t, []string{"18-25"}, resp.AgeBracket)
	assert.Equal(t, "age", resp.CurrentStep)

	_, err = s.handleSaveAnswer(ctx, req, answerArgs{ID: started.ID, Field: "gender_identity", Values: "man"})
	assert.ErrorIs(t, err, domain.ErrStepNotReached)

	_, err = s.handleSaveAnswer(ctx, req, answerArgs{ID: started.ID, Field: "shoe_size", Values: "42"})
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)

	_, err = s.handleSaveAnswer(ctx, req, answerArgs{ID: started.ID, Field: "age_bracket", Values: "18-25,26-35"})
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)
}

func TestTools_Guards(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	started, err := s.handleStart(ctx, req, struct{}{})
	require.NoError(t, err)

	_, err = s.handleNext(ctx, req, stepArgs{ID: started.ID, Step: "gender", Values: "man"})
	assert.ErrorIs(t, err, domain.ErrStepMismatch)

	_, err = s.handleNext(ctx, req, stepArgs{ID: started.ID, Step: "payment"})
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	_, err = s.handleSubmit(ctx, req, idArgs{ID: started.ID})
	assert.ErrorIs(t, err, domain.ErrStepMismatch)

	_, err = s.handleGet(ctx, req, idArgs{ID: "404"})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestTools_Back(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	started, err := s.handleStart(ctx, req, struct{}{})
	require.NoError(t, err)
	_, err = s.handleNext(ctx, req, stepArgs{ID: started.ID, Step: "age", Values: "56-65"})
	require.NoError(t, err)

	back, err := s.handleBack(ctx, req, idArgs{ID: started.ID})
	require.NoError(t, err)
	assert.Equal(t, BackResponse{Step: "age"}, back)

	back, err = s.handleBack(ctx, req, idArgs{ID: started.ID})
	require.NoError(t, err)
	assert.Equal(t, BackResponse{Exited: true}, back)

	rec, err := store.Get(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAge, rec.CurrentStep)
	require.NotNil(t, rec.AgeBracket)
}

func TestTools_List(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	first, _ := store.Create(ctx)
	second, _ := store.Create(ctx)
	require.NoError(t, store.Patch(ctx, second, domain.Patch{Step: domain.Ptr(domain.StepReview), Submit: true}))

	list, err := s.handleList(ctx, mcp.CallToolRequest{}, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, ListResponse{Applications: []SummaryResponse{
		{ID: first, CurrentStep: "age"},
		{ID: second, CurrentStep: "review", Submitted: true},
	}}, list)
}

func TestResources_Applications(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	id, _ := store.Create(ctx)

	contents, err := s.readApplications(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "intake://applications", text.URI)
	assert.Equal(t, "application/json", text.MIMEType)

	var list ListResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &list))
	assert.Equal(t, []SummaryResponse{{ID: id, CurrentStep: "age"}}, list.Applications)
}

func TestMessages_ToolsAreRegistered(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	initResp := s.mcpServer.HandleMessage(ctx, json.RawMessage(`{
		"jsonrpc": "2.0", "id": 1, "method": "initialize",
		"params": {"protocolVersion": "2024-11-05", "capabilities": {}, "clientInfo": {"name": "test", "version": "0"}}
	}`))
	require.NotNil(t, initResp)

	resp := s.mcpServer.HandleMessage(ctx, json.RawMessage(`{"jsonrpc": "2.0", "id": 2, "method": "tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{
		"list_applications",
		"start_application",
		"get_application",
		"save_answer",
		"next_step",
		"previous_step",
		"submit_application",
	} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}

func TestSplitValues(t *testing.T) {
	assert.Nil(t, splitValues(""))
	assert.Nil(t, splitValues(" , "))
	assert.Equal(t, []string{"a", "b"}, splitValues("a, b,"))
}
