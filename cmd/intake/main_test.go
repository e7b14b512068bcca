package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	intakesql "github.com/aretw0/intake/pkg/adapters/sql"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the root command against a SQLite file in a scratch directory.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--store", "sqlite", "--sqlite-path", dbPath, "--log-level", "error"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T) (string, string, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "intake.db")
	store, err := intakesql.Open(ctx, intakesql.SQLite, path)
	require.NoError(t, err)
	defer store.Close()

	open, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Patch(ctx, open, domain.Patch{
		Step:       domain.Ptr(domain.StepGender),
		AgeBracket: domain.Ptr(domain.Age36To45),
	}))
	done, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Patch(ctx, done, domain.Patch{Step: domain.Ptr(domain.StepReview), Submit: true}))
	return path, open, done
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "intake version "))
}

func TestListCommand_JSON(t *testing.T) {
	path, open, done := seed(t)

	out, err := run(t, path, "list", "--output", "json")
	require.NoError(t, err)

	var items []listItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []listItem{
		{ID: open, CurrentStep: "gender", Progress: "step 2 of 4"},
		{ID: done, CurrentStep: "review", Progress: "step 4 of 4", Submitted: true},
	}, items)
}

func TestReviewCommand(t *testing.T) {
	path, open, _ := seed(t)

	out, err := run(t, path, "review", open)
	require.NoError(t, err)
	assert.Contains(t, out, "# Application "+open)
	assert.Contains(t, out, "- 36-45")

	_, err = run(t, path, "review", "999")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestFlowCommand(t *testing.T) {
	path, open, _ := seed(t)

	out, err := run(t, path, "flow", open)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class step_gender current;")
}

func TestWriteList(t *testing.T) {
	summaries := []domain.Summary{
		{ID: "1", CurrentStep: domain.StepAge},
		{ID: "2", CurrentStep: domain.StepReview, Submitted: true},
	}

	var table bytes.Buffer
	require.NoError(t, writeList(&table, "table", summaries))
	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "STEP", "PROGRESS", "STATUS"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "step 1 of 4")
	assert.Contains(t, lines[2], "submitted")

	var doc bytes.Buffer
	require.NoError(t, writeList(&doc, "yaml", summaries))
	var items []listItem
	require.NoError(t, yaml.Unmarshal(doc.Bytes(), &items))
	assert.Len(t, items, 2)
	assert.True(t, items[1].Submitted)

	assert.Error(t, writeList(&bytes.Buffer{}, "xml", summaries))
}
