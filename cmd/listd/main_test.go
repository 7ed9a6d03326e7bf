package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRootHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "console", "remind", "commands", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestCommandsPrintsDefinitions(t *testing.T) {
	out, err := execute(t, "commands")
	require.NoError(t, err)

	var defs []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &defs))
	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"add", "list", "check", "edit", "clear", "help"}, names)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "listd dev\n", out)
}

func TestRemindDryRun(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")

	store, err := storage.OpenDocumentStore(dataPath)
	require.NoError(t, err)
	rec, _, err := store.GetOrCreateChannel(t.Context(), "c1")
	require.NoError(t, err)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	it := model.NewItem("return library books", "u1", time.Now())
	it.DueDate = &yesterday
	rec.List.Add(it)
	require.NoError(t, store.SaveChannel(t.Context(), "c1", rec))
	require.NoError(t, store.Close())

	cfgPath := filepath.Join(dir, "listd.yaml")
	body := fmt.Sprintf("storage:\n  path: %s\nlogging:\n  output: discard\n", dataPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	out, err := execute(t, "remind", "--dry-run", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "#c1")
	assert.Contains(t, out, "library")
}

func TestServeNeedsToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("LISTD_DISCORD_TOKEN", "")
	t.Setenv("LISTD_STORAGE_PATH", filepath.Join(t.TempDir(), "data.json"))
	t.Setenv("LISTD_LOGGING_OUTPUT", "discard")

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token")
}
