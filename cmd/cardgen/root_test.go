package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/phrazzld/scry-relay/internal/testutils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cliCardPlain = `{"front":"What is a channel?","back":"A typed conduit between goroutines.","code":""}`
	cliCardCode  = `{"front":"How do you close one?","back":"Call close.","code":"close(ch)"}`
)

type captured struct {
	Topic   string   `json:"topic"`
	Context []string `json:"context"`
}

func fakeRelay(t *testing.T, got *captured) string {
	t.Helper()
	server := testutils.CreateTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		_, _ = w.Write([]byte(cliCardPlain + "\n" + cliCardCode + "\n"))
	}))
	return server.URL
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(viper.New())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCardgen_PrintsCards(t *testing.T) {
	var got captured
	url := fakeRelay(t, &got)

	stdout, stderr, err := execute(t, "--server", url, "--context", "goroutines", "--context", "select", "Go", "channels")

	require.NoError(t, err)
	assert.Equal(t, "Go channels", got.Topic)
	assert.Equal(t, []string{"goroutines", "select"}, got.Context)
	assert.Equal(t,
		"Q: What is a channel?\nA: A typed conduit between goroutines.\n\n"+
			"Q: How do you close one?\nA: Call close.\n```\nclose(ch)\n```\n\n",
		stdout)
	assert.Equal(t, "2 cards\n", stderr)
}

func TestCardgen_JSONOutput(t *testing.T) {
	var got captured
	url := fakeRelay(t, &got)

	stdout, _, err := execute(t, "--server", url, "--json", "Go channels")

	require.NoError(t, err)
	assert.Equal(t, cliCardPlain+"\n"+cliCardCode+"\n", stdout)
}

func TestCardgen_ServerFromEnv(t *testing.T) {
	var got captured
	t.Setenv("CARDGEN_SERVER", fakeRelay(t, &got))

	_, _, err := execute(t, "Go channels")

	require.NoError(t, err)
	assert.Equal(t, "Go channels", got.Topic)
}

func TestCardgen_RequiresTopic(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)
}

func TestCardgen_ServerError(t *testing.T) {
	server := testutils.CreateTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Flashcard generation is not configured"}`))
	}))

	_, _, err := execute(t, "--server", server.URL, "Go")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flashcard generation is not configured")
}
