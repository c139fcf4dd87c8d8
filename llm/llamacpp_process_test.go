//go:build !windows

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fakeServerModeEnv = "COST_TRACKER_FAKE_LLAMA_SERVER"
	fakeServerPidEnv  = "COST_TRACKER_FAKE_LLAMA_PIDFILE"
)

// TestMain lets the test binary stand in for llama-server when fakeServerModeEnv is set.
func TestMain(m *testing.M) {
	if mode := os.Getenv(fakeServerModeEnv); mode != "" {
		runFakeLlamaServer(mode, os.Args[1:])
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func runFakeLlamaServer(mode string, args []string) {
	if pidFile := os.Getenv(fakeServerPidEnv); pidFile != "" {
		os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0o644)
	}

	port := ""
	for i, arg := range args {
		if arg == "--port" && i+1 < len(args) {
			port = args[i+1]
		}
	}

	switch mode {
	case "exit":
		os.Exit(3)
	case "hang":
		time.Sleep(time.Minute)
	case "healthy":
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok"}`))
		})
		mux.HandleFunc("/v1/completions", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(CompletionResponse{Choices: []CompletionChoice{{Text: "Delete unattached disks.", FinishReason: "stop"}}})
		})
		http.ListenAndServe("127.0.0.1:"+port, mux)
	}
}

func newFakeServerBackend(t *testing.T, mode string) (*LlamaCppBackend, string) {
	t.Helper()
	executable, err := os.Executable()
	require.NoError(t, err)

	pidFile := filepath.Join(t.TempDir(), "llama-server.pid")
	t.Setenv(fakeServerModeEnv, mode)
	t.Setenv(fakeServerPidEnv, pidFile)

	llama := newTestLlamaBackend(writeModelFile(t, "GGUFdata"), "")
	llama.ServerPath = executable
	llama.LoadTimeout = 10 * time.Second
	return llama, pidFile
}

func readFakeServerPid(t *testing.T, pidFile string) int {
	t.Helper()
	var pid int
	require.Eventually(t, func() bool {
		content, err := os.ReadFile(pidFile)
		if err != nil {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(content)))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	return pid
}

func assertProcessGone(t *testing.T, pid int) {
	t.Helper()
	assert.ErrorIs(t, syscall.Kill(pid, 0), syscall.ESRCH, "pid %d should be reaped", pid)
}

func TestFreePort(t *testing.T) {
	port, err := freePort()

	require.NoError(t, err)
	assert.Greater(t, port, 0)
}

func TestLlamaCppBackend_StartedServer_Lifecycle(t *testing.T) {
	llama, _ := newFakeServerBackend(t, "healthy")

	backend, err := llama.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, llama.process)
	assert.True(t, strings.HasPrefix(llama.ServerURL, "http://127.0.0.1:"))

	pid := llama.process.Process.Pid
	pgid, err := syscall.Getpgid(pid)
	require.NoError(t, err)
	assert.Equal(t, pid, pgid, "llama-server should lead its own process group")
	assert.NotEqual(t, syscall.Getpgrp(), pgid)

	response, err := backend.Generate(context.Background(), "analyze")
	require.NoError(t, err)
	assert.Equal(t, "Delete unattached disks.", response)

	require.NoError(t, backend.Close())
	assert.Nil(t, llama.process)
	assertProcessGone(t, pid)
}

func TestLlamaCppBackend_StartedServer_ExitsDuringLoad(t *testing.T) {
	llama, pidFile := newFakeServerBackend(t, "exit")

	_, err := llama.Probe(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited while loading")
	assert.Nil(t, llama.process)
	assertProcessGone(t, readFakeServerPid(t, pidFile))
}

func TestLlamaCppBackend_StartedServer_LoadTimeoutKillsChild(t *testing.T) {
	llama, pidFile := newFakeServerBackend(t, "hang")
	llama.LoadTimeout = 1500 * time.Millisecond

	_, err := llama.Probe(context.Background())

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, llama.process)
	assertProcessGone(t, readFakeServerPid(t, pidFile))
}
