package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath string
	statePath  string
	baseURL    string
}

// setupCLITestEnv points the CLI at a fake API server and a config file in a
// temp HOME so commands never touch the real filesystem or network.
func setupCLITestEnv(t *testing.T, handler http.Handler) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	if handler == nil {
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"images": []}`))
		})
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	statePath := filepath.Join(base, "out.json")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[webcam]
source = "ys-bbsn"
base_url = %q
fetch_count = 2

[paths]
state_file = %q
data_dir = %q
log_dir = %q

[monitor]
poll_interval = 60

[history]
enabled = false

[logging]
format = "json"
level = "error"
`, server.URL, statePath, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		configPath: configPath,
		statePath:  statePath,
		baseURL:    server.URL,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
