package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func TestVersionCmd(t *testing.T) {
	testboil.FailTestIfDiff(t, execute(t, "version"), "rakuten-mcp dev\n")
}

func TestToolsCmd(t *testing.T) {
	out := execute(t, "tools")
	testboil.AssertStringContains(t, out, "NAME")
	testboil.AssertStringContains(t, out, "hello_world")
	testboil.AssertStringContains(t, out, "rakuten_search")
	testboil.AssertStringContains(t, out, "keyword,genre_id?,price_max?,price_min?,sort?")
}

func TestRunServe(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte("RAKUTEN_APPLICATION_ID=your_app_id\n"), 0644); err != nil {
		t.Fatal(err)
	}

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`garbage`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"hello_world","arguments":{"name":"Ada"}}}`,
	}, "\n") + "\n")
	var out bytes.Buffer

	if err := runServe(context.Background(), serveFlags{envFile: envFile}, in, &out); err != nil {
		t.Fatalf("runServe failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %d: %q", len(lines), out.String())
	}
	testboil.AssertStringContains(t, lines[0], `"protocolVersion":"2024-11-05"`)
	testboil.AssertStringContains(t, lines[1], `Hello, Ada! Your MCP server is working perfectly.`)
}

func TestRunServeMissingEnvFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")
	err := runServe(context.Background(), serveFlags{envFile: missing}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for missing env file")
	}
}

func TestRunServeStopsOnCancel(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, nil, 0644); err != nil {
		t.Fatal(err)
	}

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runServe(ctx, serveFlags{envFile: envFile}, pr, io.Discard) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("runServe should return nil after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}
}
