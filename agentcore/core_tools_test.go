package agentcore

import (
	"context"
	"strings"
	"testing"
)

func coreToolsFixture() (*ToolRegistry, *fakeEnv) {
	reg := NewToolRegistry()
	RegisterCoreTools(reg, 10000, 600000)
	return reg, newFakeEnv()
}

func TestCoreToolsReadOnlyMarkings(t *testing.T) {
	reg, _ := coreToolsFixture()

	readOnly := []string{"read_file", "grep", "glob", "list_directory"}
	mutating := []string{"write_file", "edit_file", "execute_command"}

	for _, name := range readOnly {
		if !reg.IsReadOnly(name) {
			t.Errorf("%s should be marked read-only", name)
		}
	}
	for _, name := range mutating {
		if reg.IsReadOnly(name) {
			t.Errorf("%s must not be marked read-only", name)
		}
	}
}

func TestReadFileTool(t *testing.T) {
	reg, env := coreToolsFixture()
	env.files["a.txt"] = "alpha\nbeta\ngamma"

	out, err := reg.Invoke(context.Background(), "read_file", map[string]any{"path": "a.txt"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 | alpha") || !strings.Contains(out, "3 | gamma") {
		t.Errorf("expected line-numbered content, got %q", out)
	}
}

func TestReadFileToolOffsetAndLimit(t *testing.T) {
	reg, env := coreToolsFixture()
	env.files["a.txt"] = "l1\nl2\nl3\nl4\nl5"

	out, err := reg.Invoke(context.Background(), "read_file",
		map[string]any{"path": "a.txt", "offset": float64(2), "limit": float64(2)}, env)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "l1") || strings.Contains(out, "l4") {
		t.Errorf("offset/limit window not respected: %q", out)
	}
	if !strings.Contains(out, "2 | l2") || !strings.Contains(out, "3 | l3") {
		t.Errorf("window content missing: %q", out)
	}
}

func TestReadFileToolMissing(t *testing.T) {
	reg, env := coreToolsFixture()
	_, err := reg.Invoke(context.Background(), "read_file", map[string]any{"path": "nope.txt"}, env)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "file not found") {
		t.Errorf("error = %q", err)
	}
}

func TestWriteFileTool(t *testing.T) {
	reg, env := coreToolsFixture()

	out, err := reg.Invoke(context.Background(), "write_file",
		map[string]any{"path": "new.txt", "content": "hello"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if env.files["new.txt"] != "hello" {
		t.Errorf("file content = %q", env.files["new.txt"])
	}
	if !strings.Contains(out, "5 bytes") {
		t.Errorf("output should report the byte count, got %q", out)
	}
}

func TestEditFileToolEndToEnd(t *testing.T) {
	reg, env := coreToolsFixture()
	env.files["f.txt"] = "a\nb\nc"

	out, err := reg.Invoke(context.Background(), "edit_file", map[string]any{
		"path": "f.txt", "mode": "delete", "line_number": float64(2),
	}, env)
	if err != nil {
		t.Fatal(err)
	}
	if env.files["f.txt"] != "a\nc" {
		t.Errorf("file = %q after delete", env.files["f.txt"])
	}
	if !strings.Contains(out, "Deleted lines 2-2") {
		t.Errorf("output = %q", out)
	}
}

func TestEditFileToolRejectsBadArgs(t *testing.T) {
	reg, env := coreToolsFixture()
	env.files["f.txt"] = "a"

	_, err := reg.Invoke(context.Background(), "edit_file", map[string]any{
		"path": "f.txt", "mode": "insert", "line_number": 1.5, "content": "x",
	}, env)
	if err == nil {
		t.Fatal("fractional line_number should be rejected")
	}
}

func TestExecuteCommandTool(t *testing.T) {
	reg, env := coreToolsFixture()
	env.execFn = func(command string) (*ExecResult, error) {
		return &ExecResult{Stdout: "out", Stderr: "err", ExitCode: 2}, nil
	}

	out, err := reg.Invoke(context.Background(), "execute_command",
		map[string]any{"command": "false"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "out") || !strings.Contains(out, "err") {
		t.Errorf("merged output missing streams: %q", out)
	}
	if !strings.Contains(out, "[Exit code: 2]") {
		t.Errorf("nonzero exit code should be appended: %q", out)
	}
}

func TestExecuteCommandToolTimeoutNotice(t *testing.T) {
	reg, env := coreToolsFixture()
	env.execFn = func(command string) (*ExecResult, error) {
		return &ExecResult{Stdout: "partial", TimedOut: true, ExitCode: -1}, nil
	}

	out, err := reg.Invoke(context.Background(), "execute_command",
		map[string]any{"command": "sleep 99"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "timed out") {
		t.Errorf("timeout notice missing: %q", out)
	}
	if strings.Contains(out, "Exit code") {
		t.Errorf("timeout output should not also report an exit code: %q", out)
	}
}

func TestGlobToolNoMatches(t *testing.T) {
	reg, env := coreToolsFixture()
	out, err := reg.Invoke(context.Background(), "glob", map[string]any{"pattern": "*.rs"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No files matched") {
		t.Errorf("output = %q", out)
	}
}

func TestListDirectoryTool(t *testing.T) {
	reg, env := coreToolsFixture()
	env.files["a.txt"] = "xx"
	env.files["b.txt"] = "yyy"

	out, err := reg.Invoke(context.Background(), "list_directory", map[string]any{"path": "."}, env)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "a.txt (2 bytes)") || !strings.Contains(out, "b.txt (3 bytes)") {
		t.Errorf("output = %q", out)
	}
}
