package agentcore

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeEnv is an in-memory ExecutionEnvironment for tests.
type fakeEnv struct {
	files    map[string]string
	execFn   func(command string) (*ExecResult, error)
	writeErr error
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{files: make(map[string]string)}
}

func (e *fakeEnv) ReadFile(p string) (string, error) {
	content, ok := e.files[p]
	if !ok {
		return "", fmt.Errorf("no such file: %s", p)
	}
	return content, nil
}

func (e *fakeEnv) WriteFile(p string, content string) error {
	if e.writeErr != nil {
		return e.writeErr
	}
	e.files[p] = content
	return nil
}

func (e *fakeEnv) FileExists(p string) bool {
	_, ok := e.files[p]
	return ok
}

func (e *fakeEnv) ListDirectory(p string) ([]DirEntry, error) {
	var entries []DirEntry
	for name, content := range e.files {
		if path.Dir(name) == strings.TrimSuffix(p, "/") || p == "." {
			entries = append(entries, DirEntry{Name: path.Base(name), Size: int64(len(content))})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (e *fakeEnv) ExecCommand(_ context.Context, command string, _ int, _ string) (*ExecResult, error) {
	if e.execFn != nil {
		return e.execFn(command)
	}
	return &ExecResult{Stdout: "ok"}, nil
}

func (e *fakeEnv) Grep(_ context.Context, pattern string, _ string, _ GrepOptions) (string, error) {
	var sb strings.Builder
	for name, content := range e.files {
		for i, line := range strings.Split(content, "\n") {
			if strings.Contains(line, pattern) {
				fmt.Fprintf(&sb, "%s:%d:%s\n", name, i+1, line)
			}
		}
	}
	return sb.String(), nil
}

func (e *fakeEnv) Glob(pattern string, _ string) ([]string, error) {
	var matches []string
	for name := range e.files {
		if ok, _ := path.Match(pattern, name); ok {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (e *fakeEnv) WorkingDirectory() string { return "/work" }
