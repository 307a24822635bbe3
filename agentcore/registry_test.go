package agentcore

import (
	"context"
	"strings"
	"testing"

	"github.com/martinemde/nanocoder/toolcall"
)

func TestRegistryRegisterAndDispatch(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(RegisteredTool{
		Definition: toolcall.ToolDefinition{Name: "echo"},
		ReadOnly:   true,
		Handler: func(_ context.Context, args map[string]any, _ ExecutionEnvironment) (string, error) {
			s, _ := getString(args, "text")
			return s, nil
		},
	})

	if !reg.HasTool("echo") {
		t.Fatal("expected echo to be registered")
	}
	if !reg.IsReadOnly("echo") {
		t.Error("echo should be read-only")
	}
	if reg.IsReadOnly("missing") {
		t.Error("unknown tools must not report read-only")
	}
	if reg.Count() != 1 {
		t.Errorf("Count = %d, want 1", reg.Count())
	}

	out, err := reg.Invoke(context.Background(), "echo", map[string]any{"text": "hi"}, newFakeEnv())
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if out != "hi" {
		t.Errorf("output = %q, want %q", out, "hi")
	}
}

func TestRegistryInvokeUnknownTool(t *testing.T) {
	reg := NewToolRegistry()
	_, err := reg.Invoke(context.Background(), "ghost", nil, newFakeEnv())
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %q, should say the tool does not exist", err)
	}
}

func TestRegistryReplaceKeepsLatest(t *testing.T) {
	reg := NewToolRegistry()
	for _, out := range []string{"first", "second"} {
		out := out
		reg.Register(RegisteredTool{
			Definition: toolcall.ToolDefinition{Name: "tool"},
			Handler: func(_ context.Context, _ map[string]any, _ ExecutionEnvironment) (string, error) {
				return out, nil
			},
		})
	}
	got, err := reg.Invoke(context.Background(), "tool", nil, newFakeEnv())
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" {
		t.Errorf("got %q, want the replacement handler's output", got)
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int
		wantOK bool
	}{
		{"int", 7, 7, true},
		{"integral float64", float64(3), 3, true},
		{"fractional float64", 2.5, 0, false},
		{"string", "4", 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := getInt(map[string]any{"k": tt.value}, "k")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("getInt(%v) = (%d, %v), want (%d, %v)", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := getInt(map[string]any{}, "absent"); ok {
		t.Error("absent key should report not ok")
	}
}
