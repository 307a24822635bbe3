package toolcall

import "testing"

type fakeRegistry map[string]bool

func (f fakeRegistry) HasTool(name string) bool { return f[name] }

func mkCall(id, name string, args map[string]any) ToolCall {
	return ToolCall{ID: id, Function: FunctionCall{Name: name, Arguments: args}}
}

func TestFilterValidToolCalls(t *testing.T) {
	t.Run("drops parser noise without errors", func(t *testing.T) {
		calls := []ToolCall{
			mkCall("", "t", nil),
			mkCall("c1", "", nil),
			mkCall("c2", "t", nil),
		}
		valid, errs := FilterValidToolCalls(calls, nil)
		if len(valid) != 1 || valid[0].ID != "c2" {
			t.Fatalf("expected only c2 to survive, got %v", valid)
		}
		if len(errs) != 0 {
			t.Errorf("expected no error results, got %v", errs)
		}
	})

	t.Run("whitespace-only name is noise", func(t *testing.T) {
		valid, errs := FilterValidToolCalls([]ToolCall{mkCall("c1", "  \t", nil)}, nil)
		if len(valid) != 0 || len(errs) != 0 {
			t.Errorf("expected empty output, got valid=%v errs=%v", valid, errs)
		}
	})

	t.Run("unknown tool moves to errors", func(t *testing.T) {
		reg := fakeRegistry{"known": true}
		calls := []ToolCall{
			mkCall("c1", "known", nil),
			mkCall("c2", "missing", nil),
		}
		valid, errs := FilterValidToolCalls(calls, reg)
		if len(valid) != 1 || valid[0].ID != "c1" {
			t.Fatalf("expected c1 to survive, got %v", valid)
		}
		if len(errs) != 1 {
			t.Fatalf("expected 1 error result, got %d", len(errs))
		}
		if errs[0].ToolCallID != "c2" || errs[0].Content != "missing does not exist" {
			t.Errorf("unexpected error result: %+v", errs[0])
		}
		if !errs[0].IsError {
			t.Error("expected error result to be flagged as error")
		}
	})

	t.Run("nil registry skips existence check", func(t *testing.T) {
		valid, errs := FilterValidToolCalls([]ToolCall{mkCall("c1", "anything", nil)}, nil)
		if len(valid) != 1 || len(errs) != 0 {
			t.Errorf("expected call to pass through, got valid=%v errs=%v", valid, errs)
		}
	})

	t.Run("duplicate ids dropped silently", func(t *testing.T) {
		calls := []ToolCall{
			mkCall("c1", "a", map[string]any{"x": 1}),
			mkCall("c1", "b", map[string]any{"y": 2}),
		}
		valid, errs := FilterValidToolCalls(calls, nil)
		if len(valid) != 1 || valid[0].Function.Name != "a" {
			t.Fatalf("expected first occurrence to win, got %v", valid)
		}
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("structural duplicates dropped across ids", func(t *testing.T) {
		args := map[string]any{"path": "a.go", "offset": 1}
		calls := []ToolCall{
			mkCall("c1", "read_file", args),
			mkCall("c2", "read_file", map[string]any{"offset": 1, "path": "a.go"}),
		}
		valid, _ := FilterValidToolCalls(calls, nil)
		if len(valid) != 1 || valid[0].ID != "c1" {
			t.Fatalf("expected key order not to defeat dedup, got %v", valid)
		}
	})

	t.Run("same name different arguments both kept", func(t *testing.T) {
		calls := []ToolCall{
			mkCall("c1", "read_file", map[string]any{"path": "a.go"}),
			mkCall("c2", "read_file", map[string]any{"path": "b.go"}),
		}
		valid, _ := FilterValidToolCalls(calls, nil)
		if len(valid) != 2 {
			t.Fatalf("expected both calls to survive, got %v", valid)
		}
	})

	t.Run("survivors keep first-seen order", func(t *testing.T) {
		calls := []ToolCall{
			mkCall("c1", "a", nil),
			mkCall("c2", "b", map[string]any{"k": 1}),
			mkCall("c3", "c", map[string]any{"k": 2}),
		}
		valid, _ := FilterValidToolCalls(calls, nil)
		want := []string{"c1", "c2", "c3"}
		for i, id := range want {
			if valid[i].ID != id {
				t.Fatalf("order broken at %d: got %v", i, valid)
			}
		}
	})
}

func TestCanonicalSignature(t *testing.T) {
	a := CanonicalSignature("t", map[string]any{"b": 2, "a": 1})
	b := CanonicalSignature("t", map[string]any{"a": 1, "b": 2})
	if a != b {
		t.Errorf("signature not canonical: %q vs %q", a, b)
	}
	c := CanonicalSignature("t", map[string]any{"a": 2, "b": 2})
	if a == c {
		t.Error("different arguments produced identical signature")
	}
}
