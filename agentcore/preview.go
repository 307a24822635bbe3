package agentcore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/martinemde/nanocoder/toolcall"
)

// Preview describes a pending tool call for the confirmation prompt. Diff is
// empty for calls that do not modify file content.
type Preview struct {
	Title  string
	Detail string
	Diff   string
}

// BuildPreview renders a human-readable preview of what a tool call would do.
// It performs reads only; nothing is written. Preview construction failures
// degrade to an argument dump rather than blocking the confirmation flow.
func BuildPreview(env ExecutionEnvironment, call toolcall.ToolCall) Preview {
	name := call.Function.Name
	args := call.Function.Arguments

	switch name {
	case "execute_command":
		if cmd, ok := getString(args, "command"); ok {
			return Preview{Title: "Run command", Detail: cmd}
		}
	case SwitchModeTool:
		if mode, ok := getString(args, "mode"); ok {
			return Preview{Title: "Switch mode", Detail: fmt.Sprintf("Change the session mode to %s", mode)}
		}
	case "write_file":
		return previewWrite(env, args)
	case "edit_file":
		return previewEdit(env, args)
	}

	return Preview{Title: name, Detail: formatArgs(args)}
}

func previewWrite(env ExecutionEnvironment, args map[string]any) Preview {
	path, _ := getString(args, "path")
	content, _ := getString(args, "content")

	if !env.FileExists(path) {
		return Preview{
			Title:  "Create file",
			Detail: fmt.Sprintf("%s (%d bytes)", path, len(content)),
			Diff:   renderDiff("", content),
		}
	}

	old, err := env.ReadFile(path)
	if err != nil {
		return Preview{Title: "Overwrite file", Detail: path}
	}
	return Preview{
		Title:  "Overwrite file",
		Detail: path,
		Diff:   renderDiff(old, content),
	}
}

func previewEdit(env ExecutionEnvironment, args map[string]any) Preview {
	editArgs, err := ParseEditArgs(args)
	if err != nil {
		return Preview{Title: "Edit file", Detail: formatArgs(args)}
	}

	title := fmt.Sprintf("Edit file (%s)", editArgs.Mode)
	if !env.FileExists(editArgs.Path) {
		return Preview{Title: title, Detail: fmt.Sprintf("%s (file not found)", editArgs.Path)}
	}
	old, err := env.ReadFile(editArgs.Path)
	if err != nil {
		return Preview{Title: title, Detail: editArgs.Path}
	}

	outcome, err := ApplyEdit(old, editArgs)
	if err != nil {
		return Preview{Title: title, Detail: fmt.Sprintf("%s: %v", editArgs.Path, err)}
	}
	return Preview{
		Title:  title,
		Detail: fmt.Sprintf("%s in %s", outcome.Summary, editArgs.Path),
		Diff:   renderDiff(old, outcome.Content),
	}
}

// renderDiff produces a line-oriented unified-style diff of the two contents.
func renderDiff(old, new string) string {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatArgs(args map[string]any) string {
	b, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}
