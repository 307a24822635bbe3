package agentcore

import (
	"context"
	"fmt"
	"strings"

	"github.com/martinemde/nanocoder/toolcall"
)

// RegisterCoreTools registers the built-in tool set on a registry. The
// handlers delegate to the ExecutionEnvironment passed at invocation time.
func RegisterCoreTools(reg *ToolRegistry, defaultTimeoutMs, maxTimeoutMs int) {
	registerReadFile(reg)
	registerListDirectory(reg)
	registerGrep(reg)
	registerGlob(reg)
	registerWriteFile(reg)
	registerEditFile(reg)
	registerExecuteCommand(reg, defaultTimeoutMs, maxTimeoutMs)
}

func registerReadFile(reg *ToolRegistry) {
	reg.Register(RegisteredTool{
		ReadOnly: true,
		Definition: toolcall.ToolDefinition{
			Name:        "read_file",
			Description: "Read a file from the filesystem. Returns line-numbered content.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path to the file to read.",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "1-based line number to start reading from.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of lines to read. Default: 2000.",
					},
				},
				"required": []string{"path"},
			},
		},
		Handler: func(_ context.Context, args map[string]any, env ExecutionEnvironment) (string, error) {
			path, ok := getString(args, "path")
			if !ok || path == "" {
				return "", validationErr("path is required")
			}
			offset, _ := getInt(args, "offset")
			limit, _ := getInt(args, "limit")
			if limit <= 0 {
				limit = 2000
			}

			content, err := env.ReadFile(path)
			if err != nil {
				return "", notFoundErr("file not found: %s", path)
			}

			lines := splitLines(content)
			start := 0
			if offset > 1 {
				start = offset - 1
			}
			if start >= len(lines) {
				return "", nil
			}
			end := len(lines)
			if start+limit < end {
				end = start + limit
			}

			var sb strings.Builder
			for i := start; i < end; i++ {
				fmt.Fprintf(&sb, "%d | %s\n", i+1, lines[i])
			}
			return sb.String(), nil
		},
	})
}

func registerListDirectory(reg *ToolRegistry) {
	reg.Register(RegisteredTool{
		ReadOnly: true,
		Definition: toolcall.ToolDefinition{
			Name:        "list_directory",
			Description: "List the entries of a directory with sizes.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Directory to list. Default: working directory.",
					},
				},
				"required": []string{},
			},
		},
		Handler: func(_ context.Context, args map[string]any, env ExecutionEnvironment) (string, error) {
			path, _ := getString(args, "path")
			if path == "" {
				path = "."
			}
			entries, err := env.ListDirectory(path)
			if err != nil {
				return "", notFoundErr("cannot list %s: %v", path, err)
			}
			if len(entries) == 0 {
				return "Directory is empty.", nil
			}
			var sb strings.Builder
			for _, e := range entries {
				if e.IsDir {
					fmt.Fprintf(&sb, "%s/\n", e.Name)
				} else {
					fmt.Fprintf(&sb, "%s (%d bytes)\n", e.Name, e.Size)
				}
			}
			return sb.String(), nil
		},
	})
}

func registerGrep(reg *ToolRegistry) {
	reg.Register(RegisteredTool{
		ReadOnly: true,
		Definition: toolcall.ToolDefinition{
			Name:        "grep",
			Description: "Search file contents using regex patterns. Returns matching lines with file paths and line numbers.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern": map[string]any{
						"type":        "string",
						"description": "Regex pattern to search for.",
					},
					"path": map[string]any{
						"type":        "string",
						"description": "Directory or file to search. Default: working directory.",
					},
					"glob_filter": map[string]any{
						"type":        "string",
						"description": "File pattern filter (e.g. \"*.go\").",
					},
					"case_insensitive": map[string]any{
						"type":        "boolean",
						"description": "Case insensitive search. Default: false.",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results. Default: 100.",
					},
				},
				"required": []string{"pattern"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any, env ExecutionEnvironment) (string, error) {
			pattern, ok := getString(args, "pattern")
			if !ok || pattern == "" {
				return "", validationErr("pattern is required")
			}
			path, _ := getString(args, "path")
			globFilter, _ := getString(args, "glob_filter")
			caseInsensitive, _ := getBool(args, "case_insensitive")
			maxResults, _ := getInt(args, "max_results")
			if maxResults <= 0 {
				maxResults = 100
			}
			return env.Grep(ctx, pattern, path, GrepOptions{
				GlobFilter:      globFilter,
				CaseInsensitive: caseInsensitive,
				MaxResults:      maxResults,
			})
		},
	})
}

func registerGlob(reg *ToolRegistry) {
	reg.Register(RegisteredTool{
		ReadOnly: true,
		Definition: toolcall.ToolDefinition{
			Name:        "glob",
			Description: "Find files matching a glob pattern.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern": map[string]any{
						"type":        "string",
						"description": "Glob pattern (e.g. \"*.go\").",
					},
					"path": map[string]any{
						"type":        "string",
						"description": "Base directory. Default: working directory.",
					},
				},
				"required": []string{"pattern"},
			},
		},
		Handler: func(_ context.Context, args map[string]any, env ExecutionEnvironment) (string, error) {
			pattern, ok := getString(args, "pattern")
			if !ok || pattern == "" {
				return "", validationErr("pattern is required")
			}
			path, _ := getString(args, "path")
			matches, err := env.Glob(pattern, path)
			if err != nil {
				return "", executionErr(err, "glob failed")
			}
			if len(matches) == 0 {
				return "No files matched the pattern.", nil
			}
			return strings.Join(matches, "\n"), nil
		},
	})
}

func registerWriteFile(reg *ToolRegistry) {
	reg.Register(RegisteredTool{
		Definition: toolcall.ToolDefinition{
			Name:        "write_file",
			Description: "Write content to a file, creating it and any parent directories if needed.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path to write to.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The full file content to write.",
					},
				},
				"required": []string{"path", "content"},
			},
		},
		Handler: func(_ context.Context, args map[string]any, env ExecutionEnvironment) (string, error) {
			path, ok := getString(args, "path")
			if !ok || path == "" {
				return "", validationErr("path is required")
			}
			content, ok := getString(args, "content")
			if !ok {
				return "", validationErr("content is required")
			}
			if err := env.WriteFile(path, content); err != nil {
				return "", executionErr(err, "failed to write %s", path)
			}
			return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), path), nil
		},
	})
}

func registerEditFile(reg *ToolRegistry) {
	reg.Register(RegisteredTool{
		Definition: toolcall.ToolDefinition{
			Name: "edit_file",
			Description: "Edit a file by line address or by exact text. Modes: insert (add lines before " +
				"line_number), replace (swap lines line_number..end_line for content), delete (remove " +
				"lines line_number..end_line), move (relocate lines line_number..end_line to " +
				"target_line), find_replace (substitute old_text with new_text).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path to the file to edit.",
					},
					"mode": map[string]any{
						"type":        "string",
						"enum":        []string{"insert", "replace", "delete", "move", "find_replace"},
						"description": "Editing strategy.",
					},
					"line_number": map[string]any{
						"type":        "integer",
						"description": "1-based start line for insert, replace, delete, and move.",
					},
					"end_line": map[string]any{
						"type":        "integer",
						"description": "1-based end line for range modes. Defaults to line_number.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Lines to insert or to replace with.",
					},
					"target_line": map[string]any{
						"type":        "integer",
						"description": "Destination line for move, addressed in the pre-move file.",
					},
					"old_text": map[string]any{
						"type":        "string",
						"description": "Exact text to find for find_replace.",
					},
					"new_text": map[string]any{
						"type":        "string",
						"description": "Replacement text for find_replace.",
					},
					"replace_all": map[string]any{
						"type":        "boolean",
						"description": "Replace every occurrence. Default: false.",
					},
				},
				"required": []string{"path", "mode"},
			},
		},
		Handler: func(_ context.Context, args map[string]any, env ExecutionEnvironment) (string, error) {
			editArgs, err := ParseEditArgs(args)
			if err != nil {
				return "", err
			}
			return EditFile(env, editArgs)
		},
	})
}

func registerExecuteCommand(reg *ToolRegistry, defaultTimeoutMs, maxTimeoutMs int) {
	reg.Register(RegisteredTool{
		Definition: toolcall.ToolDefinition{
			Name:        "execute_command",
			Description: "Execute a shell command in the working directory. Returns combined stdout and stderr.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"command": map[string]any{
						"type":        "string",
						"description": "The command to run.",
					},
					"timeout_ms": map[string]any{
						"type":        "integer",
						"description": "Override the default command timeout in milliseconds.",
					},
				},
				"required": []string{"command"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any, env ExecutionEnvironment) (string, error) {
			command, ok := getString(args, "command")
			if !ok || command == "" {
				return "", validationErr("command is required")
			}
			timeoutMs, _ := getInt(args, "timeout_ms")
			if timeoutMs <= 0 {
				timeoutMs = defaultTimeoutMs
			}
			if timeoutMs > maxTimeoutMs {
				timeoutMs = maxTimeoutMs
			}

			result, err := env.ExecCommand(ctx, command, timeoutMs, "")
			if err != nil {
				return "", err
			}

			var sb strings.Builder
			sb.WriteString(result.Output())
			if result.TimedOut {
				fmt.Fprintf(&sb, "\n\n[Command timed out after %dms. Partial output is shown above. "+
					"Retry with a larger timeout_ms if more time is needed.]", timeoutMs)
			}
			if result.ExitCode != 0 && !result.TimedOut {
				fmt.Fprintf(&sb, "\n\n[Exit code: %d]", result.ExitCode)
			}
			return sb.String(), nil
		},
	})
}
