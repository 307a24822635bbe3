package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/martinemde/nanocoder/agentcore"
	"github.com/martinemde/nanocoder/modelclient"
	"github.com/martinemde/nanocoder/toolcall"
)

var (
	flagProvider string
	flagModel    string
	flagAPIKey   string
	flagMode     string
	flagWorkdir  string
	flagVerbose  bool
)

func main() {
	root := &cobra.Command{
		Use:   "nanocoder",
		Short: "A minimal terminal coding agent",
		Long: "nanocoder is an interactive coding agent. It sends your instructions to an LLM,\n" +
			"executes the tool calls the model makes (reading, editing, and running things in\n" +
			"your working directory), and loops until the task is done.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVar(&flagProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	root.Flags().StringVar(&flagModel, "model", "", "model ID (default: provider's default)")
	root.Flags().StringVar(&flagAPIKey, "api-key", "", "API key (default: provider's env variable)")
	root.Flags().StringVar(&flagMode, "mode", "normal", "initial mode (normal, auto-accept, plan)")
	root.Flags().StringVar(&flagWorkdir, "workdir", "", "working directory (default: current)")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger, err := buildLogger(flagVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mode, err := agentcore.ParseMode(flagMode)
	if err != nil {
		return err
	}

	clientCfg := modelclient.DefaultConfig(flagProvider)
	if flagModel != "" {
		clientCfg.Model = flagModel
	}
	clientCfg.APIKey = flagAPIKey
	client, err := modelclient.NewGollmClient(clientCfg)
	if err != nil {
		return err
	}

	env := agentcore.NewLocalExecutionEnvironment(flagWorkdir)
	// One reader for both the prompt loop and confirmations; two buffered
	// readers on the same fd would steal each other's input.
	stdin := bufio.NewReader(os.Stdin)
	confirmer := &terminalConfirmer{env: env, in: stdin}

	cfg := agentcore.DefaultSessionConfig()
	cfg.InitialMode = mode
	cfg.Logger = logger
	cfg.SystemPrompt = systemPrompt(env.WorkingDirectory())

	session := agentcore.NewSession(client, env, confirmer, &cfg)
	defer session.Close()

	done := make(chan struct{})
	go printEvents(session.Events(), done)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("nanocoder (%s, mode: %s) in %s\n", clientCfg.Model, mode, env.WorkingDirectory())
	fmt.Println("Type your instructions. Ctrl-D to exit.")

	for {
		fmt.Print("> ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			break
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if err := session.Submit(ctx, input); err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}

	session.Close()
	<-done
	return nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func systemPrompt(workdir string) string {
	return fmt.Sprintf(`You are a coding agent operating in a terminal. Your working directory is %s.

Use the provided tools to read, search, edit, and run code. Prefer small targeted
edits over whole-file rewrites. When a task is complete, summarize what you changed.`, workdir)
}

// terminalConfirmer prompts on stdin for tool calls that require approval.
type terminalConfirmer struct {
	env agentcore.ExecutionEnvironment
	in  *bufio.Reader
}

func (c *terminalConfirmer) Confirm(_ context.Context, call toolcall.ToolCall) (bool, error) {
	preview := agentcore.BuildPreview(c.env, call)

	fmt.Printf("\n--- %s ---\n%s\n", preview.Title, preview.Detail)
	if preview.Diff != "" {
		fmt.Println(preview.Diff)
	}
	fmt.Print("Allow? [y/N] ")

	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printEvents(events <-chan agentcore.SessionEvent, done chan<- struct{}) {
	defer close(done)
	for event := range events {
		switch event.Kind {
		case agentcore.EventAssistantText:
			if text, ok := event.Data["text"].(string); ok {
				fmt.Println(text)
			}
		case agentcore.EventToolCallStart:
			fmt.Printf("  [%s]\n", event.Data["tool_name"])
		case agentcore.EventModeSwitched:
			fmt.Printf("  mode: %s -> %s\n", event.Data["from"], event.Data["to"])
		case agentcore.EventLoopDetection:
			fmt.Printf("  ! %s\n", event.Data["message"])
		case agentcore.EventTurnLimit:
			fmt.Println("  ! tool round limit reached")
		}
	}
}
