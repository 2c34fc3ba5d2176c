// Command quickchat is a terminal front end for the conversation session:
// it chats with the selected provider and manages the persisted
// conversations, credentials and settings.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI is the kong command tree.
type CLI struct {
	Config  string           `type:"path" help:"Config file (default $XDG_CONFIG_HOME/quickchat/config.toml)."`
	Version kong.VersionFlag `help:"Print the version and exit."`

	Chat   chatCmd   `cmd:"" help:"Send a prompt, or chat interactively when no prompt is given."`
	Ls     lsCmd     `cmd:"" help:"List conversations, newest first."`
	Show   showCmd   `cmd:"" help:"Print a conversation transcript."`
	Rm     rmCmd     `cmd:"" help:"Delete a conversation."`
	Models modelsCmd `cmd:"" help:"List providers and their models."`
	Use    useCmd    `cmd:"" help:"Select the provider and model."`
	Key    keyCmd    `cmd:"" help:"Set or clear a provider API key."`
	System systemCmd `cmd:"" help:"Show, set or clear the system prompt."`
}

// exitError carries a process exit code.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, wires the application and executes the selected command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	exited := -1
	parser, err := kong.New(&cli,
		kong.Name("quickchat"),
		kong.Description("Chat with Gemini, Grok, Anthropic and OpenAI models from the terminal."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exited = code }),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err != nil {
		fmt.Fprintln(stderr, "quickchat:", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if exited >= 0 {
		return exited
	}
	if err != nil {
		fmt.Fprintln(stderr, "quickchat:", err)
		return 2
	}

	app, err := newApp(ctx, cli.Config, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "quickchat:", err)
		return 1
	}

	err = kctx.Run(app)
	if closeErr := app.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	var exit exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exit):
		return exit.code
	default:
		fmt.Fprintln(stderr, "quickchat:", err)
		return 1
	}
}
