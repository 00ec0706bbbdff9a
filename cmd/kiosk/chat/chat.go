// Package chatcmder provides the chat command for talking to the kiosk
// assistant from a terminal.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/cliui"
	"github.com/papercomputeco/kiosk/pkg/config"
	"github.com/papercomputeco/kiosk/pkg/logger"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("anda> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("kiosk> ")
)

// chatter is the conversation the REPL drives, either a local assistant
// service or a remote kiosk API.
type chatter interface {
	Send(ctx context.Context, message string, onStream func(chunk string)) (assistant.Reply, error)
	Reset(ctx context.Context) error
	Close() error
}

type chatCommander struct {
	remote      bool
	apiTarget   string
	model       string
	apiKey      string
	profilePath string
	sqlitePath  string
	postgresDSN string

	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive chat with the kiosk assistant.

By default the assistant runs in this process against Gemini and records every
question to the configured store, exactly like the kiosk API does. Set the
API key with --api-key, KIOSK_ASSISTANT_API_KEY or "kiosk config set
assistant.api_key".

With --remote the chat goes through a running "kiosk serve" instead, streaming
answers from its /v1/chat/stream endpoint.

Commands inside the chat:
  /reset   start a new conversation
  /exit    quit (Ctrl+D works too)

Examples:
  kiosk chat
  kiosk chat --model gemini-2.5-pro --profile ./dukcapil.yaml
  kiosk chat --remote --api-target http://kiosk.local:8081`

const chatShortDesc string = "Chat with the kiosk assistant"

var chatFlags = []string{
	config.FlagAPITarget,
	config.FlagModel,
	config.FlagAPIKey,
	config.FlagProfile,
	config.FlagSQLite,
	config.FlagPostgres,
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, chatFlags)
			cmder.load(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			cmder.logger = logger.New(
				logger.WithDebug(debug),
				logger.WithPretty(true),
				logger.WithWriter(cmd.ErrOrStderr()),
			)
			return cmder.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&cmder.remote, "remote", false, "Chat through a running kiosk API server")
	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagProfile, &cmder.profilePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)

	return cmd
}

func (c *chatCommander) load(v *viper.Viper) {
	c.apiTarget = v.GetString("client.api_target")
	c.model = v.GetString("assistant.model")
	c.apiKey = v.GetString("assistant.api_key")
	c.profilePath = v.GetString("assistant.profile_path")
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.postgresDSN = v.GetString("storage.postgres_dsn")
}

func (c *chatCommander) run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	if c.logger == nil {
		c.logger = logger.Nop()
	}

	var (
		chat  chatter
		where string
		err   error
	)
	if c.remote {
		chat = newRemoteChat(c.apiTarget, c.logger)
		where = c.apiTarget
	} else {
		chat, err = newLocalChat(ctx, c)
		if err != nil {
			return err
		}
		where = c.model
	}
	defer chat.Close()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Kiosk assistant:"), cliui.ValueStyle.Render(where))
	fmt.Fprintf(out, "  %s\n\n", cliui.DimStyle.Render("Type your question and press Enter. /reset starts over, /exit or Ctrl+D quits."))

	return repl(ctx, chat, in, out, errOut)
}

func repl(ctx context.Context, chat chatter, in io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit", "/quit":
			fmt.Fprintln(out)
			return nil
		case "/reset":
			if err := chat.Reset(ctx); err != nil {
				fmt.Fprintf(errOut, "  %s %v\n", cliui.FailMark, err)
				continue
			}
			fmt.Fprintf(out, "  %s %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render("New conversation"))
			continue
		}

		if err := ask(ctx, chat, input, out); err != nil {
			fmt.Fprintf(errOut, "\n  %s %v\n\n", cliui.FailMark, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(out)
	return nil
}

func ask(ctx context.Context, chat chatter, question string, out io.Writer) error {
	fmt.Fprint(out, assistantPrompt)

	stream := newStreamPrinter(out)
	reply, err := chat.Send(ctx, question, stream.Write)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		return nil
	}
	if err != nil {
		return err
	}

	if stream.Printed() && reply.Type == assistant.ReplyText && !reply.IsFallback() {
		fmt.Fprint(out, "\n\n")
		return nil
	}

	if stream.Printed() {
		fmt.Fprintln(out)
	}
	rendered, err := cliui.RenderMarkdown(reply.Markdown())
	if err != nil {
		rendered = reply.Markdown() + "\n"
	}
	fmt.Fprint(out, "\n"+rendered+"\n")
	return nil
}
