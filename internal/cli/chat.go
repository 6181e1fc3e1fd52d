package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"yara_assistant/internal/nodes"
	"yara_assistant/pkg"

	"github.com/spf13/cobra"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Yara in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		app, err := NewApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer app.Close()

		return RunChat(ctx, app, chatSession, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "cli", "Session id to chat in")
}

// RunChat reads one message per line from in and writes Yara's replies to out
// until EOF or /quit. /clear resets the session and /memory shows what Yara remembers.
func RunChat(ctx context.Context, app *App, sessionID string, in io.Reader, out io.Writer) error {
	session := app.Sessions.GetOrCreate(ctx, sessionID)

	fmt.Fprintf(out, "%s\n", nodes.Fallback(pkg.IntentGreeting, ""))
	fmt.Fprintln(out, "(type /memory, /clear or /quit)")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			fmt.Fprintf(out, "%s: %s\n", pkg.AssistantName, nodes.Fallback(pkg.IntentFarewell, ""))
			return nil
		case "/clear":
			session.Reset()
			fmt.Fprintln(out, "🧹 Memory and history cleared.")
			continue
		case "/memory":
			session.Lock()
			summary := session.Memory.Summary()
			session.Unlock()
			fmt.Fprintf(out, "%s: %s\n", pkg.AssistantName, summary)
			continue
		}

		result := app.Orchestrator.Respond(ctx, nodes.Request{Utterance: line, Session: session})
		fmt.Fprintf(out, "%s: %s\n", pkg.AssistantName, result.Response)
	}
}
