package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	xstrings "github.com/charmbracelet/x/exp/strings"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dotcommander/yap/internal/agent"
	"github.com/dotcommander/yap/internal/present"
	"github.com/dotcommander/yap/internal/tools"
)

func newChatCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [initial message]",
		Short: "Start an interactive chat session",
		Long:  "Start an interactive session with the selected model. Type 'exit' or 'quit' to end it, 'copy' to put the last answer on the clipboard.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return rt.runChat(ctx, args)
		},
	}
}

func (rt *runtime) runChat(ctx context.Context, args []string) error {
	a, err := rt.newAgent(ctx)
	if err != nil {
		return err
	}

	printBanner(a, rt.provider)

	var lastAnswer string
	if initial := strings.TrimSpace(strings.Join(args, " ")); initial != "" {
		lastAnswer = rt.chatTurn(ctx, a, initial, lastAnswer)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "copy":
			if lastAnswer == "" {
				fmt.Fprintln(os.Stderr, "Nothing to copy yet.")
				continue
			}
			if err := clipboard.WriteAll(lastAnswer); err != nil {
				fmt.Fprintln(os.Stderr, "Could not copy to clipboard:", err)
				continue
			}
			fmt.Fprintln(os.Stderr, "Copied the last answer to the clipboard.")
		default:
			lastAnswer = rt.chatTurn(ctx, a, line, lastAnswer)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// chatTurn runs one message through the agent. Failures are printed and the
// session continues; the previous answer stays available for 'copy'.
func (rt *runtime) chatTurn(ctx context.Context, a *agent.Agent, message, lastAnswer string) string {
	out, err := a.Invoke(ctx, message)
	if err != nil {
		handleError(invokeError(err))
		return lastAnswer
	}
	printAnswer(out)
	return out
}

func printBanner(a *agent.Agent, provider string) {
	appName := "yap"
	if present.StdoutRenderer().ColorProfile() == termenv.TrueColor {
		appName = present.MakeGradientText(present.StdoutStyles().AppName, appName)
	}
	fmt.Printf("%s %s\n", appName, present.StdoutStyles().Comment.Render(provider+" / "+a.ModelName()))

	if toolset := a.Tools(); len(toolset) > 0 {
		names := tools.Names(toolset)
		fmt.Println(present.StdoutStyles().Comment.Render("Tools: " + xstrings.EnglishJoin(names, true)))
	}
	fmt.Println(present.StdoutStyles().Comment.Render("Type 'exit' or 'quit' to end the session."))
}
