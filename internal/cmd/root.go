package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"charm.land/fantasy"
	glamour "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/x/exp/ordered"
	"github.com/spf13/cobra"

	"github.com/dotcommander/yap/internal/agent"
	"github.com/dotcommander/yap/internal/config"
	"github.com/dotcommander/yap/internal/errs"
	"github.com/dotcommander/yap/internal/logging"
	"github.com/dotcommander/yap/internal/present"
	"github.com/dotcommander/yap/internal/providers"
)

type runtime struct {
	build  BuildInfo
	cfg    config.Config
	cfgErr error

	provider string
	model    string
	logLevel string
}

// NewRootCmd constructs the Cobra root command.
func NewRootCmd(build BuildInfo, cfg config.Config, cfgErr error) *cobra.Command {
	// XXX: unset error styles in Glamour dark and light styles.
	glamour.DarkStyleConfig.CodeBlock.Chroma.Error.BackgroundColor = new(string)
	glamour.LightStyleConfig.CodeBlock.Chroma.Error.BackgroundColor = new(string)

	rt := &runtime{build: normalizeBuildInfo(build), cfg: cfg, cfgErr: cfgErr}

	rootCmd := &cobra.Command{
		Use:           "yap",
		Short:         "Chat with local and cloud models. Built for pipelines.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       randomExample(),
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return rt.runOnce(cmd, args)
		},
	}

	rootCmd.SetUsageFunc(usageFunc)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newFlagParseError(err)
	})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.Version = rt.build.Version
	rootCmd.SetVersionTemplate(versionTemplate(rt.build))

	initRootFlags(rootCmd, rt)

	// Commands.
	rootCmd.AddCommand(newChatCmd(rt))
	rootCmd.AddCommand(newModelsCmd(rt))
	rootCmd.AddCommand(newConfigCmd(rt))
	rootCmd.AddCommand(newManCmd(rootCmd))

	// Enable completion now that we have subcommands.
	rootCmd.InitDefaultCompletionCmd()

	return rootCmd
}

func initRootFlags(cmd *cobra.Command, rt *runtime) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&rt.provider, "provider", "p", agent.DefaultProvider, present.StdoutStyles().FlagDesc.Render(helpText["provider"]))
	flags.StringVarP(&rt.model, "model", "m", "", present.StdoutStyles().FlagDesc.Render(helpText["model"]))
	flags.StringVar(&rt.logLevel, "log-level", "", present.StdoutStyles().FlagDesc.Render(helpText["log-level"]))
	flags.SortFlags = false

	_ = cmd.RegisterFlagCompletionFunc("provider", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"ollama", "gemini"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// newAgent builds an agent from the resolved configuration and flags.
func (rt *runtime) newAgent(ctx context.Context) (*agent.Agent, error) {
	log := logging.New(ordered.First(rt.logLevel, rt.cfg.LogLevel))
	a, err := agent.New(ctx, rt.cfg, agent.Options{
		Provider: rt.provider,
		Model:    rt.model,
		Logger:   log,
	})
	if err != nil {
		return nil, invokeError(err)
	}
	return a, nil
}

// runOnce handles the single-shot mode: one message in, one answer out.
func (rt *runtime) runOnce(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		message = readStdin()
	}
	if message == "" {
		drainStdin()
		return errs.Error{
			Reason: "You haven't provided any message.",
			Err: errs.UserErrorf(
				"You can give your message as arguments and/or pipe it from STDIN.\nExample: %s",
				present.StdoutStyles().InlineCode.Render("yap [message]"),
			),
		}
	}

	a, err := rt.newAgent(cmd.Context())
	if err != nil {
		return err
	}

	out, err := a.Invoke(cmd.Context(), message)
	if err != nil {
		return invokeError(err)
	}

	printAnswer(out)
	return nil
}

// printAnswer renders markdown on TTYs and prints plain text into pipes.
func printAnswer(out string) {
	if present.IsOutputTTY() {
		if rendered, err := present.RenderMarkdownForTTY(out, 0); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Println(out)
}

// invokeError maps backend and configuration failures to user-facing errors.
func invokeError(err error) error {
	var providerErr *fantasy.ProviderError
	if errors.As(err, &providerErr) {
		reason := fantasy.ErrorTitleForStatusCode(providerErr.StatusCode)
		if reason == "" {
			reason = "There was a problem with the API request."
		}
		return errs.Error{Err: err, Reason: reason}
	}

	var nferr providers.ModelNotFoundError
	if errors.As(err, &nferr) {
		return errs.Error{Err: err, Reason: "Model not found."}
	}

	var cerr config.ConfigurationError
	if errors.As(err, &cerr) {
		return errs.Error{Err: err, Reason: cerr.Message}
	}

	return err
}
