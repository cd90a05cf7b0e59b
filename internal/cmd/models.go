package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/yap/internal/errs"
	"github.com/dotcommander/yap/internal/providers"
)

func newModelsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			names, err := providers.ListModels(cmd.Context(), rt.cfg.OllamaBaseURL)
			if err != nil {
				return errs.Wrap(err, "Could not list models from the Ollama server.")
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
