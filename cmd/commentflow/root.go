package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &commandFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "commentflow",
		Short:         "Score YouTube comment sentiment and evaluate it against labels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.env, "env", "", "Environment whose config/envs/.env.<env> file is loaded")
	pf.StringVar(&flags.apiKey, "api-key", "", "YouTube Data API key (overrides YOUTUBE_API_KEY)")
	pf.StringVar(&flags.backend, "backend", "", "Sentiment backend: vader, hugot, huggingface or openai")
	pf.StringVar(&flags.policy, "policy", "", "Summary policy: signed or legacy_mean")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newEvaluateCommand(ctx))

	return rootCmd
}
