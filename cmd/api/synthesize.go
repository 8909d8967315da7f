package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-tailor/internal/linkedin"
	"alfredoptarigan/cv-tailor/internal/services"
)

var synthesizeToken string

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Render a CV from a LinkedIn profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		token := synthesizeToken
		if token == "" {
			token = os.Getenv("LINKEDIN_TOKEN")
		}

		source := linkedin.NewClient(linkedin.Options{
			BaseURL: cfg.LinkedIn.APIURL,
			Token:   token,
			Timeout: cfg.LinkedIn.Timeout,
		}, log)

		content, err := services.NewSynthesizerService(log).Synthesize(cmd.Context(), source)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
		return err
	},
}

func init() {
	synthesizeCmd.Flags().StringVar(&synthesizeToken, "token", "", "LinkedIn access token (default $LINKEDIN_TOKEN)")
}
