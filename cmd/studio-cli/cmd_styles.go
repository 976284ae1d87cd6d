package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/locale"
)

func init() {
	rootCmd.AddCommand(stylesCmd)
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the visual style presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := entity.ParseLanguage(language)
		for _, s := range locale.Styles(lang) {
			if s.Label == s.Value {
				fmt.Fprintln(cmd.OutOrStdout(), s.Value)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", s.Value, s.Label)
		}
		return nil
	},
}
