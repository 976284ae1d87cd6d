package main

import (
	"github.com/spf13/cobra"

	"veo-prompt-studio/internal/application/studio"
	"veo-prompt-studio/internal/domain/entity"
)

var scriptOpts struct {
	topic     string
	wordCount string
	genre     string
	out       string
	copy      bool
}

var promptOpts struct {
	scriptFile     string
	style          string
	variant        string
	withCharacters bool
	out            string
	copy           bool
}

var charactersOpts struct {
	scriptFile string
	style      string
	out        string
	copy       bool
}

func init() {
	rootCmd.AddCommand(scriptCmd, promptCmd, charactersCmd)

	scriptCmd.Flags().StringVarP(&scriptOpts.topic, "topic", "t", "", "script topic")
	scriptCmd.Flags().StringVarP(&scriptOpts.wordCount, "words", "w", "", `approximate word count (omit to use the configured default; --words "" asks for a 1-2 minute short video)`)
	scriptCmd.Flags().StringVar(&scriptOpts.genre, "genre", "", "optional genre")
	scriptCmd.Flags().StringVarP(&scriptOpts.out, "out", "o", "", "write the script to a file")
	scriptCmd.Flags().BoolVar(&scriptOpts.copy, "copy", false, "copy the script to the clipboard")
	_ = scriptCmd.MarkFlagRequired("topic")

	promptCmd.Flags().StringVarP(&promptOpts.scriptFile, "script-file", "f", "-", "script file (- for stdin)")
	promptCmd.Flags().StringVarP(&promptOpts.style, "style", "s", "", "visual style applied to every shot")
	promptCmd.Flags().StringVar(&promptOpts.variant, "variant", string(entity.VariantShots), "shots | scenes")
	promptCmd.Flags().BoolVar(&promptOpts.withCharacters, "with-characters", false, "extract a character roster first and keep descriptions consistent")
	promptCmd.Flags().StringVarP(&promptOpts.out, "out", "o", "", "write the JSON to a file")
	promptCmd.Flags().BoolVar(&promptOpts.copy, "copy", false, "copy the JSON to the clipboard")

	charactersCmd.Flags().StringVarP(&charactersOpts.scriptFile, "script-file", "f", "-", "script file (- for stdin)")
	charactersCmd.Flags().StringVarP(&charactersOpts.style, "style", "s", "", "visual style for descriptions")
	charactersCmd.Flags().StringVarP(&charactersOpts.out, "out", "o", "", "write the JSON to a file")
	charactersCmd.Flags().BoolVar(&charactersOpts.copy, "copy", false, "copy the JSON to the clipboard")
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Generate a scene-structured video script from a topic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		s := newSession(a)
		patch := studio.InputsPatch{
			Topic: strPtr(scriptOpts.topic),
			Genre: strPtr(scriptOpts.genre),
		}
		if cmd.Flags().Changed("words") {
			patch.WordCount = strPtr(scriptOpts.wordCount)
		}
		s.UpdateInputs(patch)
		if err := s.GenerateScript(cmd.Context()); err != nil {
			return err
		}
		return emit(cmd, s, entity.ArtifactKindScript, scriptOpts.out, scriptOpts.copy)
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Structure a script into scenes and 8-second Veo shot prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := readInput(cmd, promptOpts.scriptFile)
		if err != nil {
			return err
		}
		a, cleanup, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		s := newSession(a)
		s.UpdateInputs(studio.InputsPatch{
			Topic:   strPtr(script),
			Style:   strPtr(promptOpts.style),
			Variant: strPtr(promptOpts.variant),
		})
		if err := s.UseOriginalScript(cmd.Context()); err != nil {
			return err
		}
		if promptOpts.withCharacters {
			if err := s.GenerateCharacters(cmd.Context()); err != nil {
				return err
			}
		}
		if err := s.GeneratePrompt(cmd.Context()); err != nil {
			return err
		}
		return emit(cmd, s, entity.ArtifactKindVeoPrompt, promptOpts.out, promptOpts.copy)
	},
}

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "Extract a character roster with reusable visual descriptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := readInput(cmd, charactersOpts.scriptFile)
		if err != nil {
			return err
		}
		a, cleanup, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		s := newSession(a)
		s.UpdateInputs(studio.InputsPatch{
			Topic: strPtr(script),
			Style: strPtr(charactersOpts.style),
		})
		if err := s.UseOriginalScript(cmd.Context()); err != nil {
			return err
		}
		if err := s.GenerateCharacters(cmd.Context()); err != nil {
			return err
		}
		return emit(cmd, s, entity.ArtifactKindCharacters, charactersOpts.out, charactersOpts.copy)
	},
}

func emit(cmd *cobra.Command, s *studio.Session, kind entity.ArtifactKind, out string, copyToClipboard bool) error {
	snap, err := s.Slot(kind)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, out, snap.Original); err != nil {
		return err
	}
	if copyToClipboard {
		return copySlot(cmd, s, kind)
	}
	return nil
}
