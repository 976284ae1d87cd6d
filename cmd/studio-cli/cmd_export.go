package main

import (
	"github.com/spf13/cobra"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/locale"
	"veo-prompt-studio/pkg/errors"
)

var exportOpts struct {
	in   string
	kind string
	out  string
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOpts.in, "file", "f", "-", "structured JSON file (- for stdin)")
	exportCmd.Flags().StringVarP(&exportOpts.kind, "kind", "k", string(entity.ArtifactKindVeoPrompt), "veo_prompt | characters")
	exportCmd.Flags().StringVarP(&exportOpts.out, "out", "o", "", "output file, e.g. "+artifact.ExportFileName)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert structured JSON into one plain-text block per shot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := entity.ParseArtifactKind(exportOpts.kind)
		if err != nil || !kind.IsStructured() {
			return errors.ErrInvalidParam.WithDetail("kind must be veo_prompt or characters")
		}
		text, err := readInput(cmd, exportOpts.in)
		if err != nil {
			return err
		}
		lang := entity.ParseLanguage(language)
		doc, ok := artifact.TryParse(kind, text)
		if !ok {
			return errors.New(errors.CodeExportFailed, locale.Message(lang, locale.MsgExportFailed))
		}
		out, err := artifact.Export(doc)
		if err != nil {
			return errors.Wrap(err, errors.CodeExportFailed, locale.Message(lang, locale.MsgExportFailed))
		}
		return writeOutput(cmd, exportOpts.out, out)
	},
}
