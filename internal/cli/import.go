package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/scene"
)

// importCommand creates the import command, which lays out a DOT graph with
// Graphviz and saves it as a scene.
func (c *CLI) importCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [graph.dot]",
		Short: "Convert a DOT graph into a scene",
		Long: `Import lays out a Graphviz DOT graph and turns every node into a card and
every edge into a link. The output format follows the output extension
(.toml or .json).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".toml"
			}
			format, err := scene.FormatFromPath(output)
			if err != nil {
				return err
			}
			if format == scene.FormatDOT {
				return errors.New(errors.ErrCodeInvalidFormat, "cannot write scenes as DOT, use .toml or .json")
			}

			prog := newProgress(c.Logger)
			s, err := scene.Load(cmd.Context(), input)
			if err != nil {
				return err
			}
			prog.done("Laid out "+input, "cards", len(s.Cards), "links", len(s.Links))
			data, err := s.Marshal(format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}

			printSuccess("Imported %d cards, %d links", len(s.Cards), len(s.Links))
			printFile(output)
			printNextStep("Render it", "tether render "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output scene file (default: input with .toml)")
	return cmd
}
