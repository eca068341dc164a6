package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/querykit/internal/cli/ui"
)

// NewModelsCommand creates the models command
func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered entity models",
		Long: `List every entity model found in the models directory with its table,
field count, search fields and collections.

Examples:
  querykit models
  querykit models --config deploy/querykit.yml`,
		Args: cobra.NoArgs,
		RunE: runModels,
	}
}

func runModels(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	ids := env.registry.List()
	if len(ids) == 0 {
		cmd.Print(ui.Warning("No models found in "+env.cfg.Models.Dir, noColor))
		return nil
	}

	table := ui.NewTable(out, []string{"Entity", "Table", "Fields", "Search", "Collections"}, noColor)
	for _, id := range ids {
		m, _ := env.registry.Get(id)

		collections := make([]string, 0, len(m.Collections))
		for _, c := range m.Collections {
			collections = append(collections, c.ID)
		}

		table.AddRow(
			m.ID,
			m.Schema+"."+m.Table,
			strconv.Itoa(len(m.Fields)),
			strings.Join(m.SearchFields, ", "),
			strings.Join(collections, ", "),
		)
	}
	table.Render()
	return nil
}
