package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/querykit/internal/cli/ui"
	"github.com/conduit-lang/querykit/internal/orm/query"
)

var (
	sqlID         string
	sqlLOV        string
	sqlCollection string
	sqlParent     string
	sqlJSON       bool
)

// NewSQLCommand creates the sql command
func NewSQLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <entity> [query-string]",
		Short: "Print the statement compiled for a request",
		Long: `Compile a request against the entity models and print the SQL statement and
its parameters without touching the database.

The query string takes the same parameters as GET /{entity}: field filters
(field=op.value), search, order, page, pageSize, select and format.

Examples:
  querykit sql contact
  querykit sql contact 'firstname=sw.A&order=lastname.desc&page=2'
  querykit sql contact --id 42
  querykit sql contact --lov category
  querykit sql contact --collection notes --parent 42
  querykit sql contact 'search=smith' --json`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeEntities,
		RunE:              runSQL,
	}

	cmd.Flags().StringVar(&sqlID, "id", "", "Compile the single-record select of this id")
	cmd.Flags().StringVar(&sqlLOV, "lov", "", "Compile the list of values of this field")
	cmd.Flags().StringVar(&sqlCollection, "collection", "", "Compile this sub-collection (requires --parent)")
	cmd.Flags().StringVar(&sqlParent, "parent", "", "Parent record id of --collection")
	cmd.Flags().BoolVar(&sqlJSON, "json", false, "Print the statement as JSON")

	return cmd
}

func runSQL(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	entity := args[0]

	stmt, err := compileRequest(env.compiler, entity, args[1:])
	if err != nil {
		if errors.Is(err, query.ErrModelNotFound) {
			fmt.Fprint(cmd.ErrOrStderr(), ui.EntityNotFoundError(entity, env.registry.List(), noColor))
		}
		return err
	}

	if sqlJSON {
		return writeStatementJSON(cmd.OutOrStdout(), stmt)
	}
	writeStatement(cmd.OutOrStdout(), stmt)
	return nil
}

// compileRequest picks the operation selected by the flags
func compileRequest(c *query.Compiler, entity string, rest []string) (*query.Statement, error) {
	switch {
	case sqlLOV != "":
		return c.LookupValues(entity, sqlLOV)
	case sqlCollection != "":
		if sqlParent == "" {
			return nil, fmt.Errorf("--collection requires --parent")
		}
		return c.Collection(entity, sqlCollection, sqlParent)
	case sqlID != "":
		return c.GetOne(entity, sqlID)
	}

	params := url.Values{}
	if len(rest) > 0 {
		var err error
		if params, err = url.ParseQuery(rest[0]); err != nil {
			return nil, fmt.Errorf("invalid query string: %w", err)
		}
	}
	return c.GetMany(entity, params)
}

func writeStatement(w io.Writer, stmt *query.Statement) {
	ui.Header(w, "SQL", noColor)
	fmt.Fprintln(w, stmt.SQL)

	if len(stmt.Args) == 0 {
		return
	}
	fmt.Fprintln(w)
	ui.Header(w, "Parameters", noColor)
	table := ui.NewTable(w, []string{"#", "Value", "Type"}, noColor)
	for i, arg := range stmt.Args {
		table.AddRow("$"+strconv.Itoa(i+1), fmt.Sprint(arg), fmt.Sprintf("%T", arg))
	}
	table.Render()
}

func writeStatementJSON(w io.Writer, stmt *query.Statement) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		SQL    string        `json:"sql"`
		Args   []interface{} `json:"args"`
		Single bool          `json:"single"`
	}{stmt.SQL, stmt.Args, stmt.Single})
}

// completeEntities offers the registered entity ids for the first argument
func completeEntities(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	env, err := loadEnvironment()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return env.registry.List(), cobra.ShellCompDirectiveNoFileComp
}
