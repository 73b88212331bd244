// Copyright © 2024 The Lithium authors

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/resolver"
)

var (
	resolveCursor cursorFlags
	resolveJSON   bool
)

type resolvedSymbol struct {
	Symbol     string `json:"symbol"`
	Package    string `json:"package,omitempty"`
	Class      string `json:"class,omitempty"`
	Constant   string `json:"constant,omitempty"`
	Origin     string `json:"origin,omitempty"`
	Text       string `json:"text"`
	Unresolved bool   `json:"unresolved"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] file",
	Short: "Resolve the symbol at the cursor to package.Class.CONSTANT",
	Long: `Resolve the dotted reference at the cursor to its fully qualified form.
The package comes from the reference itself, an import statement, or the
package of the file when a sibling source declares the class.

Output is "symbol<TAB>origin"; the origin is inline, import, package or
none. With --json a single object is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd, args[0], resolveCursor.at)
		if err != nil {
			return err
		}
		sym, err := resolver.New(fsys).ResolveSelection(c.Buffer, c.Selection)
		if err != nil {
			return err
		}
		out := resolvedSymbol{
			Symbol:     sym.String(),
			Package:    sym.Package,
			Class:      sym.Class,
			Constant:   sym.Constant,
			Origin:     string(sym.Origin),
			Text:       sym.Text,
			Unresolved: sym.Unresolved(),
		}
		if out.Symbol == "" {
			out.Symbol = sym.Text
		}
		if resolveJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		origin := out.Origin
		if origin == "" {
			origin = "none"
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", out.Symbol, origin)
		return err
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCursor.register(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the symbol as JSON")
}
