package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/rules"
)

func rulesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the registered rules",
		Long: `List every built-in rule with its category, default severity
and a short description.

Examples:
  soliscan rules
  soliscan rules --category security`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := rules.NewRegistry()
			if err := registry.RegisterBuiltin(); err != nil {
				return err
			}

			var list []rules.Rule
			if category != "" {
				list = registry.ByCategory(domain.Category(category))
			} else {
				list = registry.All()
			}
			if len(list) == 0 {
				fmt.Println("No rules found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tFIXABLE\tTITLE")
			for _, rule := range list {
				meta := rule.Metadata()
				fixable := ""
				if meta.Fixable {
					fixable = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					meta.ID, meta.Category, meta.Severity, fixable, meta.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "",
		"Only show rules of this category: security, best-practice, style, gas")
	return cmd
}
