package main

import (
	"strings"

	"github.com/npillmayer/gramma/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "analyze FILE",
		Short:   "Print nullable non-terminals, FIRST and FOLLOW sets of a grammar",
		Example: `  gramma analyze expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runAnalyze,
	}
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	printGrammar(g)
	pterm.DefaultTable.WithHasHeader().WithData(analysisTable(lr.Analysis(g))).Render()
	return nil
}

func printGrammar(g *lr.Grammar) {
	pterm.Info.Println(g.String())
	pterm.Println(g.Dump())
}

// analysisTable lists nullability, FIRST and FOLLOW for every non-terminal
// with rules.
func analysisTable(ga *lr.LRAnalysis) pterm.TableData {
	g := ga.Grammar()
	data := pterm.TableData{{"non-terminal", "nullable", "FIRST", "FOLLOW"}}
	g.EachNonTerminal(func(A *lr.Symbol) {
		if len(A.Rules()) == 0 {
			return
		}
		nullable := ""
		if ga.DerivesEpsilon(A) {
			nullable = "yes"
		}
		data = append(data, []string{
			A.Name,
			nullable,
			"{" + strings.Join(ga.First(A).Labels(g), ", ") + "}",
			"{" + strings.Join(ga.Follow(A).Labels(g), ", ") + "}",
		})
	})
	return data
}
