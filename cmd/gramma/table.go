package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/gramma/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tableFlags = struct {
	kind string
	json bool
	html string
	dot  string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "table FILE",
		Short: "Create a parse table for a grammar",
		Example: `  gramma table --kind lr1 expr.ebnf
  gramma table --kind slr --json expr.ebnf > expr.json
  gramma table --html expr.html --dot expr.dot expr.ebnf`,
		Args: cobra.ExactArgs(1),
		RunE: runTable,
	}
	cmd.Flags().StringVarP(&tableFlags.kind, "kind", "k", "slr", "table kind [lr0|slr|lr1|ll1]")
	cmd.Flags().BoolVar(&tableFlags.json, "json", false, "print the table in JSON format")
	cmd.Flags().StringVar(&tableFlags.html, "html", "", "write the table as HTML to a file")
	cmd.Flags().StringVar(&tableFlags.dot, "dot", "", "write the CFSM in Graphviz format to a file")
	rootCmd.AddCommand(cmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	ga := lr.Analysis(g)
	if tableFlags.kind == "ll1" {
		ll1 := lr.MakeLL1ParseTable(ga)
		pterm.DefaultTable.WithHasHeader().WithData(viewTable(ll1.DebugView(), nonTermLabels(g), termLabels(g))).Render()
		reportLL1Conflicts(ll1)
		return nil
	}
	opt, err := tableOption(tableFlags.kind)
	if err != nil {
		return err
	}
	lrgen := lr.NewTableGenerator(ga, opt)
	if err = lrgen.CreateTables(); err != nil {
		return err
	}
	table := lrgen.Table()
	if tableFlags.dot != "" {
		cfsm, _ := lrgen.CFSM()
		if err = writeFile(tableFlags.dot, cfsm.WriteDot); err != nil {
			return err
		}
	}
	if tableFlags.html != "" {
		if err = writeFile(tableFlags.html, table.WriteHTML); err != nil {
			return err
		}
	}
	if tableFlags.json {
		return table.WriteJSON(os.Stdout)
	}
	pterm.DefaultTable.WithHasHeader().WithData(viewTable(table.DebugView(), stateLabels(table), symbolLabels(g))).Render()
	reportConflicts(table)
	return nil
}

func tableOption(kind string) (lr.TableOption, error) {
	switch kind {
	case "lr0":
		return lr.UseLR0(), nil
	case "slr":
		return lr.UseSLR(), nil
	case "lr1":
		return lr.UseLR1(), nil
	}
	return nil, fmt.Errorf("unknown table kind %q", kind)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = write(f); err != nil {
		return err
	}
	pterm.Info.Printf("wrote %s\n", path)
	return nil
}

func reportConflicts(table *lr.ParseTable) {
	conflicts := table.Conflicts()
	if len(conflicts) == 0 {
		pterm.Info.Printf("%s table has no conflicts\n", table.Kind)
		return
	}
	for _, c := range conflicts {
		pterm.Error.Println(c.String())
	}
}

func reportLL1Conflicts(table *lr.LL1Table) {
	conflicts := table.Conflicts()
	if len(conflicts) == 0 {
		pterm.Info.Println("LL(1) table has no conflicts")
		return
	}
	for _, c := range conflicts {
		pterm.Error.Printf("conflict for %s on %s: %v\n", c.NonTerm, c.Terminal, c.Rules)
	}
}

// viewTable arranges a table view as rows × columns, given as labels. Rows and
// columns not present in the view are left empty.
func viewTable(view map[string]map[string][]string, rows, cols []string) pterm.TableData {
	data := pterm.TableData{append([]string{""}, cols...)}
	for _, r := range rows {
		line := []string{r}
		for _, c := range cols {
			line = append(line, strings.Join(view[r][c], " / "))
		}
		data = append(data, line)
	}
	return data
}

func stateLabels(table *lr.ParseTable) []string {
	labels := make([]string, table.StateCount())
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

func termLabels(g *lr.Grammar) []string {
	var labels []string
	g.EachTerminal(func(A *lr.Symbol) {
		labels = append(labels, A.Name)
	})
	return labels
}

func nonTermLabels(g *lr.Grammar) []string {
	var labels []string
	g.EachNonTerminal(func(A *lr.Symbol) {
		if len(A.Rules()) > 0 {
			labels = append(labels, A.Name)
		}
	})
	sort.Strings(labels)
	return labels
}

func symbolLabels(g *lr.Grammar) []string {
	labels := termLabels(g)
	g.EachNonTerminal(func(A *lr.Symbol) {
		if len(A.Rules()) > 0 {
			labels = append(labels, A.Name)
		}
	})
	return labels
}
