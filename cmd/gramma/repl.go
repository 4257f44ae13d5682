package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/gramma"
	"github.com/npillmayer/gramma/ebnf"
	"github.com/npillmayer/gramma/lr"
	"github.com/npillmayer/gramma/lr/driver"
	"github.com/npillmayer/gramma/lr/scanner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl [FILE]",
		Short: "Start an interactive session for developing a grammar",
		Long: `Starts an interactive session. Lines not starting with ':' are grammar
declarations in EBNF notation, which are added to the current grammar.
Enter :help for a list of commands. Quit with <ctrl>D.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runREPL,
	}
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	pterm.Info.Println("Welcome to the gramma REPL")
	repl, err := readline.New("gramma> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp := &Intp{repl: repl}
	if len(args) > 0 {
		if _, err = intp.Eval(":load " + args[0]); err != nil {
			return err
		}
	}
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
	return nil
}

// Intp is our interpreter object. It holds the declarations entered so far
// and the grammar created from them.
type Intp struct {
	repl  *readline.Instance
	decls []string
	g     *lr.Grammar
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

var errNoGrammar = errors.New("no grammar declared yet")

// Eval evaluates a command or a grammar declaration, given on a line by itself.
func (intp *Intp) Eval(line string) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		return false, intp.declare(line)
	}
	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	if cmd == "quit" || cmd == "q" {
		return true, nil
	}
	if cmd == "help" {
		intp.help()
		return false, nil
	}
	if cmd == "load" {
		return false, intp.load(arg)
	}
	if cmd == "reset" {
		intp.decls, intp.g = nil, nil
		return false, nil
	}
	if intp.g == nil {
		return false, errNoGrammar
	}
	switch cmd {
	case "dump":
		printGrammar(intp.g)
	case "analyze":
		pterm.DefaultTable.WithHasHeader().WithData(analysisTable(lr.Analysis(intp.g))).Render()
	case "table":
		return false, intp.table(arg)
	case "transform":
		return false, intp.transform(arg)
	case "parse":
		tree, err := intp.parse(arg)
		if err != nil {
			return false, err
		}
		pterm.DefaultTree.WithRoot(treeFrom(tree)).Render()
	default:
		return false, fmt.Errorf("unknown command :%s", cmd)
	}
	return false, nil
}

func (intp *Intp) help() {
	pterm.Println(`  NT -> …  ;            add grammar declarations
  :load FILE             load declarations from a file
  :reset                 forget all declarations
  :dump                  print the grammar rules
  :analyze               print nullable, FIRST and FOLLOW
  :table [lr0|slr|lr1|ll1]  print a parse table
  :transform [useless] [null] [left-recursion]   transform the grammar
  :parse INPUT           parse input and print the parse tree
  :quit                  end the session`)
}

// declare adds declarations to the grammar. The grammar is re-created from all
// declarations, which means that transformations applied so far are discarded.
func (intp *Intp) declare(src string) error {
	decls := append(intp.decls, src)
	g, err := ebnf.ParseString("repl", strings.Join(decls, "\n"))
	if err != nil {
		return err
	}
	intp.decls, intp.g = decls, g
	tracer().Infof("%v", g)
	return nil
}

func (intp *Intp) load(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	intp.decls = nil
	return intp.declare(string(src))
}

func (intp *Intp) table(kind string) error {
	if kind == "" {
		kind = "slr"
	}
	ga := lr.Analysis(intp.g)
	if kind == "ll1" {
		ll1 := lr.MakeLL1ParseTable(ga)
		pterm.DefaultTable.WithHasHeader().WithData(viewTable(ll1.DebugView(),
			nonTermLabels(intp.g), termLabels(intp.g))).Render()
		reportLL1Conflicts(ll1)
		return nil
	}
	opt, err := tableOption(kind)
	if err != nil {
		return err
	}
	lrgen := lr.NewTableGenerator(ga, opt)
	if err = lrgen.CreateTables(); err != nil {
		return err
	}
	pterm.DefaultTable.WithHasHeader().WithData(viewTable(lrgen.Table().DebugView(),
		stateLabels(lrgen.Table()), symbolLabels(intp.g))).Render()
	reportConflicts(lrgen.Table())
	return nil
}

func (intp *Intp) transform(arg string) error {
	var useless, null, leftRec bool
	for _, t := range strings.Fields(arg) {
		switch t {
		case "useless":
			useless = true
		case "null":
			null = true
		case "left-recursion":
			leftRec = true
		default:
			return fmt.Errorf("unknown transformation %q", t)
		}
	}
	if !useless && !null && !leftRec {
		useless, null, leftRec = true, true, true
	}
	if err := transform(intp.g, useless, null, leftRec, false); err != nil {
		return err
	}
	printGrammar(intp.g)
	return nil
}

// inputClasses maps token classes of the Go tokenizer to terminals, if the
// grammar uses them.
var inputClasses = map[gramma.TokType]string{
	scanner.Ident:  "ident",
	scanner.Int:    "number",
	scanner.Float:  "number",
	scanner.String: "string",
}

// parse parses input with an SLR table, falling back to LR(1) if the SLR
// table has conflicts.
func (intp *Intp) parse(input string) (*driver.Node, error) {
	ga := lr.Analysis(intp.g)
	lrgen := lr.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
		return nil, err
	}
	if lrgen.HasConflicts {
		tracer().Infof("SLR table has conflicts, trying LR(1)")
		lrgen = lr.NewTableGenerator(ga, lr.UseLR1())
		if err := lrgen.CreateTables(); err != nil {
			return nil, err
		}
	}
	p := driver.NewParser(lrgen.Table())
	scan := scanner.GoTokenizer("input", strings.NewReader(input), scanner.UnifyStrings(true))
	return p.Parse(scan, driver.ByLexeme(intp.g, inputClasses))
}

// treeFrom converts a parse tree for display on a terminal.
func treeFrom(root *driver.Node) pterm.TreeNode {
	var ll pterm.LeveledList
	root.Walk(func(node *driver.Node, depth int) {
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: node.String()})
	})
	return pterm.NewTreeFromLeveledList(ll)
}
