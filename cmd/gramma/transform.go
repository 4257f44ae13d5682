package main

import (
	"github.com/npillmayer/gramma/lr"
	"github.com/spf13/cobra"
)

var transformFlags = struct {
	useless   bool
	null      bool
	leftRec   bool
	keepStart bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "transform FILE",
		Short: "Transform a grammar and print the resulting rules",
		Long: `Applies grammar transformations in the order useless symbols,
null productions, left recursion. Without flags, all transformations are applied.`,
		Example: `  gramma transform --null expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTransform,
	}
	cmd.Flags().BoolVar(&transformFlags.useless, "useless", false, "remove useless symbols")
	cmd.Flags().BoolVar(&transformFlags.null, "null", false, "remove null productions")
	cmd.Flags().BoolVar(&transformFlags.leftRec, "left-recursion", false, "remove direct left recursion")
	cmd.Flags().BoolVar(&transformFlags.keepStart, "keep-start-epsilon", false,
		"keep an ε-rule for a nullable start symbol")
	rootCmd.AddCommand(cmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	f := transformFlags
	if !f.useless && !f.null && !f.leftRec {
		f.useless, f.null, f.leftRec = true, true, true
	}
	if err = transform(g, f.useless, f.null, f.leftRec, f.keepStart); err != nil {
		return err
	}
	printGrammar(g)
	return nil
}

func transform(g *lr.Grammar, useless, null, leftRec, keepStart bool) error {
	if useless {
		if err := lr.RemoveUselessSymbols(g, nil); err != nil {
			return err
		}
	}
	if null {
		var opts []lr.TransformOption
		if keepStart {
			opts = append(opts, lr.KeepStartEpsilon())
		}
		if err := lr.RemoveNullProductions(g, nil, opts...); err != nil {
			return err
		}
	}
	if leftRec {
		if err := lr.RemoveLeftRecursion(g); err != nil {
			return err
		}
	}
	return nil
}
