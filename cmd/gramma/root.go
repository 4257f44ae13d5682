package main

import (
	"github.com/npillmayer/gramma/ebnf"
	"github.com/npillmayer/gramma/lr"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'gramma.lr'.
func tracer() tracing.Trace {
	return tracing.Select("gramma.lr")
}

var traceKeys = []string{"gramma.lr", "gramma.ebnf", "gramma.scanner", "gramma.driver"}

var rootFlags = struct {
	trace string
}{}

var rootCmd = &cobra.Command{
	Use:   "gramma",
	Short: "Analyze context-free grammars and create parse tables",
	Long: `gramma reads grammars in EBNF notation and
- computes nullable symbols, FIRST and FOLLOW sets,
- applies grammar transformations,
- creates LR(0), SLR, LR(1) and LL(1) parse tables.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initDisplay()
		setTraceLevel(rootFlags.trace)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.trace, "trace", "Error",
		"Trace level [Debug|Info|Error]")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(l string) {
	level := tracing.TraceLevelFromString(l)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

func loadGrammar(path string) (*lr.Grammar, error) {
	g, err := ebnf.Load(path)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded %v", g)
	return g, nil
}
