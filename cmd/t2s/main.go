// Command t2s is a small interactive driver for the translate package:
// load one or more grammar files, read tree-fragment sentences, and
// print the resulting translation forest (or report why none exists).
//
// Grounded almost directly on terex/terexlang/trepl/repl.go's startup
// sequence (flag parsing, gologadapter install, readline REPL, pterm
// colored output) — this is ambient CLI plumbing the core (spec §1)
// explicitly keeps out of scope, exercising the translate facade rather
// than implementing any of its own logic.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/hkvist/t2s/translate"
)

// tracer traces with key 't2s.cmd'.
func tracer() tracing.Trace {
	return tracing.Select("t2s.cmd")
}

// grammarFiles collects repeated -grammar flags, cdec's "-g" conf option
// the teacher's conf["grammar"] vector<string> models.
type grammarFiles []string

func (g *grammarFiles) String() string { return strings.Join(*g, ",") }
func (g *grammarFiles) Set(v string) error {
	*g = append(*g, v)
	return nil
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()

	var grammars grammarFiles
	flag.Var(&grammars, "grammar", "path to a tree-to-string grammar file (repeatable)")
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	passThrough := flag.Bool("pass-through", true, "synthesize an identity pass-through grammar per sentence")
	weightsFile := flag.String("weights", "", "path to a feature-dictionary weight file")
	flag.Parse()

	tracer().SetTraceLevel(tracing.LevelInfo)
	pterm.Info.Println("Welcome to t2s")
	tracer().Infof("Trace level is %s", *tlevel)
	tracer().SetTraceLevel(traceLevel(*tlevel))

	opts := make([]translate.Option, 0, len(grammars)+2)
	for _, g := range grammars {
		opts = append(opts, translate.WithGrammarFile(g))
	}
	opts = append(opts, translate.WithPassThrough(*passThrough))
	if *weightsFile != "" {
		opts = append(opts, translate.WithFeatureDictionary(*weightsFile))
	}

	tr, err := translate.New(opts...)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}

	repl, err := readline.New("t2s> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()

	tracer().Infof("Quit with <ctrl>D")
	runREPL(repl, tr)
}

// runREPL reads one tree-fragment sentence per line, translates it, and
// completes the sentence (dropping any synthesized pass-through grammar)
// before reading the next one — mirroring how a decoder driving
// Tree2StringTranslatorImpl would call Translate then SentenceComplete
// once per input sentence.
func runREPL(repl *readline.Instance, tr *translate.Translator) {
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		translateOne(tr, line)
		tr.SentenceComplete()
	}
	pterm.Info.Println("Good bye!")
}

func translateOne(tr *translate.Translator, line string) {
	hg, ok, err := tr.Translate(line, &translate.SentenceMetadata{SourceText: line})
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if !ok {
		pterm.Error.Println(fmt.Sprintf("no derivation for %q", line))
		return
	}
	goal, _ := hg.Goal()
	pterm.Info.Println(fmt.Sprintf("%d node(s), %d edge(s), goal weight %v", len(hg.Nodes), len(hg.Edges), hg.Nodes[goal].Weight))
	pterm.DefaultTree.WithRoot(bestDerivationTree(hg, goal)).Render()
}

func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
