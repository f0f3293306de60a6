package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/symbol"
	"github.com/hkvist/t2s/tree"
)

// tracer traces with key 't2s.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("t2s.grammar")
}

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

// initialState is the only transducer state this core supports (spec §9
// Open Questions: multi-state transducers are future work).
const initialState uint32 = 0

// LoadRules reads one rule per non-blank line of r in the
// "SRC ||| TGT ||| FEATS" format of ReadTree2StringGrammar, inserting
// each into a freshly built Root under initialState. tbl interns every
// category and word name the source sides mention, so grammar and input
// tree share one symbol space.
func LoadRules(r io.Reader, tbl *symbol.Table) (*Root, error) {
	root := NewRoot()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := loadLine(root, line, tbl); err != nil {
			return nil, fmt.Errorf("grammar: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("grammar: reading rules: %w", err)
	}
	tracer().Debugf("grammar: loaded %d trie state(s)", len(root.states))
	return root, nil
}

func loadLine(root *Root, line string, tbl *symbol.Table) error {
	pos := strings.Index(line, "|||")
	if pos < 0 {
		return fmt.Errorf("missing '|||' separator")
	}
	srcText := strings.TrimRight(line[:pos], " ")
	if srcText == "" {
		return fmt.Errorf("empty source side")
	}
	rest := strings.TrimLeft(line[pos+3:], " ")

	tgtText, featsText, err := splitTargetAndFeatures(rest)
	if err != nil {
		return err
	}

	frag, err := tree.ParseInto(srcText, tbl)
	if err != nil {
		return fmt.Errorf("parsing source tree %q: %w", srcText, err)
	}

	root0 := frag.Nodes[0]
	tokens := fragmentTokens(frag)

	target, err := parseTarget(tgtText)
	if err != nil {
		return fmt.Errorf("parsing target %q: %w", tgtText, err)
	}
	feats, err := parseFeatures(featsText)
	if err != nil {
		return fmt.Errorf("parsing features %q: %w", featsText, err)
	}

	rule := &Rule{
		LHS:      root0.LHS.ID(),
		Arity:    countFrontiers(tokens),
		Target:   target,
		Features: feats,
	}
	root.Insert(initialState, tokens, rule)
	return nil
}

// fragmentTokens returns the exact sequence of symbols the composition
// engine's "sym = *s.in_iter" would try, in order, while matching an
// input subtree shaped like frag's root: Fragment.Begin already starts
// at the root's own LHS token, and Advance transparently steps through
// nested subtrees and skips their closing markers (see
// tree.Iterator.Advance). This is the trie path ReadTree2StringGrammar
// builds with "for (auto sym : rule_src) cur = &cur->next[sym]".
func fragmentTokens(frag *tree.Fragment) []symbol.Symbol {
	var toks []symbol.Symbol
	for it := frag.Begin(0); !it.AtEnd(); it = it.Advance() {
		toks = append(toks, it.Current())
	}
	return toks
}

// countFrontiers returns the number of RHSFrontier positions in a rule's
// source-side token stream: the rule's arity (spec §4.F) is a property of
// what the source pattern matches, not of how many of those positions the
// target side happens to reference.
func countFrontiers(tokens []symbol.Symbol) int {
	n := 0
	for _, tok := range tokens {
		if tok.IsFrontierTagged() {
			n++
		}
	}
	return n
}

// splitTargetAndFeatures separates "TGT ||| FEATS" the way the rest of
// a grammar line (after SRC) is laid out.
func splitTargetAndFeatures(rest string) (tgt, feats string, err error) {
	pos := strings.Index(rest, "|||")
	if pos < 0 {
		return "", "", fmt.Errorf("missing second '|||' separator")
	}
	tgt = strings.TrimRight(rest[:pos], " ")
	feats = strings.TrimLeft(rest[pos+3:], " ")
	return tgt, feats, nil
}

// parseTarget parses a target template: literal words interspersed with
// nonterminal references, either cdec's bracketed "[N]" form (N counting
// from 1) or spec §8's "Cat<idx>" form (a category label directly
// followed by a 0-based index, e.g. "NP0", "y0") — both name which
// source-side frontier position (in matched order) to substitute.
func parseTarget(text string) ([]TargetSym, error) {
	fields := strings.Fields(text)
	target := make([]TargetSym, 0, len(fields))
	for _, f := range fields {
		if n, ok := parseVarIndex(f); ok {
			target = append(target, TargetSym{IsVariable: true, VarIndex: n})
		} else {
			target = append(target, TargetSym{Terminal: f})
		}
	}
	return target, nil
}

// parseVarIndex recognizes a target nonterminal reference and returns its
// 0-based variable index. "[N]" is cdec's 1-based bracketed form; a bare
// word ending in a run of digits with a non-empty, non-digit prefix (e.g.
// "NP0", "y0") is spec §8's Cat<idx> form, 0-based. A field of digits
// alone, or a bracketed field that isn't a positive integer, is rejected
// as a variable and falls back to a literal target word.
func parseVarIndex(f string) (int, bool) {
	if strings.HasPrefix(f, "[") && strings.HasSuffix(f, "]") && len(f) > 2 {
		n, err := strconv.Atoi(f[1 : len(f)-1])
		if err != nil || n < 1 {
			return 0, false
		}
		return n - 1, true
	}
	i := len(f)
	for i > 0 && f[i-1] >= '0' && f[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(f) {
		return 0, false
	}
	n, err := strconv.Atoi(f[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFeatures parses "name=value name=value …".
func parseFeatures(text string) (feature.Vector, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, nil
	}
	v := make(feature.Vector, len(fields))
	for _, f := range fields {
		eq := strings.IndexByte(f, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("bad feature %q, want name=value", f)
		}
		val, err := strconv.ParseFloat(f[eq+1:], 64)
		if err != nil {
			return nil, fmt.Errorf("bad feature value in %q: %w", f, err)
		}
		v[f[:eq]] = val
	}
	return v, nil
}
