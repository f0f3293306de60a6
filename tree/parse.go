package tree

import (
	"fmt"

	"github.com/hkvist/t2s/symbol"
	"github.com/timtadh/lexmachine"
)

// rawChildKind distinguishes a parsed child position before it is
// interned into a Fragment's Symbol encoding.
type rawChildKind int

const (
	rawTerminal rawChildKind = iota
	rawFrontier
	rawSubtree
)

type rawChild struct {
	kind     rawChildKind
	word     string  // rawTerminal
	category string  // rawFrontier
	sub      *rawNode // rawSubtree
}

type rawNode struct {
	category string
	children []rawChild
}

// Parse parses the tree-fragment textual syntax described in spec §6:
// "(LHS child1 child2 …)" where children are bare-word terminals,
// "[X]" frontier variables, or nested parenthesized subtrees. A
// malformed tree is an InputMalformed error (spec §7): the composition
// engine never sees a Fragment for input that failed to parse.
func Parse(text string) (*Fragment, error) {
	return ParseInto(text, symbol.NewTable())
}

// ParseInto parses text the same way Parse does, interning category and
// word names into the given table. Grammar rules and the input tree they
// compose against must share one table so that categories compare equal
// across them.
func ParseInto(text string, table *symbol.Table) (*Fragment, error) {
	toks, err := lexFragment(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("tree: empty fragment text")
	}
	p := &parser{toks: toks}
	root, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("tree: trailing tokens after top-level fragment")
	}
	return flatten(root, table), nil
}

type parser struct {
	toks []*lexmachine.Token
	pos  int
}

func (p *parser) peek() (*lexmachine.Token, bool) {
	if p.pos >= len(p.toks) {
		return nil, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (*lexmachine.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) expect(kind int, what string) (*lexmachine.Token, error) {
	tok, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("tree: expected %s, got end of input", what)
	}
	if tok.Type != kind {
		return nil, fmt.Errorf("tree: expected %s, got %q", what, string(tok.Lexeme))
	}
	return tok, nil
}

// parseNode parses "(WORD child*)".
func (p *parser) parseNode() (*rawNode, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	catTok, err := p.expect(tokWord, "a category name")
	if err != nil {
		return nil, err
	}
	n := &rawNode{category: string(catTok.Lexeme)}
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("tree: unterminated fragment, expected ')'")
		}
		switch tok.Type {
		case tokRParen:
			p.pos++
			return n, nil
		case tokLBracket:
			p.pos++
			nameTok, err := p.expect(tokWord, "a frontier category name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBracket, "']'"); err != nil {
				return nil, err
			}
			n.children = append(n.children, rawChild{kind: rawFrontier, category: string(nameTok.Lexeme)})
		case tokLParen:
			sub, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, rawChild{kind: rawSubtree, sub: sub})
		case tokWord:
			p.pos++
			n.children = append(n.children, rawChild{kind: rawTerminal, word: string(tok.Lexeme)})
		default:
			return nil, fmt.Errorf("tree: unexpected token %q", string(tok.Lexeme))
		}
	}
}

// flatten assigns preorder node indices and builds the flat symbol
// stream, recording the bookkeeping Iterator needs.
func flatten(root *rawNode, table *symbol.Table) *Fragment {
	f := &Fragment{
		Table:         table,
		childAt:       make(map[int]int),
		matchingClose: make(map[int]int),
	}
	flattenNode(f, root)
	return f
}

func flattenNode(f *Fragment, n *rawNode) int {
	nodeIdx := len(f.Nodes)
	f.Nodes = append(f.Nodes, Node{}) // placeholder, filled below
	f.nodeStart = append(f.nodeStart, 0)
	f.nodeClose = append(f.nodeClose, 0)

	catID := f.Table.Intern(n.category)
	lhsSym := symbol.NewLHS(catID)
	f.nodeStart[nodeIdx] = len(f.stream)
	f.stream = append(f.stream, lhsSym)

	rhs := make([]symbol.Symbol, 0, len(n.children))
	for _, c := range n.children {
		switch c.kind {
		case rawTerminal:
			sym := symbol.NewTerminal(f.Table.Intern(c.word))
			rhs = append(rhs, sym)
			f.stream = append(f.stream, sym)
		case rawFrontier:
			sym := symbol.NewRHSFrontier(f.Table.Intern(c.category))
			rhs = append(rhs, sym)
			f.stream = append(f.stream, sym)
		case rawSubtree:
			childCatID := f.Table.Intern(c.sub.category)
			entrySym := symbol.NewRHSEntry(childCatID)
			entryPos := len(f.stream)
			f.stream = append(f.stream, entrySym)
			rhs = append(rhs, entrySym)
			childIdx := flattenNode(f, c.sub)
			f.childAt[entryPos] = childIdx
			f.matchingClose[entryPos] = f.nodeClose[childIdx]
		}
	}

	closePos := len(f.stream)
	f.stream = append(f.stream, symbol.CloseMarker)
	f.nodeClose[nodeIdx] = closePos
	f.Nodes[nodeIdx] = Node{LHS: lhsSym, RHS: rhs}
	return nodeIdx
}
