package tree

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token kinds for the tree-fragment textual syntax, following the
// literal+action registration style of lr/scanner/lexmach's lexmachine
// adapter.
const (
	tokLParen = iota
	tokRParen
	tokLBracket
	tokRBracket
	tokWord
)

func makeLexer() (*lexmachine.Lexer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`\(`), tokenAction(tokLParen))
	lexer.Add([]byte(`\)`), tokenAction(tokRParen))
	lexer.Add([]byte(`\[`), tokenAction(tokLBracket))
	lexer.Add([]byte(`\]`), tokenAction(tokRBracket))
	lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
	lexer.Add([]byte(`[^ \t\n\r()\[\]]+`), tokenAction(tokWord))
	if err := lexer.Compile(); err != nil {
		return nil, fmt.Errorf("tree: compiling fragment lexer: %w", err)
	}
	return lexer, nil
}

func tokenAction(kind int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(kind, string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// lexFragment tokenizes text into a flat slice of lexmachine tokens.
func lexFragment(text string) ([]*lexmachine.Token, error) {
	lexer, err := makeLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lexer.Scanner([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("tree: scanning fragment: %w", err)
	}
	var toks []*lexmachine.Token
	for {
		tok, err, eof := scanner.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				return nil, fmt.Errorf("tree: unrecognized input near position %d", ui.StartColumn)
			}
			return nil, fmt.Errorf("tree: scanning fragment: %w", err)
		}
		toks = append(toks, tok.(*lexmachine.Token))
	}
	return toks, nil
}
