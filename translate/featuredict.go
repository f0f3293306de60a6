package translate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hkvist/t2s/feature"
)

// parseFeatureDictionary reads a weight vector file: one "name=value"
// feature per non-blank line, blank lines and "#"-prefixed lines
// ignored. This is the flat text format a saved model's tuned weights
// would naturally be stored in; original_source reads weights as a
// plain vector<double> indexed by a global feature dictionary (FD), but
// since this core has no such global, a named-weight text file plays
// the same "load tuned weights from disk" role.
func parseFeatureDictionary(r io.Reader) (feature.Vector, error) {
	v := make(feature.Vector)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("line %d: bad feature %q, want name=value", lineNo, line)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(line[eq+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad feature value in %q: %w", lineNo, line, err)
		}
		v[strings.TrimSpace(line[:eq])] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading feature dictionary: %w", err)
	}
	return v, nil
}
