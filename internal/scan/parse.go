package scan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/beacon/internal/geom"
)

// ParseError reports a malformed line in scanner input.
type ParseError struct {
	Line   int    // 1-based line number, 0 when not tied to a line
	Text   string // offending line, trimmed
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse: %s", e.Reason)
	}
	return fmt.Sprintf("parse: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

const (
	headerPrefix = "--- scanner "
	headerSuffix = " ---"
)

// Parse reads scanner blocks from r.
// Scanners are returned in input order.
func Parse(r io.Reader) ([]Scanner, error) {
	var (
		scanners []Scanner
		current  *Scanner
		lineNo   int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if line == "" {
			current = nil
			continue
		}

		if strings.HasPrefix(line, "---") {
			id, err := parseHeader(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: err.Error()}
			}
			scanners = append(scanners, Scanner{ID: id})
			current = &scanners[len(scanners)-1]
			continue
		}

		if current == nil {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: "coordinate outside a scanner block"}
		}

		p, err := geom.ParsePoint(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: err.Error()}
		}
		current.Beacons = append(current.Beacons, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse: read input: %w", err)
	}

	if len(scanners) == 0 {
		return nil, &ParseError{Reason: "no scanners in input"}
	}
	return scanners, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) ([]Scanner, error) {
	return Parse(strings.NewReader(s))
}

func parseHeader(line string) (int, error) {
	if !strings.HasPrefix(line, headerPrefix) || !strings.HasSuffix(line, headerSuffix) {
		return 0, fmt.Errorf("malformed scanner header")
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, headerPrefix), headerSuffix)
	id, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil {
		return 0, fmt.Errorf("scanner id: %w", err)
	}
	if id < 0 {
		return 0, fmt.Errorf("scanner id must be non-negative")
	}
	return id, nil
}
