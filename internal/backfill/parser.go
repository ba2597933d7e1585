// Package backfill reads hand-written diaper and feeding logs and loads them
// into the event store.
//
// A log is a sequence of date headers ("2/15") each followed by event lines,
// optionally prefixed with a bullet:
//
//	2/15
//	⁃poop 3:15am
//	⁃3:30am to 5:30am
package backfill

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/babytracker/babytracker/internal/localtime"
	"github.com/babytracker/babytracker/internal/models"
)

var (
	dateHeaderRE = regexp.MustCompile(`^(\d+)/(\d+)$`)
	diaperLineRE = regexp.MustCompile(`(?i)^(poop|pee|both|dry|blowout)\s+(\d+:\d+\s*[ap]m)$`)
	feedLineRE   = regexp.MustCompile(`(?i)^(\d+:\d+\s*[ap]m)\s+to\s+(\d+:\d+\s*[ap]m)$`)
)

const bullets = "⁃•*-"

// maxLineBytes bounds a single log line; longer lines are reported, not parsed.
const maxLineBytes = 64 * 1024

var errLineTooLong = errors.New("line too long")

// errDryDiaper marks "dry" entries, which have no diaper type.
var errDryDiaper = errors.New("dry is not a diaper type")

// IssueKind separates deliberate skips from lines that failed to parse.
type IssueKind string

const (
	IssueSkip  IssueKind = "skip"
	IssueError IssueKind = "error"
)

// Issue describes a recognized line that did not produce an event.
type Issue struct {
	Line int
	Text string
	Kind IssueKind
	Err  error
}

func (i Issue) Error() string {
	return "line " + strconv.Itoa(i.Line) + ": " + i.Err.Error()
}

// Result is either a parsed event or an Issue, in input line order.
type Result[T any] struct {
	Line  int
	Event T
	Issue *Issue
}

// OK reports whether the result carries an event.
func (r Result[T]) OK() bool { return r.Issue == nil }

// Parser turns log text into events using a fixed year and timezone.
type Parser struct {
	norm *localtime.Normalizer
}

func NewParser(n *localtime.Normalizer) *Parser {
	return &Parser{norm: n}
}

// ParseDiapers reads a diaper log. Only a read failure on r returns an error;
// bad or overlong lines are reported as Issues and parsing continues.
func (p *Parser) ParseDiapers(r io.Reader) ([]Result[models.Diaper], error) {
	return parseLines(r, diaperLineRE, func(m []string, d monthDay) (models.Diaper, error) {
		typ := models.DiaperType(strings.ToLower(m[1]))
		if typ == "dry" {
			return models.Diaper{}, errDryDiaper
		}
		ts, err := p.norm.Normalize(d.month, d.day, squeeze(m[2]))
		if err != nil {
			return models.Diaper{}, err
		}
		return models.Diaper{Type: typ, Timestamp: ts}, nil
	})
}

// ParseFeedings reads a feeding log of "<start> to <end>" lines. The two
// endpoints are normalized independently; an end before the start is kept.
func (p *Parser) ParseFeedings(r io.Reader) ([]Result[models.Feeding], error) {
	return parseLines(r, feedLineRE, func(m []string, d monthDay) (models.Feeding, error) {
		start, err := p.norm.Normalize(d.month, d.day, squeeze(m[1]))
		if err != nil {
			return models.Feeding{}, errors.Wrap(err, "start")
		}
		end, err := p.norm.Normalize(d.month, d.day, squeeze(m[2]))
		if err != nil {
			return models.Feeding{}, errors.Wrap(err, "end")
		}
		return models.Feeding{StartTime: start, EndTime: end}, nil
	})
}

type monthDay struct {
	month, day int
}

func parseLines[T any](r io.Reader, eventRE *regexp.Regexp, build func([]string, monthDay) (T, error)) ([]Result[T], error) {
	var (
		out      []Result[T]
		current  monthDay
		haveDate bool
		lineNo   int
	)

	br := bufio.NewReader(r)
	for done := false; !done; {
		raw, err := br.ReadString('\n')
		switch {
		case err == io.EOF:
			done = true
			if raw == "" {
				continue
			}
		case err != nil:
			return out, errors.Wrap(err, "read backfill input")
		}
		lineNo++

		if len(raw) > maxLineBytes {
			out = append(out, issue[T](lineNo, raw[:80]+"...", IssueError, errors.Wrapf(errLineTooLong, "%d bytes", len(raw))))
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := dateHeaderRE.FindStringSubmatch(line); m != nil {
			month, errM := strconv.Atoi(m[1])
			day, errD := strconv.Atoi(m[2])
			if errM != nil || errD != nil {
				haveDate = false
				out = append(out, issue[T](lineNo, line, IssueError, errors.Wrap(localtime.ErrInvalidDate, line)))
				continue
			}
			current, haveDate = monthDay{month: month, day: day}, true
			continue
		}

		line = strings.TrimSpace(strings.TrimLeft(line, bullets))
		m := eventRE.FindStringSubmatch(line)
		if m == nil || !haveDate {
			continue
		}

		ev, err := build(m, current)
		if err != nil {
			kind := IssueError
			if errors.Is(err, errDryDiaper) {
				kind = IssueSkip
			}
			out = append(out, issue[T](lineNo, line, kind, err))
			continue
		}
		out = append(out, Result[T]{Line: lineNo, Event: ev})
	}
	return out, nil
}

func issue[T any](line int, text string, kind IssueKind, err error) Result[T] {
	return Result[T]{Line: line, Issue: &Issue{Line: line, Text: text, Kind: kind, Err: err}}
}

// squeeze drops all whitespace, so "3:15 am" becomes "3:15am".
func squeeze(s string) string {
	return strings.Join(strings.Fields(s), "")
}
