package backfill

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/babytracker/babytracker/internal/localtime"
	"github.com/babytracker/babytracker/internal/models"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	n, err := localtime.NewNormalizer(2026, "America/Chicago")
	if err != nil {
		t.Fatalf("normalizer: %v", err)
	}
	return NewParser(n)
}

func events[T any](rs []Result[T]) []T {
	var out []T
	for _, r := range rs {
		if r.OK() {
			out = append(out, r.Event)
		}
	}
	return out
}

func issues[T any](rs []Result[T]) []Issue {
	var out []Issue
	for _, r := range rs {
		if !r.OK() {
			out = append(out, *r.Issue)
		}
	}
	return out
}

func TestParseDiapers_Example(t *testing.T) {
	p := newParser(t)

	rs, err := p.ParseDiapers(strings.NewReader("2/15\n⁃poop 3:15am\n⁃dry 4:00am\n⁃pee 9:00am\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := events(rs)
	want := []models.Diaper{
		{Type: models.DiaperPoop, Timestamp: time.Date(2026, 2, 15, 9, 15, 0, 0, time.UTC)},
		{Type: models.DiaperPee, Timestamp: time.Date(2026, 2, 15, 15, 0, 0, 0, time.UTC)},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Type != want[i].Type || !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Fatalf("event %d: got %+v want %+v", i, got[i], want[i])
		}
	}

	is := issues(rs)
	if len(is) != 1 || is[0].Kind != IssueSkip || is[0].Line != 3 {
		t.Fatalf("expected one skip on line 3, got %+v", is)
	}
}

func TestParseDiapers_DropsEventsBeforeFirstDate(t *testing.T) {
	p := newParser(t)

	rs, err := p.ParseDiapers(strings.NewReader("poop 1:00am\n⁃dry 2:00am\n2/16\npee 3:00am\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rs) != 1 || !rs[0].OK() || rs[0].Event.Type != models.DiaperPee {
		t.Fatalf("expected only the dated pee event, got %+v", rs)
	}
}

func TestParseDiapers_TolerantOfNoiseAndCase(t *testing.T) {
	p := newParser(t)

	input := strings.Join([]string{
		"",
		"Sunday notes",
		"2/15",
		"  ⁃ Both 11:48 PM  ",
		"• blowout 12:05am",
		"poop at some point",
		"",
		"3/1",
		"- pee 12:00pm",
	}, "\n")

	rs, err := p.ParseDiapers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := events(rs)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %+v", rs)
	}
	checks := []struct {
		typ  models.DiaperType
		when string
	}{
		{models.DiaperBoth, "2026-02-16T05:48:00Z"},
		{models.DiaperBlowout, "2026-02-15T06:05:00Z"},
		{models.DiaperPee, "2026-03-01T18:00:00Z"},
	}
	for i, c := range checks {
		if got[i].Type != c.typ || got[i].Timestamp.Format(time.RFC3339) != c.when {
			t.Fatalf("event %d: got %s %s want %s %s", i, got[i].Type, got[i].Timestamp.Format(time.RFC3339), c.typ, c.when)
		}
	}
	if len(issues(rs)) != 0 {
		t.Fatalf("expected no issues, got %+v", issues(rs))
	}
}

func TestParseDiapers_BadLinesAreReportedNotFatal(t *testing.T) {
	p := newParser(t)

	rs, err := p.ParseDiapers(strings.NewReader("4/31\npee 1:00am\n2/15\npoop 13:00pm\npee 2:00am\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	is := issues(rs)
	if len(is) != 2 {
		t.Fatalf("expected 2 issues, got %+v", is)
	}
	if is[0].Kind != IssueError || !errors.Is(is[0].Err, localtime.ErrInvalidDate) {
		t.Fatalf("first issue should be invalid date, got %+v", is[0])
	}
	if is[1].Kind != IssueError || !errors.Is(is[1].Err, localtime.ErrMalformedTime) {
		t.Fatalf("second issue should be malformed time, got %+v", is[1])
	}
	if got := events(rs); len(got) != 1 || got[0].Type != models.DiaperPee {
		t.Fatalf("expected the last pee to survive, got %+v", got)
	}
}

func TestParseDiapers_KeepsFileOrder(t *testing.T) {
	p := newParser(t)

	rs, err := p.ParseDiapers(strings.NewReader("2/20\npee 1:00am\n2/10\npoop 1:00am\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := events(rs)
	if len(got) != 2 || got[0].Timestamp.Before(got[1].Timestamp) {
		t.Fatalf("expected file order (2/20 before 2/10), got %+v", got)
	}
}

func TestParseFeedings(t *testing.T) {
	p := newParser(t)

	input := "2/15\n⁃3:30am to 5:30am\n⁃11:45pm to 12:20am\n⁃3:30am until 4am\n⁃9:99am to 10:00am\n"
	rs, err := p.ParseFeedings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := events(rs)
	if len(got) != 2 {
		t.Fatalf("expected 2 feedings, got %+v", rs)
	}
	if got[0].StartTime.Format(time.RFC3339) != "2026-02-15T09:30:00Z" ||
		got[0].EndTime.Format(time.RFC3339) != "2026-02-15T11:30:00Z" {
		t.Fatalf("unexpected first feeding: %+v", got[0])
	}
	// Both endpoints share the header date, so an overnight session is inverted.
	if !got[1].Inverted() {
		t.Fatalf("expected inverted overnight feeding, got %+v", got[1])
	}

	is := issues(rs)
	if len(is) != 1 || !errors.Is(is[0].Err, localtime.ErrMalformedTime) {
		t.Fatalf("expected one malformed-time issue, got %+v", is)
	}
}

func TestParseFeedings_NoDateHeader(t *testing.T) {
	p := newParser(t)

	rs, err := p.ParseFeedings(strings.NewReader("3:30am to 5:30am\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rs) != 0 {
		t.Fatalf("expected nothing, got %+v", rs)
	}
}

func TestParseDiapers_OverlongLineDoesNotStopParsing(t *testing.T) {
	p := newParser(t)

	junk := strings.Repeat("x", 70*1024)
	input := "2/15\npoop 1:00am\n" + junk + "\npee 2:00am\n\r\nboth 3:00am"
	rs, err := p.ParseDiapers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := events(rs)
	if len(got) != 3 || got[0].Type != models.DiaperPoop || got[1].Type != models.DiaperPee || got[2].Type != models.DiaperBoth {
		t.Fatalf("expected events on both sides of the long line, got %+v", got)
	}
	is := issues(rs)
	if len(is) != 1 || is[0].Line != 3 || is[0].Kind != IssueError || !errors.Is(is[0].Err, errLineTooLong) {
		t.Fatalf("expected one too-long issue on line 3, got %+v", is)
	}
}
