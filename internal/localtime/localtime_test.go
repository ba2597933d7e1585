package localtime

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func chicago(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(2026, "America/Chicago")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return n
}

func TestParseClock_TwelveHourTable(t *testing.T) {
	cases := []struct {
		in   string
		hour int
		min  int
	}{
		{"12:00am", 0, 0},
		{"12:30AM", 0, 30},
		{"1:00am", 1, 0},
		{"11:59am", 11, 59},
		{"12:00pm", 12, 0},
		{"12:45Pm", 12, 45},
		{"1:00pm", 13, 0},
		{"11:48pm", 23, 48},
	}
	for _, tc := range cases {
		h, m, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if h != tc.hour || m != tc.min {
			t.Fatalf("%s: got %02d:%02d want %02d:%02d", tc.in, h, m, tc.hour, tc.min)
		}
	}
}

// Every (h, am/pm) pair maps to a distinct 24-hour value covering 0..23.
func TestParseClock_Bijection(t *testing.T) {
	seen := map[int]string{}
	for _, suffix := range []string{"am", "pm"} {
		for h := 1; h <= 12; h++ {
			in := fmt.Sprintf("%d:00%s", h, suffix)
			got, _, err := ParseClock(in)
			if err != nil {
				t.Fatalf("%s: %v", in, err)
			}
			if prev, dup := seen[got]; dup {
				t.Fatalf("%s and %s both map to %d", prev, in, got)
			}
			seen[got] = in
		}
	}
	for h := 0; h < 24; h++ {
		if _, ok := seen[h]; !ok {
			t.Fatalf("hour %d not produced", h)
		}
	}
}

func TestParseClock_Malformed(t *testing.T) {
	for _, in := range []string{"", "3:15", "315am", "0:15am", "13:00pm", "3:60am", "3:15 am", "noon"} {
		if _, _, err := ParseClock(in); !errors.Is(err, ErrMalformedTime) {
			t.Fatalf("%q: expected ErrMalformedTime, got %v", in, err)
		}
	}
}

func TestNormalize_ConvertsToUTC(t *testing.T) {
	n := chicago(t)

	cases := []struct {
		month, day int
		clock      string
		want       string
	}{
		// CST, UTC-6
		{2, 15, "3:15am", "2026-02-15T09:15:00Z"},
		{2, 15, "9:00am", "2026-02-15T15:00:00Z"},
		{2, 15, "11:30pm", "2026-02-16T05:30:00Z"},
		// CDT, UTC-5
		{7, 4, "12:00pm", "2026-07-04T17:00:00Z"},
		{3, 8, "3:00am", "2026-03-08T08:00:00Z"},
		// spring-forward gap: 2:xx never happens, read as standard time
		{3, 8, "2:30am", "2026-03-08T08:30:00Z"},
		{3, 8, "1:59am", "2026-03-08T07:59:00Z"},
		// fall-back overlap: 1:xx happens twice, the standard-time one is used
		{11, 1, "1:30am", "2026-11-01T07:30:00Z"},
		{11, 1, "12:59am", "2026-11-01T05:59:00Z"},
		{11, 1, "2:00am", "2026-11-01T08:00:00Z"},
	}
	for _, tc := range cases {
		got, err := n.Normalize(tc.month, tc.day, tc.clock)
		if err != nil {
			t.Fatalf("%d/%d %s: %v", tc.month, tc.day, tc.clock, err)
		}
		if got.Location() != time.UTC {
			t.Fatalf("expected UTC location, got %v", got.Location())
		}
		if s := got.Format(time.RFC3339); s != tc.want {
			t.Fatalf("%d/%d %s: got %s want %s", tc.month, tc.day, tc.clock, s, tc.want)
		}
	}
}

func TestNormalize_ZoneWithoutDST(t *testing.T) {
	n, err := NewNormalizer(2026, "Asia/Seoul")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	got, err := n.Normalize(3, 8, "2:30am")
	if err != nil {
		t.Fatal(err)
	}
	if s := got.Format(time.RFC3339); s != "2026-03-07T17:30:00Z" {
		t.Fatalf("got %s", s)
	}
}

func TestNormalize_InvalidDate(t *testing.T) {
	n := chicago(t)
	for _, md := range [][2]int{{4, 31}, {2, 29}, {13, 1}, {0, 10}, {6, 0}} {
		if _, err := n.Normalize(md[0], md[1], "1:00am"); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%d/%d: expected ErrInvalidDate, got %v", md[0], md[1], err)
		}
	}
}

func TestNormalize_MalformedBeforeDate(t *testing.T) {
	n := chicago(t)
	if _, err := n.Normalize(2, 15, "25:00"); !errors.Is(err, ErrMalformedTime) {
		t.Fatalf("expected ErrMalformedTime, got %v", err)
	}
}

func TestNewNormalizer_UnknownZone(t *testing.T) {
	if _, err := NewNormalizer(2026, "Mars/Olympus_Mons"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
