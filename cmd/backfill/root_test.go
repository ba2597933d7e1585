package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/babytracker/babytracker/internal/backfill"
	"github.com/babytracker/babytracker/internal/config"
	"github.com/babytracker/babytracker/internal/localtime"
	"github.com/babytracker/babytracker/internal/models"
	"github.com/babytracker/babytracker/internal/store"
)

func TestImportDiapers_DryRunPrintsYAML(t *testing.T) {
	dryRun = true
	defer func() { dryRun = false }()

	norm, err := localtime.NewNormalizer(2026, "America/Chicago")
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()

	var out bytes.Buffer
	in := strings.NewReader("2/15\n⁃poop 3:15am\n⁃dry 4:00am\n")
	if err := importDiapers(context.Background(), backfill.NewParser(norm), backfill.NewImporter(st), in, &out); err != nil {
		t.Fatalf("import: %v", err)
	}

	var got struct {
		Events []models.Diaper `yaml:"events"`
		Issues []previewIssue  `yaml:"issues"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode preview: %v\n%s", err, out.String())
	}
	if len(got.Events) != 1 || got.Events[0].Type != models.DiaperPoop {
		t.Fatalf("unexpected events: %+v", got.Events)
	}
	if len(got.Issues) != 1 || got.Issues[0].Kind != backfill.IssueSkip || got.Issues[0].Line != 3 {
		t.Fatalf("unexpected issues: %+v", got.Issues)
	}

	rows, _ := st.Diapers().List(context.Background(), models.ListFilter{})
	if len(rows) != 0 {
		t.Fatalf("dry run wrote %d rows", len(rows))
	}
}

func TestImportFeedings_WritesThroughImporter(t *testing.T) {
	norm, err := localtime.NewNormalizer(2026, "America/Chicago")
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()

	in := strings.NewReader("2/15\n⁃3:30am to 5:30am\n")
	if err := importFeedings(context.Background(), backfill.NewParser(norm), backfill.NewImporter(st), in, &bytes.Buffer{}); err != nil {
		t.Fatalf("import: %v", err)
	}

	rows, _ := st.Feedings().List(context.Background(), models.ListFilter{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 feeding, got %+v", rows)
	}
}

func TestOpenStore_MemoryOnlyForDryRun(t *testing.T) {
	cfg := config.Config{Store: config.StoreMemory}

	if _, err := openStore(context.Background(), cfg, false); err == nil {
		t.Fatal("expected a real import into the memory store to be refused")
	}

	st, err := openStore(context.Background(), cfg, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Fatalf("dry run should use a memory store, got %T", st)
	}
}
