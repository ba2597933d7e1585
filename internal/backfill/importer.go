package backfill

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/babytracker/babytracker/internal/metrics"
	"github.com/babytracker/babytracker/internal/models"
	"github.com/babytracker/babytracker/internal/store"
)

// Report summarizes one import run.
type Report struct {
	Inserted int
	Failed   int
	Skipped  int
	Errors   int
}

// Importer commits parsed events one row at a time. A failed insert is
// logged and counted; the rest of the batch still goes in.
type Importer struct {
	st store.Store
}

func NewImporter(st store.Store) *Importer {
	return &Importer{st: st}
}

// ImportDiapers inserts every successful result and records every issue.
func (im *Importer) ImportDiapers(ctx context.Context, results []Result[models.Diaper]) Report {
	var rep Report
	for _, r := range results {
		if !r.OK() {
			rep.note(models.KindDiaper, r.Issue)
			continue
		}

		d := r.Event
		if err := im.st.Diapers().Create(ctx, &d); err != nil {
			rep.Failed++
			metrics.BackfillRecords.WithLabelValues(models.KindDiaper, "failed").Inc()
			log.WithFields(log.Fields{"line": r.Line, "type": d.Type, "timestamp": d.Timestamp}).
				WithError(err).Error("Error inserting diaper")
			continue
		}

		rep.Inserted++
		metrics.BackfillRecords.WithLabelValues(models.KindDiaper, "inserted").Inc()
		log.WithFields(log.Fields{"id": d.ID, "type": d.Type, "timestamp": d.Timestamp}).Info("Inserted diaper")
	}
	return rep
}

// ImportFeedings is ImportDiapers for feeding logs. Sessions that end before
// they start are inserted unchanged and flagged in the log.
func (im *Importer) ImportFeedings(ctx context.Context, results []Result[models.Feeding]) Report {
	var rep Report
	for _, r := range results {
		if !r.OK() {
			rep.note(models.KindFeeding, r.Issue)
			continue
		}

		f := r.Event
		if f.Inverted() {
			log.WithFields(log.Fields{"line": r.Line, "start_time": f.StartTime, "end_time": f.EndTime}).
				Warn("Feeding ends before it starts; keeping as entered")
		}
		if err := im.st.Feedings().Create(ctx, &f); err != nil {
			rep.Failed++
			metrics.BackfillRecords.WithLabelValues(models.KindFeeding, "failed").Inc()
			log.WithFields(log.Fields{"line": r.Line, "start_time": f.StartTime, "end_time": f.EndTime}).
				WithError(err).Error("Error inserting feeding")
			continue
		}

		rep.Inserted++
		metrics.BackfillRecords.WithLabelValues(models.KindFeeding, "inserted").Inc()
		log.WithFields(log.Fields{"id": f.ID, "start_time": f.StartTime, "end_time": f.EndTime}).Info("Inserted feeding")
	}
	return rep
}

func (rep *Report) note(kind string, is *Issue) {
	fields := log.Fields{"line": is.Line, "text": is.Text}
	if is.Kind == IssueSkip {
		rep.Skipped++
		metrics.BackfillRecords.WithLabelValues(kind, "skipped").Inc()
		log.WithFields(fields).Infof("Skipping entry: %v", is.Err)
		return
	}
	rep.Errors++
	metrics.BackfillRecords.WithLabelValues(kind, "error").Inc()
	log.WithFields(fields).WithError(is.Err).Warn("Error parsing line")
}
