// Package ingestion tracks processing attempts against documents.
//
// Each trigger creates a record, moves it through
// pending -> processing -> completed|failed, and makes one call to the
// external processor in between. The record is persisted at every step, so
// a failed call still leaves a failed record behind.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

// Documents looks up the document an ingestion refers to
type Documents interface {
	FindDocument(id uint) (*model.Document, error)
}

// Processor performs the actual work for a document
type Processor interface {
	Trigger(ctx context.Context, documentID uint) (any, error)
}

// Outcome is the result of a successful trigger
type Outcome struct {
	Ingestion *model.Ingestion `json:"ingestion"`
	Result    any              `json:"result,omitempty"`
}

// FailedError reports a processor failure. Ingestion is the failed record,
// already persisted. It matches errs.ErrIngestion.
type FailedError struct {
	Ingestion *model.Ingestion
	Err       error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s for document %d: %v", errs.ErrIngestion, e.Ingestion.DocumentID, e.Err)
}

func (e *FailedError) Is(target error) bool {
	return target == errs.ErrIngestion
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// Tracker records ingestion attempts
type Tracker struct {
	docs      Documents
	records   store.IngestionsStore
	processor Processor
	log       *zap.Logger
	now       func() time.Time
}

// NewTracker creates a Tracker
func NewTracker(docs Documents, records store.IngestionsStore, processor Processor, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		docs:      docs,
		records:   records,
		processor: processor,
		log:       log,
		now:       time.Now,
	}
}

// Trigger runs one ingestion of documentID. It fails with errs.ErrNotFound
// when the document is missing, and with a *FailedError when the processor
// call fails.
func (t *Tracker) Trigger(ctx context.Context, documentID uint) (*Outcome, error) {
	if _, err := t.docs.FindDocument(documentID); err != nil {
		return nil, err
	}

	rec := model.NewIngestion(documentID, model.ActionProcess, t.now().UTC())
	if err := t.records.CreateIngestion(rec); err != nil {
		return nil, fmt.Errorf("failed to record ingestion: %w", err)
	}

	if err := rec.MarkProcessing(); err != nil {
		return nil, err
	}
	if err := t.records.UpdateIngestion(rec); err != nil {
		return nil, fmt.Errorf("failed to record ingestion: %w", err)
	}

	log := t.log.With(zap.Uint("document_id", documentID), zap.Uint("ingestion_id", rec.ID))
	log.Info("triggering ingestion")

	result, callErr := t.processor.Trigger(ctx, documentID)
	if callErr != nil {
		if err := rec.Fail(t.now().UTC(), callErr.Error()); err != nil {
			return nil, err
		}
		if err := t.records.UpdateIngestion(rec); err != nil {
			return nil, fmt.Errorf("failed to record ingestion failure: %w", errors.Join(err, callErr))
		}
		log.Warn("ingestion failed", zap.Error(callErr))
		return nil, &FailedError{Ingestion: rec, Err: callErr}
	}

	if err := rec.Complete(t.now().UTC()); err != nil {
		return nil, err
	}
	if err := t.records.UpdateIngestion(rec); err != nil {
		return nil, fmt.Errorf("failed to record ingestion: %w", err)
	}
	log.Info("ingestion completed")

	return &Outcome{Ingestion: rec, Result: result}, nil
}

// Get returns an ingestion record, failing with errs.ErrNotFound when absent.
func (t *Tracker) Get(id uint) (*model.Ingestion, error) {
	return t.records.FindIngestion(id)
}

// List returns the ingestion records of a document, newest first.
func (t *Tracker) List(documentID uint) ([]model.Ingestion, error) {
	if _, err := t.docs.FindDocument(documentID); err != nil {
		return nil, err
	}
	recs, err := t.records.ListIngestions(documentID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []model.Ingestion{}
	}
	return recs, nil
}
