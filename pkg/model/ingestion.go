package model

import (
	"errors"
	"fmt"
	"time"
)

// IngestionStatus is the lifecycle state of an ingestion record.
type IngestionStatus string

const (
	IngestionPending    IngestionStatus = "pending"
	IngestionProcessing IngestionStatus = "processing"
	IngestionCompleted  IngestionStatus = "completed"
	IngestionFailed     IngestionStatus = "failed"
)

// ActionProcess labels ingestions started through a trigger call.
const ActionProcess = "process"

// ErrInvalidTransition is returned when a status change is not allowed
// from the record's current status.
var ErrInvalidTransition = errors.New("invalid ingestion status transition")

// Terminal reports whether no further transitions are allowed from s.
func (s IngestionStatus) Terminal() bool {
	return s == IngestionCompleted || s == IngestionFailed
}

// Ingestion records one attempt to process a document.
type Ingestion struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	DocumentID uint            `gorm:"column:document_id" json:"document_id"`
	Action     string          `json:"action"`
	Status     IngestionStatus `json:"status"`
	StartedAt  time.Time       `gorm:"column:started_at" json:"started_at"`
	FinishedAt *time.Time      `gorm:"column:finished_at" json:"finished_at"`
	Error      *string         `gorm:"column:error" json:"error"`
}

func (i Ingestion) TableName() string {
	return "ingestions"
}

// NewIngestion returns a pending record for documentID started at now.
func NewIngestion(documentID uint, action string, now time.Time) *Ingestion {
	return &Ingestion{
		DocumentID: documentID,
		Action:     action,
		Status:     IngestionPending,
		StartedAt:  now,
	}
}

// MarkProcessing moves a pending record to processing.
func (i *Ingestion) MarkProcessing() error {
	if i.Status != IngestionPending {
		return i.transitionError(IngestionProcessing)
	}
	i.Status = IngestionProcessing
	return nil
}

// Complete moves a processing record to completed and stamps FinishedAt.
func (i *Ingestion) Complete(now time.Time) error {
	if i.Status != IngestionProcessing {
		return i.transitionError(IngestionCompleted)
	}
	i.Status = IngestionCompleted
	i.FinishedAt = &now
	return nil
}

// Fail moves a processing record to failed, stamping FinishedAt and the error detail.
func (i *Ingestion) Fail(now time.Time, detail string) error {
	if i.Status != IngestionProcessing {
		return i.transitionError(IngestionFailed)
	}
	i.Status = IngestionFailed
	i.FinishedAt = &now
	i.Error = &detail
	return nil
}

func (i *Ingestion) transitionError(to IngestionStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, to)
}
