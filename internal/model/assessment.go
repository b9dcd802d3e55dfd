package model

import (
	"errors"
	"time"
)

// ErrInvalidStatusTransition is returned when a lifecycle method is
// called on an assessment in the wrong status.
var ErrInvalidStatusTransition = errors.New("invalid assessment status transition")

// AssessmentType identifies one of the questionnaire families
type AssessmentType string

const (
	TypeResiliency     AssessmentType = "resiliency"
	TypeGap            AssessmentType = "gap"
	TypeMaturity       AssessmentType = "maturity"
	TypeBusinessImpact AssessmentType = "business_impact"
	TypeDepartment     AssessmentType = "department"
)

// IsValid checks the AssessmentType against the known set
func (t AssessmentType) IsValid() bool {
	switch t {
	case TypeResiliency, TypeGap, TypeMaturity, TypeBusinessImpact, TypeDepartment:
		return true
	}
	return false
}

// AssessmentStatus is the lifecycle state of an assessment
type AssessmentStatus string

const (
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
	StatusArchived   AssessmentStatus = "archived"
)

// Assessment is one organization's run through a questionnaire. At
// most one in_progress and one completed record per (organization,
// type) are active at a time; retakes archive the completed record
// first.
type Assessment struct {
	ID                string           `json:"id" bson:"_id,omitempty"`
	OrganizationID    string           `json:"organizationId" bson:"organizationId"`
	Type              AssessmentType   `json:"type" bson:"type"`
	Status            AssessmentStatus `json:"status" bson:"status"`
	CurrentCategoryID string           `json:"currentCategoryId,omitempty" bson:"currentCategoryId,omitempty"`
	ResponseRevision  int64            `json:"responseRevision" bson:"responseRevision"`
	CreatedAt         time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt" bson:"updatedAt"`
	CompletedAt       *time.Time       `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// Complete transitions in_progress -> completed
func (a *Assessment) Complete() error {
	if a.Status != StatusInProgress {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	a.Status = StatusCompleted
	a.CompletedAt = &now
	a.UpdatedAt = now
	return nil
}

// Archive transitions completed -> archived
func (a *Assessment) Archive() error {
	if a.Status != StatusCompleted {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusArchived
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a *Assessment) IsInProgress() bool { return a.Status == StatusInProgress }
func (a *Assessment) IsCompleted() bool  { return a.Status == StatusCompleted }
