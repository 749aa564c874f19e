package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/fiscal"
)

// ExerciseModel is the persistence model for the Exercise domain entity.
type ExerciseModel struct {
	TenantAggregateModel
	Code                  string                `gorm:"type:varchar(10);not null;uniqueIndex:idx_exercise_tenant_code,priority:2"`
	Label                 string                `gorm:"type:varchar(100);not null"`
	StartDate             time.Time             `gorm:"type:date;not null"`
	EndDate               time.Time             `gorm:"type:date;not null"`
	Status                fiscal.ExerciseStatus `gorm:"type:varchar(20);not null;default:'PREPARATION';index"`
	FirstExercise         bool                  `gorm:"not null;default:false"`
	ProvisionalCloseDate  *time.Time
	DefinitiveCloseDate   *time.Time
	CarryForwardGenerated bool                  `gorm:"not null;default:false"`
	CarryForwardAt        *time.Time
}

// TableName returns the table name for GORM
func (ExerciseModel) TableName() string {
	return "exercises"
}

// ToDomain converts the persistence model to a domain Exercise entity.
func (m *ExerciseModel) ToDomain() *fiscal.Exercise {
	e := &fiscal.Exercise{
		Code:                  m.Code,
		Label:                 m.Label,
		StartDate:             m.StartDate,
		EndDate:               m.EndDate,
		Status:                m.Status,
		FirstExercise:         m.FirstExercise,
		ProvisionalCloseDate:  m.ProvisionalCloseDate,
		DefinitiveCloseDate:   m.DefinitiveCloseDate,
		CarryForwardGenerated: m.CarryForwardGenerated,
		CarryForwardAt:        m.CarryForwardAt,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain Exercise entity.
func (m *ExerciseModel) FromDomain(e *fiscal.Exercise) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Code = e.Code
	m.Label = e.Label
	m.StartDate = e.StartDate
	m.EndDate = e.EndDate
	m.Status = e.Status
	m.FirstExercise = e.FirstExercise
	m.ProvisionalCloseDate = e.ProvisionalCloseDate
	m.DefinitiveCloseDate = e.DefinitiveCloseDate
	m.CarryForwardGenerated = e.CarryForwardGenerated
	m.CarryForwardAt = e.CarryForwardAt
}

// ExerciseModelFromDomain creates a new persistence model from a domain Exercise entity.
func ExerciseModelFromDomain(e *fiscal.Exercise) *ExerciseModel {
	m := &ExerciseModel{}
	m.FromDomain(e)
	return m
}

// PeriodModel is the persistence model for the Period domain entity.
type PeriodModel struct {
	TenantAggregateModel
	ExerciseID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_period_exercise_number,priority:1"`
	Number     int                 `gorm:"not null;uniqueIndex:idx_period_exercise_number,priority:2"`
	StartDate  time.Time           `gorm:"type:date;not null"`
	EndDate    time.Time           `gorm:"type:date;not null"`
	Status     fiscal.PeriodStatus `gorm:"type:varchar(10);not null;default:'OPEN';index"`
	ClosedAt   *time.Time
	ClosedBy   *uuid.UUID          `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PeriodModel) TableName() string {
	return "periods"
}

// ToDomain converts the persistence model to a domain Period entity.
func (m *PeriodModel) ToDomain() *fiscal.Period {
	p := &fiscal.Period{
		ExerciseID: m.ExerciseID,
		Number:     m.Number,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Status:     m.Status,
		ClosedAt:   m.ClosedAt,
		ClosedBy:   m.ClosedBy,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Period entity.
func (m *PeriodModel) FromDomain(p *fiscal.Period) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ExerciseID = p.ExerciseID
	m.Number = p.Number
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.Status = p.Status
	m.ClosedAt = p.ClosedAt
	m.ClosedBy = p.ClosedBy
}

// PeriodModelFromDomain creates a new persistence model from a domain Period entity.
func PeriodModelFromDomain(p *fiscal.Period) *PeriodModel {
	m := &PeriodModel{}
	m.FromDomain(p)
	return m
}
