package models

import (
	"github.com/shopspring/decimal"
)

// Plan owns a projection graph of events and milestones. Events reference
// milestones for their start and end; cycles are not checked.
type Plan struct {
	Base
	UserID         uint   `gorm:"not null;index" json:"userId"`
	User           *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name           string `gorm:"not null" json:"name"`
	LifeExpectancy int    `gorm:"not null;default:85" json:"lifeExpectancy"`
}

func (Plan) TableName() string { return "plans" }

type PlanEventFrequency string

const (
	PlanEventFrequencyMonthly PlanEventFrequency = "monthly"
	PlanEventFrequencyYearly  PlanEventFrequency = "yearly"
)

type PlanEvent struct {
	Base
	PlanID uint  `gorm:"not null;index" json:"planId"`
	Plan   *Plan `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Name         string             `gorm:"not null" json:"name"`
	Category     *string            `json:"category"`
	Frequency    PlanEventFrequency `gorm:"type:varchar(16);not null;default:yearly" json:"frequency"`
	InitialValue *decimal.Decimal   `gorm:"type:numeric(19,4)" json:"initialValue"`
	Rate         decimal.Decimal    `gorm:"type:numeric(6,4);not null;default:0" json:"rate"`

	StartYear        *int           `json:"startYear"`
	StartMilestoneID *uint          `gorm:"index" json:"startMilestoneId"`
	StartMilestone   *PlanMilestone `gorm:"foreignKey:StartMilestoneID;constraint:OnDelete:CASCADE" json:"-"`
	EndYear          *int           `json:"endYear"`
	EndMilestoneID   *uint          `gorm:"index" json:"endMilestoneId"`
	EndMilestone     *PlanMilestone `gorm:"foreignKey:EndMilestoneID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PlanEvent) TableName() string { return "plan_events" }

type PlanMilestoneType string

const (
	PlanMilestoneTypeYear     PlanMilestoneType = "year"
	PlanMilestoneTypeNetWorth PlanMilestoneType = "net_worth"
)

type PlanMilestone struct {
	Base
	PlanID uint  `gorm:"not null;index" json:"planId"`
	Plan   *Plan `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Name            string            `gorm:"not null" json:"name"`
	Type            PlanMilestoneType `gorm:"type:varchar(16);not null" json:"type"`
	Year            *int              `json:"year"`
	ExpenseMultiple *decimal.Decimal  `gorm:"type:numeric(6,2)" json:"expenseMultiple"`
	ExpenseYears    *int              `json:"expenseYears"`
}

func (PlanMilestone) TableName() string { return "plan_milestones" }
