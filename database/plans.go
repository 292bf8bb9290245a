package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wealth-tracker/models"
)

var (
	ErrMilestonePlan    = fmt.Errorf("milestone belongs to another plan")
	ErrInvalidMilestone = fmt.Errorf("invalid milestone")
)

// PlanDetail is a plan with its whole event/milestone graph.
type PlanDetail struct {
	models.Plan
	Events     []models.PlanEvent     `json:"events"`
	Milestones []models.PlanMilestone `json:"milestones"`
}

func findOwnedPlan(tx *gorm.DB, userID, planID uint) (*models.Plan, error) {
	var plan models.Plan
	if err := tx.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error; err != nil {
		return nil, translateError(err)
	}
	return &plan, nil
}

func (s *Store) CreatePlan(ctx context.Context, userID uint, plan *models.Plan) error {
	plan.UserID = userID
	if plan.LifeExpectancy == 0 {
		plan.LifeExpectancy = 85
	}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventInsert, plan, plan.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (s *Store) AddMilestone(ctx context.Context, userID, planID uint, m *models.PlanMilestone) error {
	switch m.Type {
	case models.PlanMilestoneTypeYear:
		if m.Year == nil {
			return fmt.Errorf("%w: year milestone needs a year", ErrInvalidMilestone)
		}
	case models.PlanMilestoneTypeNetWorth:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidMilestone, m.Type)
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findOwnedPlan(tx, userID, planID); err != nil {
			return err
		}
		m.PlanID = planID
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventInsert, m, m.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("add milestone to plan %d: %w", planID, err)
	}
	return nil
}

// AddEvent adds an event whose optional start and end milestones must be
// part of the same plan. Cycles through milestones are not checked.
func (s *Store) AddEvent(ctx context.Context, userID, planID uint, e *models.PlanEvent) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findOwnedPlan(tx, userID, planID); err != nil {
			return err
		}
		for _, id := range []*uint{e.StartMilestoneID, e.EndMilestoneID} {
			if id == nil {
				continue
			}
			var m models.PlanMilestone
			if err := tx.First(&m, *id).Error; err != nil {
				return fmt.Errorf("milestone %d: %w", *id, translateError(err))
			}
			if m.PlanID != planID {
				return fmt.Errorf("%w: milestone %d", ErrMilestonePlan, *id)
			}
		}

		e.PlanID = planID
		if e.Frequency == "" {
			e.Frequency = models.PlanEventFrequencyYearly
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventInsert, e, e.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("add event to plan %d: %w", planID, err)
	}
	return nil
}

func (s *Store) GetPlan(ctx context.Context, userID, planID uint) (*PlanDetail, error) {
	db := s.db.WithContext(ctx)
	plan, err := findOwnedPlan(db, userID, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan %d: %w", planID, err)
	}

	detail := &PlanDetail{Plan: *plan}
	if err := db.Where("plan_id = ?", planID).Order("id").Find(&detail.Events).Error; err != nil {
		return nil, fmt.Errorf("get plan %d events: %w", planID, err)
	}
	if err := db.Where("plan_id = ?", planID).Order("id").Find(&detail.Milestones).Error; err != nil {
		return nil, fmt.Errorf("get plan %d milestones: %w", planID, err)
	}
	return detail, nil
}

// DeleteMilestone removes a milestone together with every event that starts
// or ends on it.
func (s *Store) DeleteMilestone(ctx context.Context, userID, planID, milestoneID uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findOwnedPlan(tx, userID, planID); err != nil {
			return err
		}
		var m models.PlanMilestone
		if err := tx.Where("id = ? AND plan_id = ?", milestoneID, planID).First(&m).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventDelete, &m, m.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("delete milestone %d: %w", milestoneID, err)
	}
	return nil
}

func (s *Store) DeletePlan(ctx context.Context, userID, planID uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		plan, err := findOwnedPlan(tx, userID, planID)
		if err != nil {
			return err
		}
		if err := tx.Delete(plan).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventDelete, plan, plan.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("delete plan %d: %w", planID, err)
	}
	return nil
}
