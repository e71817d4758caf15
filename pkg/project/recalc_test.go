package project

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

func hourlyProject(rate float64) *model.Project {
	return &model.Project{
		ID:         uuid.New(),
		Name:       "api rework",
		Category:   model.CategoryHourly,
		HourlyRate: rate,
	}
}

func TestRecalculateHourlyScenario(t *testing.T) {
	p := hourlyProject(50)

	p.TimeEntries = append(p.TimeEntries,
		model.TimeEntry{ID: uuid.New(), Hours: 3, Date: time.Now()},
		model.TimeEntry{ID: uuid.New(), Hours: 2, Date: time.Now()},
	)
	Recalculate(p)

	if p.ActualHours != 5 {
		t.Fatalf("expected 5 actual hours, got %v", p.ActualHours)
	}
	if p.TotalAmount != 250 {
		t.Fatalf("expected total 250, got %v", p.TotalAmount)
	}

	p.Payments = append(p.Payments, model.Payment{ID: uuid.New(), Amount: 100, PaymentDate: time.Now()})
	Recalculate(p)

	if p.PaidAmount != 100 {
		t.Fatalf("expected paid 100, got %v", p.PaidAmount)
	}
	if p.PendingAmount != 150 {
		t.Fatalf("expected pending 150, got %v", p.PendingAmount)
	}

	// Deleting the 3h entry drops totals accordingly.
	p.TimeEntries = p.TimeEntries[1:]
	Recalculate(p)

	if p.ActualHours != 2 {
		t.Fatalf("expected 2 actual hours, got %v", p.ActualHours)
	}
	if p.TotalAmount != 100 {
		t.Fatalf("expected total 100, got %v", p.TotalAmount)
	}
	if p.PendingAmount != 0 {
		t.Fatalf("expected pending 0, got %v", p.PendingAmount)
	}
}

func TestRecalculateMilestoneScenario(t *testing.T) {
	p := &model.Project{ID: uuid.New(), Name: "site build", Category: model.CategoryMilestone}

	p.Milestones = append(p.Milestones,
		model.Milestone{ID: uuid.New(), Title: "design", Amount: 300},
		model.Milestone{ID: uuid.New(), Title: "delivery", Amount: 700},
	)
	Recalculate(p)

	if p.TotalAmount != 1000 {
		t.Fatalf("expected total 1000, got %v", p.TotalAmount)
	}

	p.Payments = append(p.Payments, model.Payment{ID: uuid.New(), Amount: 1000, PaymentDate: time.Now()})
	Recalculate(p)

	if p.PendingAmount != 0 {
		t.Fatalf("expected pending 0, got %v", p.PendingAmount)
	}
}

func TestRecalculateFixedIgnoresChildren(t *testing.T) {
	p := &model.Project{ID: uuid.New(), Name: "retainer", Category: model.CategoryFixed, FixedAmount: 500}
	Recalculate(p)

	if p.TotalAmount != 500 || p.PendingAmount != 500 {
		t.Fatalf("expected total/pending 500, got %v/%v", p.TotalAmount, p.PendingAmount)
	}

	// Time entries and milestones never move a fixed project's total.
	p.TimeEntries = append(p.TimeEntries, model.TimeEntry{ID: uuid.New(), Hours: 8})
	p.Milestones = append(p.Milestones, model.Milestone{ID: uuid.New(), Title: "m", Amount: 900})
	Recalculate(p)

	if p.TotalAmount != 500 {
		t.Fatalf("fixed total changed to %v", p.TotalAmount)
	}

	p.FixedAmount = 800
	Recalculate(p)
	if p.TotalAmount != 800 {
		t.Fatalf("expected total 800 after fixed amount edit, got %v", p.TotalAmount)
	}
}

func TestRecalculateOverpaymentGoesNegative(t *testing.T) {
	p := &model.Project{ID: uuid.New(), Name: "small job", Category: model.CategoryFixed, FixedAmount: 100}
	p.Payments = append(p.Payments, model.Payment{ID: uuid.New(), Amount: 250, PaymentDate: time.Now()})
	Recalculate(p)

	if p.PendingAmount != -150 {
		t.Fatalf("expected pending -150 on overpayment, got %v", p.PendingAmount)
	}
}

func TestRecalculateInvariantHoldsAfterMutations(t *testing.T) {
	p := hourlyProject(75)
	ops := []func(){
		func() { p.TimeEntries = append(p.TimeEntries, model.TimeEntry{ID: uuid.New(), Hours: 4}) },
		func() { p.Payments = append(p.Payments, model.Payment{ID: uuid.New(), Amount: 120}) },
		func() { p.TimeEntries = append(p.TimeEntries, model.TimeEntry{ID: uuid.New(), Hours: 1.5}) },
		func() { p.Payments = append(p.Payments, model.Payment{ID: uuid.New(), Amount: 600}) },
		func() { p.TimeEntries = p.TimeEntries[1:] },
	}
	for i, op := range ops {
		op()
		Recalculate(p)
		if p.PendingAmount != p.TotalAmount-p.PaidAmount {
			t.Fatalf("op %d: pending %v != total %v - paid %v", i, p.PendingAmount, p.TotalAmount, p.PaidAmount)
		}
	}
}

func TestValidateTimeEntry(t *testing.T) {
	p := hourlyProject(50)

	if err := ValidateTimeEntry(p, &model.TimeEntry{Hours: 2, Date: time.Now()}); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}
	if err := ValidateTimeEntry(p, &model.TimeEntry{Hours: 0, Date: time.Now()}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for zero hours, got %v", err)
	}

	fixed := &model.Project{Category: model.CategoryFixed}
	if err := ValidateTimeEntry(fixed, &model.TimeEntry{Hours: 2, Date: time.Now()}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error on non-hourly project, got %v", err)
	}
}

func TestValidatePaymentMilestoneReference(t *testing.T) {
	p := &model.Project{ID: uuid.New(), Category: model.CategoryMilestone}
	m := model.Milestone{ID: uuid.New(), Title: "m1", Amount: 100}
	p.Milestones = append(p.Milestones, m)

	pay := &model.Payment{Amount: 50, PaymentDate: time.Now(), MilestoneID: &m.ID}
	if err := ValidatePayment(p, pay); err != nil {
		t.Fatalf("valid payment rejected: %v", err)
	}

	unknown := uuid.New()
	pay.MilestoneID = &unknown
	if err := ValidatePayment(p, pay); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown milestone, got %v", err)
	}

	pay.MilestoneID = nil
	pay.Amount = -5
	if err := ValidatePayment(p, pay); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative amount, got %v", err)
	}
}
