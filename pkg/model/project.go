package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProjectCategory string

const (
	CategoryFixed     ProjectCategory = "fixed"
	CategoryHourly    ProjectCategory = "hourly"
	CategoryMilestone ProjectCategory = "milestone"
)

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectActive     ProjectStatus = "active"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectOnHold     ProjectStatus = "on-hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
	ProjectArchived   ProjectStatus = "archived"
)

// Project is the aggregate root: derived totals are only valid together with
// the child collections, so every mutation goes through the repository which
// recalculates and persists them as one unit.
type Project struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"type:text"`
	Category    ProjectCategory `gorm:"type:varchar(20);not null;index"`

	// Pricing inputs. Only the field matching Category drives TotalAmount.
	FixedAmount    float64 `gorm:"default:0"`
	HourlyRate     float64 `gorm:"default:0"`
	EstimatedHours float64 `gorm:"default:0"`

	// Derived totals, maintained by recalculation.
	TotalAmount   float64 `gorm:"default:0"`
	PaidAmount    float64 `gorm:"default:0"`
	PendingAmount float64 `gorm:"default:0"`
	ActualHours   float64 `gorm:"default:0"`

	Status             ProjectStatus  `gorm:"type:varchar(20);default:'pending';index"`
	TeamLeadID         *uuid.UUID     `gorm:"type:uuid;index"`
	Employees          pq.StringArray `gorm:"type:text[]"`
	VisibleToTeamLeads bool           `gorm:"default:true"`

	GroupID *uuid.UUID    `gorm:"type:uuid"`
	Group   *ProjectGroup `gorm:"foreignKey:GroupID"`

	// Version guards read-modify-write cycles: updates are conditional on the
	// version observed at load time.
	Version int `gorm:"default:1;not null"`

	CreatedBy uuid.UUID `gorm:"type:uuid"`

	TimeEntries []TimeEntry    `gorm:"foreignKey:ProjectID"`
	Milestones  []Milestone    `gorm:"foreignKey:ProjectID"`
	Payments    []Payment      `gorm:"foreignKey:ProjectID"`
	Detail      *ProjectDetail `gorm:"foreignKey:ProjectID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneOverdue    MilestoneStatus = "overdue"
)

type TimeEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Date        time.Time `gorm:"not null"`
	Hours       float64   `gorm:"not null"`
	Description string
	TaskType    string
	Approved    bool      `gorm:"default:false"`
	AddedBy     uuid.UUID `gorm:"type:uuid"`
	AddedAt     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Milestone struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title     string          `gorm:"not null"`
	Amount    float64         `gorm:"not null"`
	DueDate   time.Time
	Status    MilestoneStatus `gorm:"type:varchar(20);default:'pending'"`
	SortOrder int             `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount        float64    `gorm:"not null"`
	PaymentDate   time.Time  `gorm:"not null"`
	PaymentMethod string
	MilestoneID   *uuid.UUID `gorm:"type:uuid"`
	AddedBy       uuid.UUID  `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectDetail is a 1:1 side record of descriptive metadata, cascade-deleted
// with its project.
type ProjectDetail struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	Notes         string    `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ProjectGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	ClientName  string
	Description string
	Projects    []Project `gorm:"foreignKey:GroupID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// ActiveProjectStatuses are the statuses that count against a team lead's
// concurrent-project cap and in which an unassigned project may be claimed.
var ActiveProjectStatuses = []ProjectStatus{ProjectPending, ProjectActive, ProjectInProgress}

func IsValidCategory(c ProjectCategory) bool {
	switch c {
	case CategoryFixed, CategoryHourly, CategoryMilestone:
		return true
	default:
		return false
	}
}

func IsValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectPending, ProjectActive, ProjectInProgress, ProjectOnHold,
		ProjectCompleted, ProjectCancelled, ProjectArchived:
		return true
	default:
		return false
	}
}

func IsValidMilestoneStatus(s MilestoneStatus) bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestoneOverdue:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the claim workflow is frozen for this project.
func (p *Project) IsTerminal() bool {
	return p.Status == ProjectCompleted || p.Status == ProjectCancelled
}

// IsClaimable reports whether the project status permits a team lead pick.
func (p *Project) IsClaimable() bool {
	for _, s := range ActiveProjectStatuses {
		if p.Status == s {
			return true
		}
	}
	return false
}

// HasEmployee reports whether the given user id is on the project staff.
func (p *Project) HasEmployee(id uuid.UUID) bool {
	for _, e := range p.Employees {
		if e == id.String() {
			return true
		}
	}
	return false
}
