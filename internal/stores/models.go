// Package stores provides the gorm-backed reference implementations of the
// collaborator interfaces the services consume: the animal/trait store, the
// tenant directory, the breeding plan store, the message-thread store, and a
// log-based notifier. In a larger deployment these records live in sibling
// systems; here they share the one SQLite database.
package stores

import (
	"time"

	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// AnimalRecord is the persisted animal row.
type AnimalRecord struct {
	ID             string    `json:"id"              gorm:"type:varchar(64);primaryKey"`
	TenantID       string    `json:"tenant_id"       gorm:"type:varchar(64);not null;index:idx_animal_tenant"`
	Name           string    `json:"name"            gorm:"type:varchar(255);not null"`
	Species        string    `json:"species"         gorm:"type:varchar(64);not null"`
	Sex            string    `json:"sex"             gorm:"type:varchar(16);not null"`
	Breed          string    `json:"breed"           gorm:"type:varchar(128)"`
	RegistrationID string    `json:"registration_id" gorm:"type:varchar(128)"`
	Notes          string    `json:"notes"           gorm:"type:text"`
	Shareable      bool      `json:"shareable"       gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName maps AnimalRecord to the animals table.
func (AnimalRecord) TableName() string { return "animals" }

// AnimalTraitRecord is one genotype or clearance row for an animal.
type AnimalTraitRecord struct {
	ID       uint   `json:"id"        gorm:"primaryKey;autoIncrement"`
	AnimalID string `json:"animal_id" gorm:"type:varchar(64);not null;index:idx_trait_animal"`
	Category string `json:"category"  gorm:"type:varchar(16);not null"`
	Locus    string `json:"locus"     gorm:"type:varchar(64);not null"`
	Value    string `json:"value"     gorm:"type:varchar(64);not null"`
}

// TableName maps AnimalTraitRecord to the animal_traits table.
func (AnimalTraitRecord) TableName() string { return "animal_traits" }

// TenantRecord is the directory row for one tenant.
type TenantRecord struct {
	ID          string                   `json:"id"           gorm:"type:varchar(64);primaryKey"`
	DisplayName string                   `json:"display_name" gorm:"type:varchar(255);not null"`
	Location    string                   `json:"location"     gorm:"type:varchar(255)"`
	Visibility  domain.NetworkVisibility `json:"visibility"   gorm:"type:varchar(16);not null;default:'VISIBLE'"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// TableName maps TenantRecord to the tenants table.
func (TenantRecord) TableName() string { return "tenants" }

// BreedingPlanRecord is the minimal persisted breeding plan.
type BreedingPlanRecord struct {
	ID        string    `json:"id"        gorm:"type:varchar(64);primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:varchar(64);not null;index:idx_plan_tenant"`
	Name      string    `json:"name"      gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName maps BreedingPlanRecord to the breeding_plans table.
func (BreedingPlanRecord) TableName() string { return "breeding_plans" }

// ThreadRecord is one generic message thread.
type ThreadRecord struct {
	ID           string            `json:"id"      gorm:"type:char(36);primaryKey"`
	Subject      string            `json:"subject" gorm:"type:varchar(255)"`
	Participants domain.StringList `json:"participants" gorm:"type:text"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TableName maps ThreadRecord to the threads table.
func (ThreadRecord) TableName() string { return "threads" }

// ThreadMessageRecord is one message in a thread.
type ThreadMessageRecord struct {
	ID             string    `json:"id"               gorm:"type:char(36);primaryKey"`
	ThreadID       string    `json:"thread_id"        gorm:"type:char(36);not null;index:idx_message_thread"`
	SenderTenantID string    `json:"sender_tenant_id" gorm:"type:varchar(64);not null"`
	Body           string    `json:"body"             gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName maps ThreadMessageRecord to the thread_messages table.
func (ThreadMessageRecord) TableName() string { return "thread_messages" }

// AutoMigrate creates or updates the collaborator tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AnimalRecord{},
		&AnimalTraitRecord{},
		&TenantRecord{},
		&BreedingPlanRecord{},
		&ThreadRecord{},
		&ThreadMessageRecord{},
	)
}
