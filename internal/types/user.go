package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleResearcher UserRole = "RESEARCHER"
	RoleAdmin      UserRole = "ADMIN"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`
	Role        UserRole  `gorm:"not null;default:USER;column:role" json:"role"`

	// Derived credibility profile. Owned exclusively by the credibility
	// service; always fully recomputed, never patched by delta.
	CredibilityScore        float64    `gorm:"not null;default:0;column:credibility_score" json:"credibility_score"`
	AgreementWithExperts    float64    `gorm:"not null;default:0;column:agreement_with_experts" json:"agreement_with_experts"`
	MajorityAgreementScore  float64    `gorm:"not null;default:0;column:majority_agreement_score" json:"majority_agreement_score"`
	TotalClassifications    int        `gorm:"not null;default:0;column:total_classifications" json:"total_classifications"`
	CredibilityLastUpdated  *time.Time `gorm:"column:credibility_last_updated" json:"credibility_last_updated,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }

// IsExpertLike is the single role predicate used for every expert-inclusion
// decision: researchers and admins both count as ground-truth raters.
func (u *User) IsExpertLike() bool {
	return u.Role == RoleResearcher || u.Role == RoleAdmin
}
