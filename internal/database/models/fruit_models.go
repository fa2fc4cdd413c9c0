package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fruit carries the approval workflow inline: Status starts at Pending
// (Approved for Owner submissions) and the approvedBy/approvalDate/
// rejectionReason triple is written only by approve and reject.
type Fruit struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductName     string          `gorm:"size:255;not null" json:"productName"`
	State           string          `gorm:"size:100;not null" json:"state"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Remark          string          `gorm:"size:50;not null;default:'Available'" json:"remark"`
	Quantity        int64           `gorm:"not null;default:0" json:"quantity"`
	Status          string          `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	AddedBy         string          `gorm:"size:100;not null;index" json:"addedBy"`
	AddedByRole     string          `gorm:"size:20;not null" json:"addedByRole"`
	ApprovedBy      *string         `gorm:"size:100" json:"approvedBy"`
	ApprovedByRole  *string         `gorm:"size:20" json:"approvedByRole"`
	ApprovalDate    *time.Time      `json:"approvalDate"`
	RejectionReason *string         `gorm:"size:255" json:"rejectionReason"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (f *Fruit) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
