package dto

import "github.com/shopspring/decimal"

type CreateFruitRequest struct {
	ProductName string          `json:"productName" validate:"required,min=1,max=120"`
	State       string          `json:"state"`
	Price       decimal.Decimal `json:"price" validate:"min=0"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	Remark      string          `json:"remark" validate:"omitempty,oneof=Available 'In Transit' 'Not Available'"`
}

// UpdateFruitRequest applies only the fields that are present. Workflow
// fields (status, approvedBy, ...) are not updatable through this path.
type UpdateFruitRequest struct {
	ProductName *string          `json:"productName" validate:"omitempty,min=1,max=120"`
	State       *string          `json:"state"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int64           `json:"quantity" validate:"omitempty,min=0"`
	Remark      *string          `json:"remark" validate:"omitempty,oneof=Available 'In Transit' 'Not Available'"`
}

type RejectFruitRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

type StatsResponse struct {
	TotalFruits    int             `json:"totalFruits"`
	ApprovedFruits int             `json:"approvedFruits"`
	PendingFruits  int             `json:"pendingFruits"`
	RejectedFruits int             `json:"rejectedFruits"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	TotalQuantity  int64           `json:"totalQuantity"`
	UserRole       string          `json:"userRole"`
	Username       string          `json:"username"`
}
