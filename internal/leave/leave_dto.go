package leave

import (
	"go-worktrack/internal/shared/request"
)

type ListFilter struct {
	EmployeeID *int64
	Status     string
	Page       request.Page
}

type CreateLeaveRequest struct {
	EmployeeID *int64 `json:"employee_id" binding:"omitempty,gt=0"`
	LeaveType  string `json:"leave_type" binding:"omitempty,oneof=annual sick personal unpaid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Days       *int   `json:"days" binding:"omitempty,gte=0"`
	Reason     string `json:"reason" binding:"max=1000"`
}

// UpdateLeaveRequest is a partial update; nil fields are left unchanged.
type UpdateLeaveRequest struct {
	LeaveType *string `json:"leave_type" binding:"omitempty,oneof=annual sick personal unpaid"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Days      *int    `json:"days" binding:"omitempty,gte=0"`
	Reason    *string `json:"reason" binding:"omitempty,max=1000"`
	Status    *string `json:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type EmployeeSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type LeaveResponse struct {
	ID         int64            `json:"id"`
	EmployeeID int64            `json:"employee_id"`
	Employee   *EmployeeSummary `json:"employee,omitempty"`
	LeaveType  string           `json:"leave_type"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	Days       int              `json:"days"`
	Reason     string           `json:"reason"`
	Status     string           `json:"status"`
	ReviewedBy *int64           `json:"reviewed_by,omitempty"`
	ReviewedAt *string          `json:"reviewed_at,omitempty"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
}
