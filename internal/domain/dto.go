package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     UserRole  `json:"role"`
	IsActive bool      `json:"isActive"`
}

// AuthUserDTO represents the current authenticated user
type AuthUserDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  UserRole  `json:"role"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token string      `json:"token"`
	User  AuthUserDTO `json:"user"`
}

type WorkOrderDTO struct {
	ID                      uuid.UUID       `json:"id"`
	InternalNo              *string         `json:"internalNo"`
	Status                  WorkOrderStatus `json:"status"`
	OperatingCompany        string          `json:"operatingCompany"`
	OrderType               string          `json:"orderType"`
	PaymentTerms            string          `json:"paymentTerms"`
	CustomerCompany         string          `json:"customerCompany"`
	VesselName              string          `json:"vesselName"`
	IMO                     string          `json:"imo"`
	VesselType              string          `json:"vesselType,omitempty"`
	YearBuilt               *int            `json:"yearBuilt,omitempty"`
	GrossTonnage            *float64        `json:"grossTonnage,omitempty"`
	VesselNotes             string          `json:"vesselNotes,omitempty"`
	PO                      string          `json:"po,omitempty"`
	LocationType            string          `json:"locationType"`
	LocationName            string          `json:"locationName"`
	City                    string          `json:"city"`
	StartDate               string          `json:"startDate"` // ISO 8601
	EndDate                 string          `json:"endDate"`   // ISO 8601
	ResponsibleEngineerName string          `json:"responsibleEngineerName,omitempty"`
	ResponsibleOpsName      string          `json:"responsibleOpsName,omitempty"`
	CreatedByID             uuid.UUID       `json:"createdById"`
	CreatedByName           string          `json:"createdByName,omitempty"`
	CreatedAt               string          `json:"createdAt"` // ISO 8601
	UpdatedAt               string          `json:"updatedAt"` // ISO 8601
}

// WorkOrderStatsDTO aggregates counts for the dashboard
type WorkOrderStatsDTO struct {
	StatusCounts map[WorkOrderStatus]int64 `json:"statusCounts"`
	CityCounts   map[string]int64          `json:"cityCounts"`
	EngineerLoad []EngineerLoadDTO         `json:"engineerLoad"`
	Total        int64                     `json:"total"`
}

type EngineerLoadDTO struct {
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	ItemCount int64     `json:"itemCount"`
}

// WorkOrderAlertsDTO groups schedule alerts for the dashboard
type WorkOrderAlertsDTO struct {
	StartingSoon []WorkOrderDTO `json:"startingSoon"`
	EndingSoon   []WorkOrderDTO `json:"endingSoon"`
	Overdue      []WorkOrderDTO `json:"overdue"`
}

type ServiceItemDTO struct {
	ID                uuid.UUID              `json:"id"`
	WorkOrderID       uuid.UUID              `json:"workOrderId"`
	Status            ServiceItemStatus      `json:"status"`
	EquipmentName     string                 `json:"equipmentName"`
	Model             string                 `json:"model,omitempty"`
	Serial            string                 `json:"serial,omitempty"`
	ServiceContent    string                 `json:"serviceContent"`
	CreatedByID       uuid.UUID              `json:"createdById"`
	AssignedEngineers []UserDTO              `json:"assignedEngineers"`
	Attachments       []AttachmentDTO        `json:"attachments"`
	CreatedAt         string                 `json:"createdAt"`
	UpdatedAt         string                 `json:"updatedAt"`
}

type AttachmentDTO struct {
	ID         uuid.UUID  `json:"id"`
	Filename   string     `json:"filename"`
	MimeType   string     `json:"mimeType"`
	Size       int64      `json:"size"`
	CostLineID *uuid.UUID `json:"costLineId,omitempty"`
	UploaderID uuid.UUID  `json:"uploaderId"`
	CreatedAt  string     `json:"createdAt"`
}

type CostLineDTO struct {
	ID          uuid.UUID    `json:"id"`
	WorkOrderID uuid.UUID    `json:"workOrderId"`
	ItemName    string       `json:"itemName"`
	Category    CostCategory `json:"category"`
	UnitPrice   float64      `json:"unitPrice"`
	Quantity    float64      `json:"quantity"`
	LineTotal   float64      `json:"lineTotal"`
	Notes       string       `json:"notes,omitempty"`
	IsLocked    bool         `json:"isLocked"`
	LockedAt    *string      `json:"lockedAt,omitempty"`
	LockedByID  *uuid.UUID   `json:"lockedById,omitempty"`
	CreatedByID uuid.UUID    `json:"createdById"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

// CostSummaryDTO aggregates the non-deleted cost lines of a work order
type CostSummaryDTO struct {
	TotalCost      float64                  `json:"totalCost"`
	CategoryTotals map[CostCategory]float64 `json:"categoryTotals"`
	LineCount      int                      `json:"lineCount"`
	LockedCount    int                      `json:"lockedCount"`
}

type QuoteDTO struct {
	ID          uuid.UUID `json:"id"`
	WorkOrderID uuid.UUID `json:"workOrderId"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	IsFinal     bool      `json:"isFinal"`
	Notes       string    `json:"notes,omitempty"`
	CreatedByID uuid.UUID `json:"createdById"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type InvoiceDTO struct {
	ID          uuid.UUID     `json:"id"`
	WorkOrderID uuid.UUID     `json:"workOrderId"`
	InvoiceNo   string        `json:"invoiceNo"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	IssueDate   string        `json:"issueDate"`
	DueDate     *string       `json:"dueDate,omitempty"`
	Status      InvoiceStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	CreatedByID uuid.UUID     `json:"createdById"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

type PaymentReceiptDTO struct {
	ID          uuid.UUID  `json:"id"`
	WorkOrderID uuid.UUID  `json:"workOrderId"`
	InvoiceID   *uuid.UUID `json:"invoiceId,omitempty"`
	ReceiptNo   string     `json:"receiptNo"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Date        string     `json:"date"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference,omitempty"`
	CreatedByID uuid.UUID  `json:"createdById"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// IncomeSnapshotDTO holds the derived income figures of a work order.
// Nothing here is stored; it is computed on demand from the ledgers.
type IncomeSnapshotDTO struct {
	InvoiceTotal     float64 `json:"invoiceTotal"`
	ReceiptsTotal    float64 `json:"receiptsTotal"`
	Outstanding      float64 `json:"outstanding"`
	FinalQuoteAmount float64 `json:"finalQuoteAmount"`
	QuoteTotal       float64 `json:"quoteTotal"`
}

// IncomeOverviewDTO bundles the ledgers with the derived snapshot
type IncomeOverviewDTO struct {
	Quotes   []QuoteDTO          `json:"quotes"`
	Invoices []InvoiceDTO        `json:"invoices"`
	Payments []PaymentReceiptDTO `json:"payments"`
	Snapshot IncomeSnapshotDTO   `json:"snapshot"`
}

type ProfitReportDTO struct {
	ID                  uuid.UUID                `json:"id"`
	WorkOrderID         uuid.UUID                `json:"workOrderId"`
	Status              ProfitReportStatus       `json:"status"`
	RevenueTotal        float64                  `json:"revenueTotal"`
	CostTotal           float64                  `json:"costTotal"`
	Profit              float64                  `json:"profit"`
	MarginPercent       float64                  `json:"marginPercent"`
	IncomeBreakdown     IncomeSnapshotDTO        `json:"incomeBreakdown"`
	CostBreakdown       map[CostCategory]float64 `json:"costBreakdown"`
	ProfitabilityRating Rating                   `json:"profitabilityRating"`
	PaymentRating       Rating                   `json:"paymentRating"`
	OverallRating       Rating                   `json:"overallRating"`
	GeneratedByID       uuid.UUID                `json:"generatedById"`
	ConfirmedByID       *uuid.UUID               `json:"confirmedById,omitempty"`
	ConfirmedAt         *string                  `json:"confirmedAt,omitempty"`
	CreatedAt           string                   `json:"createdAt"`
	UpdatedAt           string                   `json:"updatedAt"`
}

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	CreatedAt  string     `json:"createdAt"` // ISO 8601
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
}

// UnreadCountDTO represents the count of unread notifications
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

type AuditLogDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	Action     string     `json:"action"`
	EntityType string     `json:"entityType"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	Metadata   string     `json:"metadata,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

// PaginatedResponse wraps a list payload with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// DashboardDTO bundles the operational overview for the landing page
type DashboardDTO struct {
	Stats       WorkOrderStatsDTO  `json:"stats"`
	Alerts      WorkOrderAlertsDTO `json:"alerts"`
	UnreadCount int64              `json:"unreadCount"`
}

// MessageResponse is used by export/print stubs and delete acknowledgments
type MessageResponse struct {
	Message string `json:"message"`
}

// Auth request DTOs
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// User request DTOs
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email,max=255"`
	Name     string   `json:"name" validate:"required,max=200"`
	Role     UserRole `json:"role" validate:"required,oneof=ENGINEER FINANCE OPS ADMIN"`
	Password string   `json:"password" validate:"required,min=8,max=100"`
}

type UpdateUserRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Role     UserRole `json:"role" validate:"required,oneof=ENGINEER FINANCE OPS ADMIN"`
	IsActive *bool    `json:"isActive,omitempty"`
	Password string   `json:"password,omitempty" validate:"omitempty,min=8,max=100"`
}

// Work order request DTOs
type CreateWorkOrderRequest struct {
	OperatingCompany        string    `json:"operatingCompany" validate:"required,max=100"`
	OrderType               string    `json:"orderType" validate:"required,max=100"`
	PaymentTerms            string    `json:"paymentTerms" validate:"required,max=200"`
	CustomerCompany         string    `json:"customerCompany" validate:"required,max=200"`
	VesselName              string    `json:"vesselName" validate:"required,max=200"`
	IMO                     string    `json:"imo" validate:"required,max=20"`
	VesselType              string    `json:"vesselType,omitempty" validate:"max=100"`
	YearBuilt               *int      `json:"yearBuilt,omitempty" validate:"omitempty,min=1900,max=2100"`
	GrossTonnage            *float64  `json:"grossTonnage,omitempty" validate:"omitempty,gte=0"`
	VesselNotes             string    `json:"vesselNotes,omitempty"`
	PO                      string    `json:"po,omitempty" validate:"max=100"`
	LocationType            string    `json:"locationType" validate:"required,max=50"`
	LocationName            string    `json:"locationName" validate:"required,max=200"`
	City                    string    `json:"city" validate:"required,max=100"`
	StartDate               time.Time `json:"startDate" validate:"required"`
	EndDate                 time.Time `json:"endDate" validate:"required"`
	ResponsibleEngineerName string    `json:"responsibleEngineerName,omitempty" validate:"max=200"`
	ResponsibleOpsName      string    `json:"responsibleOpsName,omitempty" validate:"max=200"`
}

type UpdateWorkOrderRequest struct {
	OperatingCompany        string    `json:"operatingCompany" validate:"required,max=100"`
	OrderType               string    `json:"orderType" validate:"required,max=100"`
	PaymentTerms            string    `json:"paymentTerms" validate:"required,max=200"`
	CustomerCompany         string    `json:"customerCompany" validate:"required,max=200"`
	VesselName              string    `json:"vesselName" validate:"required,max=200"`
	IMO                     string    `json:"imo" validate:"required,max=20"`
	VesselType              string    `json:"vesselType,omitempty" validate:"max=100"`
	YearBuilt               *int      `json:"yearBuilt,omitempty" validate:"omitempty,min=1900,max=2100"`
	GrossTonnage            *float64  `json:"grossTonnage,omitempty" validate:"omitempty,gte=0"`
	VesselNotes             string    `json:"vesselNotes,omitempty"`
	PO                      string    `json:"po,omitempty" validate:"max=100"`
	LocationType            string    `json:"locationType" validate:"required,max=50"`
	LocationName            string    `json:"locationName" validate:"required,max=200"`
	City                    string    `json:"city" validate:"required,max=100"`
	StartDate               time.Time `json:"startDate" validate:"required"`
	EndDate                 time.Time `json:"endDate" validate:"required"`
	ResponsibleEngineerName string    `json:"responsibleEngineerName,omitempty" validate:"max=200"`
	ResponsibleOpsName      string    `json:"responsibleOpsName,omitempty" validate:"max=200"`
}

// DeleteWorkOrderRequest carries the mandatory reason for numbered work orders
type DeleteWorkOrderRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// OverrideStatusRequest forces a work order into settlement ahead of schedule
type OverrideStatusRequest struct {
	Status WorkOrderStatus `json:"status" validate:"required,oneof=PENDING_SETTLEMENT"`
}

// Service item request DTOs
type CreateServiceItemRequest struct {
	Status         ServiceItemStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	EquipmentName  string            `json:"equipmentName" validate:"required,max=200"`
	Model          string            `json:"model,omitempty" validate:"max=200"`
	Serial         string            `json:"serial,omitempty" validate:"max=100"`
	ServiceContent string            `json:"serviceContent" validate:"required"`
	EngineerIDs    []uuid.UUID       `json:"engineerIds,omitempty"`
}

type UpdateServiceItemRequest struct {
	Status         ServiceItemStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	EquipmentName  string            `json:"equipmentName" validate:"required,max=200"`
	Model          string            `json:"model,omitempty" validate:"max=200"`
	Serial         string            `json:"serial,omitempty" validate:"max=100"`
	ServiceContent string            `json:"serviceContent" validate:"required"`
	EngineerIDs    []uuid.UUID       `json:"engineerIds,omitempty"`
}

// Cost line request DTOs
type CreateCostLineRequest struct {
	ItemName  string       `json:"itemName" validate:"required,max=200"`
	Category  CostCategory `json:"category" validate:"required,oneof=PARTS LABOR OUTSOURCE OTHER"`
	UnitPrice float64      `json:"unitPrice" validate:"gt=0"`
	Quantity  float64      `json:"quantity" validate:"gt=0"`
	Notes     string       `json:"notes,omitempty"`
}

type UpdateCostLineRequest struct {
	ItemName  string       `json:"itemName" validate:"required,max=200"`
	Category  CostCategory `json:"category" validate:"required,oneof=PARTS LABOR OUTSOURCE OTHER"`
	UnitPrice float64      `json:"unitPrice" validate:"gt=0"`
	Quantity  float64      `json:"quantity" validate:"gt=0"`
	Notes     string       `json:"notes,omitempty"`
}

// Quote request DTOs
type CreateQuoteRequest struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
	IsFinal  bool    `json:"isFinal,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

type UpdateQuoteRequest struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
	IsFinal  bool    `json:"isFinal,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Invoice request DTOs
type CreateInvoiceRequest struct {
	InvoiceNo string        `json:"invoiceNo" validate:"required,max=100"`
	Amount    float64       `json:"amount" validate:"gte=0"`
	Currency  string        `json:"currency" validate:"required,len=3"`
	IssueDate time.Time     `json:"issueDate" validate:"required"`
	DueDate   *time.Time    `json:"dueDate,omitempty"`
	Status    InvoiceStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT SENT PAID OVERDUE"`
	Notes     string        `json:"notes,omitempty"`
}

type UpdateInvoiceRequest struct {
	InvoiceNo string        `json:"invoiceNo" validate:"required,max=100"`
	Amount    float64       `json:"amount" validate:"gte=0"`
	Currency  string        `json:"currency" validate:"required,len=3"`
	IssueDate time.Time     `json:"issueDate" validate:"required"`
	DueDate   *time.Time    `json:"dueDate,omitempty"`
	Status    InvoiceStatus `json:"status" validate:"required,oneof=DRAFT SENT PAID OVERDUE"`
	Notes     string        `json:"notes,omitempty"`
}

// Payment receipt request DTOs
type CreatePaymentRequest struct {
	InvoiceID *uuid.UUID `json:"invoiceId,omitempty"`
	ReceiptNo string     `json:"receiptNo" validate:"required,max=100"`
	Amount    float64    `json:"amount" validate:"gt=0"`
	Currency  string     `json:"currency" validate:"required,len=3"`
	Date      time.Time  `json:"date" validate:"required"`
	Method    string     `json:"method" validate:"required,max=50"`
	Reference string     `json:"reference,omitempty" validate:"max=200"`
}

type UpdatePaymentRequest struct {
	InvoiceID *uuid.UUID `json:"invoiceId,omitempty"`
	ReceiptNo string     `json:"receiptNo" validate:"required,max=100"`
	Amount    float64    `json:"amount" validate:"gt=0"`
	Currency  string     `json:"currency" validate:"required,len=3"`
	Date      time.Time  `json:"date" validate:"required"`
	Method    string     `json:"method" validate:"required,max=50"`
	Reference string     `json:"reference,omitempty" validate:"max=200"`
}
