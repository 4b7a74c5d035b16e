package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are generated client-side so the
// models behave the same on PostgreSQL and the sqlite test driver.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID when none was provided
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRole represents the single role assigned to a user
type UserRole string

const (
	RoleEngineer UserRole = "ENGINEER"
	RoleFinance  UserRole = "FINANCE"
	RoleOps      UserRole = "OPS"
	RoleAdmin    UserRole = "ADMIN"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleEngineer, RoleFinance, RoleOps, RoleAdmin:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;unique"`
	Name         string     `gorm:"type:varchar(200);not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null;index"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// WorkOrderStatus represents the derived lifecycle stage of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusDraft             WorkOrderStatus = "DRAFT"
	WorkOrderStatusPendingService    WorkOrderStatus = "PENDING_SERVICE"
	WorkOrderStatusInService         WorkOrderStatus = "IN_SERVICE"
	WorkOrderStatusCompleted         WorkOrderStatus = "COMPLETED"
	WorkOrderStatusPendingSettlement WorkOrderStatus = "PENDING_SETTLEMENT"
)

// IsValid checks if the WorkOrderStatus is a valid enum value
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusDraft, WorkOrderStatusPendingService, WorkOrderStatusInService,
		WorkOrderStatusCompleted, WorkOrderStatusPendingSettlement:
		return true
	}
	return false
}

// WorkOrder represents a ship-repair job tied to one vessel visit
type WorkOrder struct {
	BaseModel
	InternalNo              *string         `gorm:"type:varchar(50);uniqueIndex;column:internal_no"`
	Status                  WorkOrderStatus `gorm:"type:varchar(50);not null;default:'DRAFT';index"`
	OperatingCompany        string          `gorm:"type:varchar(100);not null;column:operating_company"`
	OrderType               string          `gorm:"type:varchar(100);not null;column:order_type"`
	PaymentTerms            string          `gorm:"type:varchar(200);not null;column:payment_terms"`
	CustomerCompany         string          `gorm:"type:varchar(200);not null;index;column:customer_company"`
	VesselName              string          `gorm:"type:varchar(200);not null;index;column:vessel_name"`
	IMO                     string          `gorm:"type:varchar(20);not null;column:imo"`
	VesselType              string          `gorm:"type:varchar(100);column:vessel_type"`
	YearBuilt               *int            `gorm:"column:year_built"`
	GrossTonnage            *float64        `gorm:"type:decimal(15,2);column:gross_tonnage"`
	VesselNotes             string          `gorm:"type:text;column:vessel_notes"`
	PO                      string          `gorm:"type:varchar(100);column:po"`
	LocationType            string          `gorm:"type:varchar(50);not null;column:location_type"`
	LocationName            string          `gorm:"type:varchar(200);not null;column:location_name"`
	City                    string          `gorm:"type:varchar(100);not null;index"`
	StartDate               time.Time       `gorm:"type:date;not null;column:start_date"`
	EndDate                 time.Time       `gorm:"type:date;not null;column:end_date"`
	ResponsibleEngineerName string          `gorm:"type:varchar(200);column:responsible_engineer_name"`
	ResponsibleOpsName      string          `gorm:"type:varchar(200);column:responsible_ops_name"`
	CreatedByID             uuid.UUID       `gorm:"type:uuid;not null;index;column:created_by_id"`
	CreatedBy               *User           `gorm:"foreignKey:CreatedByID"`
	DeletedAt               *time.Time      `gorm:"index;column:deleted_at"`
	DeleteReason            string          `gorm:"type:varchar(500);column:delete_reason"`
	CostLines               []CostLine      `gorm:"foreignKey:WorkOrderID"`
	Quotes                  []Quote         `gorm:"foreignKey:WorkOrderID"`
	Invoices                []Invoice       `gorm:"foreignKey:WorkOrderID"`
}

// IsDeleted reports whether the work order has been soft-deleted
func (w *WorkOrder) IsDeleted() bool {
	return w.DeletedAt != nil
}

// ServiceItemStatus represents the status of a service item
type ServiceItemStatus string

const (
	ServiceItemStatusPending    ServiceItemStatus = "PENDING"
	ServiceItemStatusInProgress ServiceItemStatus = "IN_PROGRESS"
	ServiceItemStatusCompleted  ServiceItemStatus = "COMPLETED"
)

// IsValid checks if the ServiceItemStatus is a valid enum value
func (s ServiceItemStatus) IsValid() bool {
	switch s {
	case ServiceItemStatusPending, ServiceItemStatusInProgress, ServiceItemStatusCompleted:
		return true
	}
	return false
}

// ServiceItem represents one piece of equipment serviced under a work order
type ServiceItem struct {
	BaseModel
	WorkOrderID    uuid.UUID           `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder      *WorkOrder          `gorm:"foreignKey:WorkOrderID"`
	Status         ServiceItemStatus   `gorm:"type:varchar(50);not null;default:'PENDING';index"`
	EquipmentName  string              `gorm:"type:varchar(200);not null;index;column:equipment_name"`
	Model          string              `gorm:"type:varchar(200)"`
	Serial         string              `gorm:"type:varchar(100)"`
	ServiceContent string              `gorm:"type:text;not null;column:service_content"`
	CreatedByID    uuid.UUID           `gorm:"type:uuid;not null;column:created_by_id"`
	DeletedAt      *time.Time          `gorm:"index;column:deleted_at"`
	Engineers      []ServiceItemEngineer `gorm:"foreignKey:ServiceItemID"`
	Attachments    []ServiceAttachment `gorm:"foreignKey:ServiceItemID"`
}

// ServiceItemEngineer links an engineer user to a service item
type ServiceItemEngineer struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ServiceItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_service_item_engineer;column:service_item_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_service_item_engineer;column:user_id"`
	User          *User     `gorm:"foreignKey:UserID"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID when none was provided
func (e *ServiceItemEngineer) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ServiceAttachment represents a file attached to a service item
type ServiceAttachment struct {
	BaseModel
	ServiceItemID uuid.UUID    `gorm:"type:uuid;not null;index;column:service_item_id"`
	ServiceItem   *ServiceItem `gorm:"foreignKey:ServiceItemID"`
	Filename      string       `gorm:"type:varchar(255);not null"`
	StoragePath   string       `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	MimeType      string       `gorm:"type:varchar(100);not null;column:mime_type"`
	Size          int64        `gorm:"not null"`
	UploaderID    uuid.UUID    `gorm:"type:uuid;not null;column:uploader_id"`
}

// CostCategory represents the classification of a cost line
type CostCategory string

const (
	CostCategoryParts     CostCategory = "PARTS"
	CostCategoryLabor     CostCategory = "LABOR"
	CostCategoryOutsource CostCategory = "OUTSOURCE"
	CostCategoryOther     CostCategory = "OTHER"
)

// IsValid checks if the CostCategory is a valid enum value
func (c CostCategory) IsValid() bool {
	switch c {
	case CostCategoryParts, CostCategoryLabor, CostCategoryOutsource, CostCategoryOther:
		return true
	}
	return false
}

// CostLine represents one priced item or service consumed by a work order.
// LineTotal is always recomputed server-side from unit price and quantity.
// Once IsLocked is set the row is frozen and can no longer be edited or deleted.
type CostLine struct {
	BaseModel
	WorkOrderID uuid.UUID    `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder   `gorm:"foreignKey:WorkOrderID"`
	ItemName    string       `gorm:"type:varchar(200);not null;index;column:item_name"`
	Category    CostCategory `gorm:"type:varchar(50);not null;index"`
	UnitPrice   float64      `gorm:"type:decimal(15,2);not null;column:unit_price"`
	Quantity    float64      `gorm:"type:decimal(15,2);not null"`
	LineTotal   float64      `gorm:"type:decimal(15,2);not null;column:line_total"`
	Notes       string       `gorm:"type:text"`
	IsLocked    bool         `gorm:"not null;default:false;index;column:is_locked"`
	LockedAt    *time.Time   `gorm:"column:locked_at"`
	LockedByID  *uuid.UUID   `gorm:"type:uuid;column:locked_by_id"`
	CreatedByID uuid.UUID    `gorm:"type:uuid;not null;column:created_by_id"`
	DeletedAt   *time.Time   `gorm:"index;column:deleted_at"`
}

// CostAttachment represents a file attached to the cost ledger.
// CostLineID is optional: attachments may be work-order-level or line-level.
type CostAttachment struct {
	BaseModel
	WorkOrderID uuid.UUID  `gorm:"type:uuid;not null;index;column:work_order_id"`
	CostLineID  *uuid.UUID `gorm:"type:uuid;index;column:cost_line_id"`
	CostLine    *CostLine  `gorm:"foreignKey:CostLineID"`
	Filename    string     `gorm:"type:varchar(255);not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	MimeType    string     `gorm:"type:varchar(100);not null;column:mime_type"`
	Size        int64      `gorm:"not null"`
	UploaderID  uuid.UUID  `gorm:"type:uuid;not null;column:uploader_id"`
}

// Quote represents a price quote for a work order.
// At most one quote per work order may be marked final.
type Quote struct {
	BaseModel
	WorkOrderID uuid.UUID  `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder `gorm:"foreignKey:WorkOrderID"`
	Amount      float64    `gorm:"type:decimal(15,2);not null"`
	Currency    string     `gorm:"type:varchar(3);not null"`
	IsFinal     bool       `gorm:"not null;default:false;index;column:is_final"`
	Notes       string     `gorm:"type:text"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;column:created_by_id"`
}

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "DRAFT"
	InvoiceStatusSent    InvoiceStatus = "SENT"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice represents an invoice issued for a work order
type Invoice struct {
	BaseModel
	WorkOrderID uuid.UUID     `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder    `gorm:"foreignKey:WorkOrderID"`
	InvoiceNo   string        `gorm:"type:varchar(100);not null;column:invoice_no"`
	Amount      float64       `gorm:"type:decimal(15,2);not null"`
	Currency    string        `gorm:"type:varchar(3);not null"`
	IssueDate   time.Time     `gorm:"type:date;not null;column:issue_date"`
	DueDate     *time.Time    `gorm:"type:date;column:due_date"`
	Status      InvoiceStatus `gorm:"type:varchar(50);not null;default:'DRAFT';index"`
	Notes       string        `gorm:"type:text"`
	CreatedByID uuid.UUID     `gorm:"type:uuid;not null;column:created_by_id"`
}

// PaymentReceipt represents a payment received against a work order
type PaymentReceipt struct {
	BaseModel
	WorkOrderID uuid.UUID  `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder `gorm:"foreignKey:WorkOrderID"`
	InvoiceID   *uuid.UUID `gorm:"type:uuid;index;column:invoice_id"`
	Invoice     *Invoice   `gorm:"foreignKey:InvoiceID"`
	ReceiptNo   string     `gorm:"type:varchar(100);not null;column:receipt_no"`
	Amount      float64    `gorm:"type:decimal(15,2);not null"`
	Currency    string     `gorm:"type:varchar(3);not null"`
	Date        time.Time  `gorm:"type:date;not null"`
	Method      string     `gorm:"type:varchar(50);not null"`
	Reference   string     `gorm:"type:varchar(200)"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;column:created_by_id"`
}

// ProfitReportStatus represents the state of a profit report
type ProfitReportStatus string

const (
	ProfitReportStatusDraft     ProfitReportStatus = "DRAFT"
	ProfitReportStatusConfirmed ProfitReportStatus = "CONFIRMED"
)

// Rating is a coarse letter grade derived from margin or payment completeness
type Rating string

const (
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
)

// ProfitReport reconciles the cost ledger against the income ledger for a
// work order. DRAFT reports are recomputable; a CONFIRMED report is frozen
// together with verbatim snapshots of both ledgers.
type ProfitReport struct {
	BaseModel
	WorkOrderID           uuid.UUID          `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder             *WorkOrder         `gorm:"foreignKey:WorkOrderID"`
	Status                ProfitReportStatus `gorm:"type:varchar(50);not null;default:'DRAFT';index"`
	RevenueTotal          float64            `gorm:"type:decimal(15,2);not null;column:revenue_total"`
	CostTotal             float64            `gorm:"type:decimal(15,2);not null;column:cost_total"`
	Profit                float64            `gorm:"type:decimal(15,2);not null"`
	MarginPercent         float64            `gorm:"type:decimal(8,2);not null;column:margin_percent"`
	IncomeBreakdown       string             `gorm:"type:jsonb;column:income_breakdown"`
	CostBreakdown         string             `gorm:"type:jsonb;column:cost_breakdown"`
	ProfitabilityRating   Rating             `gorm:"type:varchar(1);not null;column:profitability_rating"`
	PaymentRating         Rating             `gorm:"type:varchar(1);not null;column:payment_rating"`
	OverallRating         Rating             `gorm:"type:varchar(1);not null;column:overall_rating"`
	LockedCostSnapshot    string             `gorm:"type:jsonb;column:locked_cost_snapshot"`
	LockedInvoiceSnapshot string             `gorm:"type:jsonb;column:locked_invoice_snapshot"`
	GeneratedByID         uuid.UUID          `gorm:"type:uuid;not null;column:generated_by_id"`
	ConfirmedByID         *uuid.UUID         `gorm:"type:uuid;column:confirmed_by_id"`
	ConfirmedAt           *time.Time         `gorm:"column:confirmed_at"`
	WarehouseSyncedAt     *time.Time         `gorm:"column:warehouse_synced_at"`
}

// AuditLog represents an audit trail entry
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID     *uuid.UUID `gorm:"type:uuid;index;column:user_id"`
	Action     string     `gorm:"type:varchar(100);not null;index"`
	EntityType string     `gorm:"type:varchar(50);not null;column:entity_type"`
	EntityID   *uuid.UUID `gorm:"type:uuid;column:entity_id"`
	Metadata   string     `gorm:"type:jsonb"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// BeforeCreate assigns a UUID when none was provided
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Audit actions recorded by the services
const (
	AuditWorkOrderCreate     = "WORK_ORDER_CREATE"
	AuditWorkOrderUpdate     = "WORK_ORDER_UPDATE"
	AuditWorkOrderDelete     = "WORK_ORDER_DELETE"
	AuditWorkOrderGenerateNo = "WORK_ORDER_GENERATE_NO"
	AuditServiceItemCreate   = "SERVICE_ITEM_CREATE"
	AuditServiceItemUpdate   = "SERVICE_ITEM_UPDATE"
	AuditServiceItemDelete   = "SERVICE_ITEM_DELETE"
	AuditCostLineCreate      = "COST_LINE_CREATE"
	AuditCostLineUpdate      = "COST_LINE_UPDATE"
	AuditCostLineDelete      = "COST_LINE_DELETE"
	AuditCostLinesLock       = "COST_LINES_LOCK"
	AuditQuoteCreate         = "QUOTE_CREATE"
	AuditQuoteUpdate         = "QUOTE_UPDATE"
	AuditQuoteDelete         = "QUOTE_DELETE"
	AuditInvoiceCreate       = "INVOICE_CREATE"
	AuditInvoiceUpdate       = "INVOICE_UPDATE"
	AuditInvoiceDelete       = "INVOICE_DELETE"
	AuditPaymentCreate       = "PAYMENT_CREATE"
	AuditPaymentUpdate       = "PAYMENT_UPDATE"
	AuditPaymentDelete       = "PAYMENT_DELETE"
	AuditReportGenerate      = "PROFIT_REPORT_GENERATE"
	AuditReportConfirm       = "PROFIT_REPORT_CONFIRM"
	AuditUserLogin           = "USER_LOGIN"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeDeleteWorkOrderEmail NotificationType = "DELETE_WORK_ORDER_EMAIL_SIMULATION"
	NotificationTypeReportConfirmed      NotificationType = "PROFIT_REPORT_CONFIRMED"
	NotificationTypeWorkOrderAlert       NotificationType = "WORK_ORDER_ALERT"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       string     `gorm:"type:varchar(50);not null"`
	Recipient  string     `gorm:"type:varchar(255)"`
	CC         string     `gorm:"type:varchar(255);column:cc"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:varchar(2000);not null"`
	Read       bool       `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}
