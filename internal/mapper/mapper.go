package mapper

import (
	"time"

	"github.com/wormos/shipops-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"
const dateFormat = "2006-01-02"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeFormat)
	return &s
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}

// ToUserDTOs converts a slice of Users to UserDTOs
func ToUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = ToUserDTO(&users[i])
	}
	return dtos
}

// ToAuthUserDTO converts User to AuthUserDTO
func ToAuthUserDTO(user *domain.User) domain.AuthUserDTO {
	return domain.AuthUserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// ToWorkOrderDTO converts WorkOrder to WorkOrderDTO
func ToWorkOrderDTO(workOrder *domain.WorkOrder) domain.WorkOrderDTO {
	dto := domain.WorkOrderDTO{
		ID:                      workOrder.ID,
		InternalNo:              workOrder.InternalNo,
		Status:                  workOrder.Status,
		OperatingCompany:        workOrder.OperatingCompany,
		OrderType:               workOrder.OrderType,
		PaymentTerms:            workOrder.PaymentTerms,
		CustomerCompany:         workOrder.CustomerCompany,
		VesselName:              workOrder.VesselName,
		IMO:                     workOrder.IMO,
		VesselType:              workOrder.VesselType,
		YearBuilt:               workOrder.YearBuilt,
		GrossTonnage:            workOrder.GrossTonnage,
		VesselNotes:             workOrder.VesselNotes,
		PO:                      workOrder.PO,
		LocationType:            workOrder.LocationType,
		LocationName:            workOrder.LocationName,
		City:                    workOrder.City,
		StartDate:               workOrder.StartDate.Format(dateFormat),
		EndDate:                 workOrder.EndDate.Format(dateFormat),
		ResponsibleEngineerName: workOrder.ResponsibleEngineerName,
		ResponsibleOpsName:      workOrder.ResponsibleOpsName,
		CreatedByID:             workOrder.CreatedByID,
		CreatedAt:               workOrder.CreatedAt.Format(timeFormat),
		UpdatedAt:               workOrder.UpdatedAt.Format(timeFormat),
	}

	if workOrder.CreatedBy != nil {
		dto.CreatedByName = workOrder.CreatedBy.Name
	}

	return dto
}

// ToWorkOrderDTOs converts a slice of WorkOrders to WorkOrderDTOs
func ToWorkOrderDTOs(workOrders []domain.WorkOrder) []domain.WorkOrderDTO {
	dtos := make([]domain.WorkOrderDTO, len(workOrders))
	for i := range workOrders {
		dtos[i] = ToWorkOrderDTO(&workOrders[i])
	}
	return dtos
}

// ToServiceItemDTO converts ServiceItem to ServiceItemDTO
func ToServiceItemDTO(item *domain.ServiceItem) domain.ServiceItemDTO {
	dto := domain.ServiceItemDTO{
		ID:                item.ID,
		WorkOrderID:       item.WorkOrderID,
		Status:            item.Status,
		EquipmentName:     item.EquipmentName,
		Model:             item.Model,
		Serial:            item.Serial,
		ServiceContent:    item.ServiceContent,
		CreatedByID:       item.CreatedByID,
		AssignedEngineers: []domain.UserDTO{},
		Attachments:       []domain.AttachmentDTO{},
		CreatedAt:         item.CreatedAt.Format(timeFormat),
		UpdatedAt:         item.UpdatedAt.Format(timeFormat),
	}

	for i := range item.Engineers {
		if item.Engineers[i].User != nil {
			dto.AssignedEngineers = append(dto.AssignedEngineers, ToUserDTO(item.Engineers[i].User))
		}
	}

	for i := range item.Attachments {
		dto.Attachments = append(dto.Attachments, ToServiceAttachmentDTO(&item.Attachments[i]))
	}

	return dto
}

// ToServiceItemDTOs converts a slice of ServiceItems to ServiceItemDTOs
func ToServiceItemDTOs(items []domain.ServiceItem) []domain.ServiceItemDTO {
	dtos := make([]domain.ServiceItemDTO, len(items))
	for i := range items {
		dtos[i] = ToServiceItemDTO(&items[i])
	}
	return dtos
}

// ToServiceAttachmentDTO converts ServiceAttachment to AttachmentDTO
func ToServiceAttachmentDTO(attachment *domain.ServiceAttachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:         attachment.ID,
		Filename:   attachment.Filename,
		MimeType:   attachment.MimeType,
		Size:       attachment.Size,
		UploaderID: attachment.UploaderID,
		CreatedAt:  attachment.CreatedAt.Format(timeFormat),
	}
}

// ToCostAttachmentDTO converts CostAttachment to AttachmentDTO
func ToCostAttachmentDTO(attachment *domain.CostAttachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:         attachment.ID,
		Filename:   attachment.Filename,
		MimeType:   attachment.MimeType,
		Size:       attachment.Size,
		CostLineID: attachment.CostLineID,
		UploaderID: attachment.UploaderID,
		CreatedAt:  attachment.CreatedAt.Format(timeFormat),
	}
}

// ToCostAttachmentDTOs converts a slice of CostAttachments to AttachmentDTOs
func ToCostAttachmentDTOs(attachments []domain.CostAttachment) []domain.AttachmentDTO {
	dtos := make([]domain.AttachmentDTO, len(attachments))
	for i := range attachments {
		dtos[i] = ToCostAttachmentDTO(&attachments[i])
	}
	return dtos
}

// ToCostLineDTO converts CostLine to CostLineDTO
func ToCostLineDTO(line *domain.CostLine) domain.CostLineDTO {
	return domain.CostLineDTO{
		ID:          line.ID,
		WorkOrderID: line.WorkOrderID,
		ItemName:    line.ItemName,
		Category:    line.Category,
		UnitPrice:   line.UnitPrice,
		Quantity:    line.Quantity,
		LineTotal:   line.LineTotal,
		Notes:       line.Notes,
		IsLocked:    line.IsLocked,
		LockedAt:    formatTimePtr(line.LockedAt),
		LockedByID:  line.LockedByID,
		CreatedByID: line.CreatedByID,
		CreatedAt:   line.CreatedAt.Format(timeFormat),
		UpdatedAt:   line.UpdatedAt.Format(timeFormat),
	}
}

// ToCostLineDTOs converts a slice of CostLines to CostLineDTOs
func ToCostLineDTOs(lines []domain.CostLine) []domain.CostLineDTO {
	dtos := make([]domain.CostLineDTO, len(lines))
	for i := range lines {
		dtos[i] = ToCostLineDTO(&lines[i])
	}
	return dtos
}

// ToQuoteDTO converts Quote to QuoteDTO
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	return domain.QuoteDTO{
		ID:          quote.ID,
		WorkOrderID: quote.WorkOrderID,
		Amount:      quote.Amount,
		Currency:    quote.Currency,
		IsFinal:     quote.IsFinal,
		Notes:       quote.Notes,
		CreatedByID: quote.CreatedByID,
		CreatedAt:   quote.CreatedAt.Format(timeFormat),
		UpdatedAt:   quote.UpdatedAt.Format(timeFormat),
	}
}

// ToQuoteDTOs converts a slice of Quotes to QuoteDTOs
func ToQuoteDTOs(quotes []domain.Quote) []domain.QuoteDTO {
	dtos := make([]domain.QuoteDTO, len(quotes))
	for i := range quotes {
		dtos[i] = ToQuoteDTO(&quotes[i])
	}
	return dtos
}

// ToInvoiceDTO converts Invoice to InvoiceDTO
func ToInvoiceDTO(invoice *domain.Invoice) domain.InvoiceDTO {
	dto := domain.InvoiceDTO{
		ID:          invoice.ID,
		WorkOrderID: invoice.WorkOrderID,
		InvoiceNo:   invoice.InvoiceNo,
		Amount:      invoice.Amount,
		Currency:    invoice.Currency,
		IssueDate:   invoice.IssueDate.Format(dateFormat),
		Status:      invoice.Status,
		Notes:       invoice.Notes,
		CreatedByID: invoice.CreatedByID,
		CreatedAt:   invoice.CreatedAt.Format(timeFormat),
		UpdatedAt:   invoice.UpdatedAt.Format(timeFormat),
	}

	if invoice.DueDate != nil {
		s := invoice.DueDate.Format(dateFormat)
		dto.DueDate = &s
	}

	return dto
}

// ToInvoiceDTOs converts a slice of Invoices to InvoiceDTOs
func ToInvoiceDTOs(invoices []domain.Invoice) []domain.InvoiceDTO {
	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = ToInvoiceDTO(&invoices[i])
	}
	return dtos
}

// ToPaymentReceiptDTO converts PaymentReceipt to PaymentReceiptDTO
func ToPaymentReceiptDTO(receipt *domain.PaymentReceipt) domain.PaymentReceiptDTO {
	return domain.PaymentReceiptDTO{
		ID:          receipt.ID,
		WorkOrderID: receipt.WorkOrderID,
		InvoiceID:   receipt.InvoiceID,
		ReceiptNo:   receipt.ReceiptNo,
		Amount:      receipt.Amount,
		Currency:    receipt.Currency,
		Date:        receipt.Date.Format(dateFormat),
		Method:      receipt.Method,
		Reference:   receipt.Reference,
		CreatedByID: receipt.CreatedByID,
		CreatedAt:   receipt.CreatedAt.Format(timeFormat),
		UpdatedAt:   receipt.UpdatedAt.Format(timeFormat),
	}
}

// ToPaymentReceiptDTOs converts a slice of PaymentReceipts to PaymentReceiptDTOs
func ToPaymentReceiptDTOs(receipts []domain.PaymentReceipt) []domain.PaymentReceiptDTO {
	dtos := make([]domain.PaymentReceiptDTO, len(receipts))
	for i := range receipts {
		dtos[i] = ToPaymentReceiptDTO(&receipts[i])
	}
	return dtos
}

// ToProfitReportDTO converts ProfitReport to ProfitReportDTO.
// The income and cost breakdowns are passed in decoded form since the
// model stores them as JSON strings.
func ToProfitReportDTO(report *domain.ProfitReport, income domain.IncomeSnapshotDTO, costs map[domain.CostCategory]float64) domain.ProfitReportDTO {
	return domain.ProfitReportDTO{
		ID:                  report.ID,
		WorkOrderID:         report.WorkOrderID,
		Status:              report.Status,
		RevenueTotal:        report.RevenueTotal,
		CostTotal:           report.CostTotal,
		Profit:              report.Profit,
		MarginPercent:       report.MarginPercent,
		IncomeBreakdown:     income,
		CostBreakdown:       costs,
		ProfitabilityRating: report.ProfitabilityRating,
		PaymentRating:       report.PaymentRating,
		OverallRating:       report.OverallRating,
		GeneratedByID:       report.GeneratedByID,
		ConfirmedByID:       report.ConfirmedByID,
		ConfirmedAt:         formatTimePtr(report.ConfirmedAt),
		CreatedAt:           report.CreatedAt.Format(timeFormat),
		UpdatedAt:           report.UpdatedAt.Format(timeFormat),
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         notification.ID,
		Type:       notification.Type,
		Title:      notification.Title,
		Message:    notification.Message,
		Read:       notification.Read,
		CreatedAt:  notification.CreatedAt.Format(timeFormat),
		EntityID:   notification.EntityID,
		EntityType: notification.EntityType,
	}
}

// ToNotificationDTOs converts a slice of Notifications to NotificationDTOs
func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}
	return dtos
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(log *domain.AuditLog) domain.AuditLogDTO {
	return domain.AuditLogDTO{
		ID:         log.ID,
		UserID:     log.UserID,
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Metadata:   log.Metadata,
		CreatedAt:  log.CreatedAt.Format(timeFormat),
	}
}

// ToAuditLogDTOs converts a slice of AuditLogs to AuditLogDTOs
func ToAuditLogDTOs(logs []domain.AuditLog) []domain.AuditLogDTO {
	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = ToAuditLogDTO(&logs[i])
	}
	return dtos
}

// NewPaginatedResponse builds the standard paging envelope
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) domain.PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
