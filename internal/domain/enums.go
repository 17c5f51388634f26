package domain

// OrderType is the department a service order belongs to.
type OrderType string

const (
	OrderTypeSales   OrderType = "sales"
	OrderTypeService OrderType = "service"
	OrderTypeRecon   OrderType = "recon"
	OrderTypeCarwash OrderType = "carwash"
)

// ValidOrderTypes maps every known order type to true.
var ValidOrderTypes = map[OrderType]bool{
	OrderTypeSales:   true,
	OrderTypeService: true,
	OrderTypeRecon:   true,
	OrderTypeCarwash: true,
}

// OrderStatus represents the lifecycle of an order in the external system.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// StatusFilterAll bypasses status filtering in billable-order queries.
const StatusFilterAll = "all"

// ValidStatusFilters maps the accepted status filter values.
var ValidStatusFilters = map[string]bool{
	StatusFilterAll:               true,
	string(OrderStatusPending):    true,
	string(OrderStatusInProgress): true,
	string(OrderStatusCompleted):  true,
	string(OrderStatusCancelled):  true,
}

// InvoiceStatus represents the lifecycle of an invoice.
// The engine only ever creates invoices in pending status; all later
// transitions belong to payment recording outside this service.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusPending       InvoiceStatus = "pending"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// ActiveInvoiceStatuses are the statuses under which an invoice still claims
// its orders. Orders referenced only by draft or cancelled invoices are
// billable again.
var ActiveInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPending,
	InvoiceStatusPaid,
	InvoiceStatusPartiallyPaid,
	InvoiceStatusOverdue,
}

// UserRole defines the role hierarchy within a dealer.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
)
