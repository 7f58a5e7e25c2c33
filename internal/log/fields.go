package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldInvoiceID  = "invoice_id"
	FieldCustomerID = "customer_id"
	FieldSearch     = "search"
	FieldPage       = "page"
	FieldAction     = "action"
	FieldAmount     = "amount_cents"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentService = "service"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
)

// Standard operation names. The storage layer logs exactly one
// diagnostic per failure carrying one of these, so operators can tell
// which query path broke.
const (
	OpFetchRevenue           = "fetch_revenue"
	OpFetchLatestInvoices    = "fetch_latest_invoices"
	OpFetchCardData          = "fetch_card_data"
	OpFetchFilteredInvoices  = "fetch_filtered_invoices"
	OpFetchInvoicesPages     = "fetch_invoices_pages"
	OpFetchInvoiceByID       = "fetch_invoice_by_id"
	OpFetchCustomers         = "fetch_customers"
	OpFetchFilteredCustomers = "fetch_filtered_customers"
	OpUpdateInvoice          = "update_invoice"
	OpDeleteInvoice          = "delete_invoice"
	OpRecordAudit            = "record_audit"
)
