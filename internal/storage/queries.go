package storage

// Centralized SQL for the repository. All statements are parameterized;
// user input is never concatenated into query text.

// invoiceFilter implements the search predicate: case-insensitive
// substring match across customer name, customer email, the amount as
// text, the date as text and the status. Callers bind the same
// "%query%" pattern five times.
const invoiceFilter = `
		lower(c.name) LIKE lower(?) OR
		lower(c.email) LIKE lower(?) OR
		CAST(i.amount AS TEXT) LIKE ? OR
		i.date LIKE ? OR
		lower(i.status) LIKE lower(?)`

const (
	qRevenue = `SELECT month, revenue FROM revenue`

	qLatestInvoices = `
	SELECT i.id, i.amount, c.name, c.email, c.image_url
	FROM invoices i
	JOIN customers c ON i.customer_id = c.id
	ORDER BY i.date DESC
	LIMIT 5`

	qCardData = `
	SELECT
		(SELECT COUNT(*) FROM invoices),
		(SELECT COUNT(*) FROM customers),
		COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0)
	FROM invoices`

	qFilteredInvoices = `
	SELECT i.id, i.amount, i.date, i.status, c.name, c.email, c.image_url
	FROM invoices i
	JOIN customers c ON i.customer_id = c.id
	WHERE` + invoiceFilter + `
	ORDER BY i.date DESC
	LIMIT ? OFFSET ?`

	qInvoicesCount = `
	SELECT COUNT(*)
	FROM invoices i
	JOIN customers c ON i.customer_id = c.id
	WHERE` + invoiceFilter

	qInvoiceByID = `
	SELECT id, customer_id, amount, status
	FROM invoices
	WHERE id = ?`

	qCustomers = `SELECT id, name FROM customers ORDER BY name ASC`

	qFilteredCustomers = `
	SELECT
		c.id, c.name, c.email, c.image_url,
		COUNT(i.id),
		COALESCE(SUM(CASE WHEN i.status = 'pending' THEN i.amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN i.status = 'paid' THEN i.amount ELSE 0 END), 0)
	FROM customers c
	LEFT JOIN invoices i ON c.id = i.customer_id
	WHERE
		lower(c.name) LIKE lower(?) OR
		lower(c.email) LIKE lower(?)
	GROUP BY c.id, c.name, c.email, c.image_url
	ORDER BY c.name ASC`

	qUpdateInvoice = `
	UPDATE invoices
	SET customer_id = ?, amount = ?, status = ?
	WHERE id = ?`

	qDeleteInvoice = `DELETE FROM invoices WHERE id = ?`

	qInsertAudit = `
	INSERT INTO audit_log (invoice_id, action, detail)
	VALUES (?, ?, ?)`

	qRecentAudit = `
	SELECT id, invoice_id, action, detail, occurred_at
	FROM audit_log
	ORDER BY id DESC
	LIMIT ?`
)
