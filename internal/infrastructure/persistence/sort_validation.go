package persistence

import (
	"strings"
)

// ValidateSortOrder maps a client supplied direction onto ASC or DESC.
// Anything other than a case-insensitive "asc" sorts descending.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted and
// defaultField otherwise. Column names are matched exactly so nothing a
// client sends reaches ORDER BY unless it is listed below.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	if field := strings.TrimSpace(sortField); allowedFields[field] {
		return field
	}
	return defaultField
}

// withAuditColumns builds a whitelist of the audit columns every table carries
// plus the given columns.
func withAuditColumns(columns ...string) map[string]bool {
	fields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, c := range columns {
		fields[c] = true
	}
	return fields
}

var (
	// CodeSortFields covers master data keyed by a business code
	CodeSortFields = withAuditColumns("code", "name")

	AccountSortFields       = withAuditColumns("code", "full_code", "name", "level", "nature")
	FinancialYearSortFields = withAuditColumns("code", "start_date", "end_date")
	UserSortFields          = withAuditColumns("username", "email", "display_name", "last_login_at")
	VoucherSortFields       = withAuditColumns("number", "date", "type", "status", "total_debit", "net_amount", "sequence")
)
