package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/crm/backend/internal/domain/shared"
)

// applySearch adds an ILIKE search predicate over the given columns
func applySearch(query *gorm.DB, filter shared.Filter, columns []string) *gorm.DB {
	if filter.Search == "" || len(columns) == 0 {
		return query
	}

	pattern := "%" + filter.Search + "%"
	conditions := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conditions[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(conditions, " OR "), args...)
}

// applyPagination adds ordering and pagination to the query.
// Only known column names are accepted for ordering to keep the
// order clause out of reach of user input.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := "created_at"
	if isOrderableColumn(filter.OrderBy) {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

func isOrderableColumn(column string) bool {
	switch column {
	case "created_at", "updated_at", "full_name", "email", "name", "price", "status":
		return true
	default:
		return false
	}
}
