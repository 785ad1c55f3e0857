package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// RoomSortFields contains allowed sort fields for rooms
var RoomSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"room_number": true,
	"rent_amount": true,
	"rent_type":   true,
	"status":      true,
}

// OccupancySortFields contains allowed sort fields for occupancies
var OccupancySortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"tenant_name": true,
	"join_date":   true,
	"leave_date":  true,
	"rent_amount": true,
	"status":      true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"due_date":     true,
	"payment_date": true,
	"year":         true,
	"month":        true,
	"status":       true,
	"rent_amount":  true,
	"amount_paid":  true,
}

// applyPaging orders the query by a whitelisted column and limits it to one
// page. A PageSize of zero or less leaves the query unbounded.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "created_at")
	query = query.Order(fmt.Sprintf("%s %s", field, ValidateSortOrder(filter.OrderDir)))
	if field != "id" {
		query = query.Order("id ASC")
	}
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// translateError maps driver level errors to the domain's sentinel errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrDuplicateKey
	default:
		return err
	}
}
