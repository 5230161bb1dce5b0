package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"inventory/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeNumericOutOfRange    = "22003"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// ConstraintEntity describes what a named constraint protects, for error messages.
type ConstraintEntity struct {
	Entity string
	Field  string
}

// constraints maps constraint names from the migrations to domain terms.
var constraints = map[string]ConstraintEntity{
	"categories_name_key":                  {"category", "name"},
	"products_sku_key":                     {"product", "sku"},
	"products_category_name_key":           {"product", "name in category"},
	"vendors_contact_info_key":             {"vendor", "contact info"},
	"users_email_key":                      {"user", "email"},
	"sales_number_key":                     {"sale", "number"},
	"purchase_orders_number_key":           {"purchase order", "number"},
	"products_category_id_fkey":            {"category", "id"},
	"sale_items_product_id_fkey":           {"product", "id"},
	"purchase_order_items_product_id_fkey": {"product", "id"},
	"purchase_orders_vendor_id_fkey":       {"vendor", "id"},
	"stock_movements_product_id_fkey":      {"product", "id"},
}

// MapError translates driver errors into AppErrors. Other errors are returned unchanged.
//   - unique violation -> DUPLICATE_ENTITY
//   - foreign key violation -> NOT_FOUND (the referenced row is missing)
//   - check violation on current_stock -> INSUFFICIENT_STOCK
//   - numeric overflow -> VALIDATION_ERROR
//   - deadlock or serialization failure -> CONCURRENT_MODIFICATION
//
// Errors that already are AppErrors are left alone.
func MapError(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	target, known := constraints[pgErr.ConstraintName]
	switch pgErr.Code {
	case CodeUniqueViolation:
		if !known {
			target = ConstraintEntity{Entity: pgErr.TableName, Field: pgErr.ConstraintName}
		}
		return apperror.NewDuplicate(target.Entity, target.Field, "").WithCause(err)
	case CodeForeignKeyViolation:
		if !known {
			target = ConstraintEntity{Entity: pgErr.TableName}
		}
		return apperror.NewNotFound(target.Entity, "").WithCause(err)
	case CodeCheckViolation:
		if pgErr.ConstraintName == "products_current_stock_check" {
			return apperror.NewInsufficientStock("", 0, 0).WithCause(err)
		}
		return apperror.NewValidation("constraint violated").
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case CodeNumericOutOfRange:
		return apperror.NewValidation("numeric value out of range").WithCause(err)
	case CodeSerializationFailure, CodeDeadlockDetected:
		return apperror.NewConcurrentModification("transaction", "").WithCause(err)
	}
	return err
}
