package domain

import "fmt"

// ValidationError marks user-correctable input or business-rule violations.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a missing referenced entity.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// AuthorizationError marks a requester lacking ownership or role for an action.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func Unauthorizedf(format string, args ...any) error {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the menu item (or ingredient, for direct
// ledger adjustments) whose requirement could not be covered.
type InsufficientStockError struct {
	Item string
}

func (e *InsufficientStockError) Error() string {
	if e.Item == "" {
		return "insufficient stock"
	}
	return fmt.Sprintf("insufficient stock for %q", e.Item)
}

func InsufficientStock(item string) error {
	return &InsufficientStockError{Item: item}
}
