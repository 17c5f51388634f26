package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDealerInactive     = errors.New("dealer is inactive")
	ErrUserInactive       = errors.New("user is inactive")

	ErrDealerRequired   = errors.New("dealer context is required")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrNoOrdersSelected = errors.New("no orders selected for invoicing")
	ErrDueBeforeIssue   = errors.New("due date is before issue date")
	ErrInvalidWindow    = errors.New("invalid date window")

	ErrOrderAlreadyInvoiced     = errors.New("order is already referenced by an active invoice")
	ErrInvoiceNumberUnavailable = errors.New("invoice number allocation failed")
	ErrExportFailed             = errors.New("register export failed")
)
