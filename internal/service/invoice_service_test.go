package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dealerops/internal/domain"
	"dealerops/internal/service"
	"dealerops/mocks"
)

func TestInvoiceService_GetByID(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo)
	dealerID := uuid.New()
	invoiceID := uuid.New()

	repo.On("GetByID", mock.Anything, dealerID, invoiceID).
		Return(&domain.Invoice{ID: invoiceID, InvoiceNumber: "INV-0003"}, nil)
	repo.On("ListItems", mock.Anything, dealerID, invoiceID).
		Return([]domain.InvoiceItem{{InvoiceID: invoiceID, SortOrder: 0}, {InvoiceID: invoiceID, SortOrder: 1}}, nil)

	got, err := svc.GetByID(context.Background(), dealerID, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0003", got.InvoiceNumber)
	assert.Len(t, got.Items, 2)
}

func TestInvoiceService_GetByID_NotFound(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo)
	dealerID := uuid.New()
	invoiceID := uuid.New()

	repo.On("GetByID", mock.Anything, dealerID, invoiceID).Return(nil, domain.ErrInvoiceNotFound)

	_, err := svc.GetByID(context.Background(), dealerID, invoiceID)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestInvoiceService_GetByID_MissingDealer(t *testing.T) {
	svc := service.NewInvoiceService(new(mocks.MockInvoiceRepo))
	_, err := svc.GetByID(context.Background(), uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, domain.ErrDealerRequired)
}

func TestInvoiceService_ListByDealer(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo)
	dealerID := uuid.New()

	repo.On("ListByDealer", mock.Anything, dealerID, "pending", 0, 20).
		Return([]domain.Invoice{{InvoiceNumber: "INV-0001"}}, 1, nil)

	got, total, err := svc.ListByDealer(context.Background(), dealerID, "pending", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, got, 1)
}
