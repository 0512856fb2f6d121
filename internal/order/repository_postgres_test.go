package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "user_id", "order_items", "shipping_info", "payment_method", "payment_status", "order_status",
	"items_price", "shipping_price", "total_price", "delivered_at", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	o := Order{
		User:          "u1",
		OrderItems:    []LineItem{{Product: "p1", Name: "Áo", Quantity: 1, Price: 10}},
		PaymentMethod: MethodCOD,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
		ItemsPrice:    10,
		TotalPrice:    10,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), sqlmock.AnyArg(), MethodCOD, PaymentPending, StatusPending,
			10.0, 0.0, 10.0, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID_DecodesDocuments(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM orders\s+WHERE id = \$1`).WithArgs("o1").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).AddRow(
			"o1", "u1",
			[]byte(`[{"product":"p1","name":"Áo","quantity":2,"price":100}]`),
			[]byte(`{"fullName":"A","city":"HCM"}`),
			MethodBank, PaymentPaid, StatusDelivered, 200.0, 0.0, 200.0, now, now, now))
	mock.ExpectQuery(`FROM orders\s+WHERE id = \$1`).WithArgs("o2").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	o, err := repo.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, o.OrderItems, 1)
	assert.Equal(t, 2, o.OrderItems[0].Quantity)
	assert.Equal(t, "HCM", o.ShippingInfo.City)
	require.NotNil(t, o.DeliveredAt)

	_, err = repo.GetByID(context.Background(), "o2")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE user_id = \$1\s+ORDER BY created_at DESC, id DESC`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow("o2", "u1", []byte(`[]`), []byte(`{}`), MethodCOD, PaymentPending, StatusPending, 0.0, 0.0, 0.0, nil, now, now).
			AddRow("o1", "u1", []byte(`[]`), []byte(`{}`), MethodCOD, PaymentPending, StatusCancelled, 0.0, 0.0, 0.0, nil, now.Add(-time.Hour), now))

	orders, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Nil(t, orders[0].DeliveredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE orders`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), Order{ID: "missing"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
