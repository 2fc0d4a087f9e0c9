package reconcile

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "product_name", "quantity", "mrp", "discount", "add_margin", "net_rate", "category"})
}

func TestGormStoreProductByName(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store := NewGormStore(db)

		rows := productRows().AddRow(1, "Widget", 10, "99.00", "0.00", "0.00", "80.00", "tools")
		mock.ExpectQuery("SELECT \\* FROM `products` WHERE product_name = \\?").WillReturnRows(rows)

		product, err := store.ProductByName(context.Background(), "Widget")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, 10, product.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Absent Returns Nil", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store := NewGormStore(db)

		mock.ExpectQuery("SELECT \\* FROM `products`").WillReturnRows(productRows())

		product, err := store.ProductByName(context.Background(), "Ghost")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("Locks Row Inside Transaction", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store := NewGormStore(db)

		mock.ExpectBegin()
		rows := productRows().AddRow(1, "Widget", 10, "99.00", "0.00", "0.00", "80.00", "tools")
		mock.ExpectQuery("SELECT \\* FROM `products` WHERE product_name = \\?.*FOR UPDATE").WillReturnRows(rows)
		mock.ExpectCommit()

		err := store.InTx(context.Background(), func(tx Store) error {
			product, err := tx.ProductByName(context.Background(), "Widget")
			require.NoError(t, err)
			require.NotNil(t, product)
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreNextInvoiceNumber(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectQuery("SELECT `invoice_number` FROM `invoice_lines` ORDER BY invoice_number DESC LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_number"}).AddRow(41))

	number, err := store.NextInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, number)
}

func TestGormStoreNextInvoiceNumberLocksInsideTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `invoice_number` FROM `invoice_lines` ORDER BY invoice_number DESC LIMIT .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_number"}).AddRow(41))
	mock.ExpectCommit()

	err := store.InTx(context.Background(), func(tx Store) error {
		number, err := tx.NextInvoiceNumber(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, number)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreUpdateProductQuantityInTx(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET `quantity`=\\? WHERE id = \\?").
		WithArgs(6, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.InTx(context.Background(), func(tx Store) error {
		return tx.UpdateProductQuantity(context.Background(), 1, 6)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreInTxRetriesDeadlock(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	deadlock := &driver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	for i := 0; i < txRetries; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `products`").WillReturnError(deadlock)
		mock.ExpectRollback()
	}

	err := store.InTx(context.Background(), func(tx Store) error {
		return tx.UpdateProductQuantity(context.Background(), 1, 6)
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreInTxNoRetryOnPlainError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.InTx(context.Background(), func(tx Store) error {
		return tx.UpdateProductQuantity(context.Background(), 1, 6)
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreDeleteInvoiceLines(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `invoice_lines` WHERE invoice_number = \\?").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	var count int64
	err := store.InTx(context.Background(), func(tx Store) error {
		var err error
		count, err = tx.DeleteInvoiceLines(context.Background(), 7)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormStoreProductsNotOnInvoice(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	rows := productRows().AddRow(2, "Red Widget", 5, "10.00", "0.00", "0.00", "8.00", "tools")
	mock.ExpectQuery("SELECT \\* FROM `products` WHERE product_name NOT IN \\(SELECT `product_name` FROM `invoice_lines` WHERE invoice_number = \\?\\) AND LOWER\\(product_name\\) LIKE \\?").
		WithArgs(3, "%widget%").
		WillReturnRows(rows)

	products, err := store.ProductsNotOnInvoice(context.Background(), 3, "Widget")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Red Widget", products[0].ProductName)
}
