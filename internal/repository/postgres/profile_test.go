package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"

	"inride/internal/repository"
)

// emptyConnector serves a database with no rows in any table, so lookups
// exercise the no-match path of the real query code.
type emptyConnector struct{}

func (emptyConnector) Connect(context.Context) (driver.Conn, error) { return emptyConn{}, nil }
func (emptyConnector) Driver() driver.Driver                        { return emptyDriver{} }

type emptyDriver struct{}

func (emptyDriver) Open(string) (driver.Conn, error) { return emptyConn{}, nil }

type emptyConn struct{}

func (emptyConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (emptyConn) Close() error                        { return nil }
func (emptyConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (emptyConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	return emptyRows{}, nil
}

type emptyRows struct{}

func (emptyRows) Columns() []string              { return nil }
func (emptyRows) Close() error                   { return nil }
func (emptyRows) Next(dest []driver.Value) error { return io.EOF }

// A fresh identifier matches nobody; that is the normal case during
// registration uniqueness checks and must not surface as an error.
func TestFindByIdentifier_NoMatchIsNotAnError(t *testing.T) {
	t.Parallel()

	db := sql.OpenDB(emptyConnector{})
	defer db.Close()
	ctx := context.Background()

	customer, err := NewCustomerRepository(db).FindByIdentifier(ctx, "ghost@example.com")
	if err != nil {
		t.Errorf("customer lookup: expected nil error, got %v", err)
	}
	if customer != nil {
		t.Errorf("customer lookup: expected nil customer, got %+v", customer)
	}

	drv, err := NewDriverRepository(db).FindByIdentifier(ctx, "ghost@example.com")
	if err != nil {
		t.Errorf("driver lookup: expected nil error, got %v", err)
	}
	if drv != nil {
		t.Errorf("driver lookup: expected nil driver, got %+v", drv)
	}

	admin, err := NewAdminRepository(db).FindByIdentifier(ctx, "ghost@example.com")
	if err != nil {
		t.Errorf("admin lookup: expected nil error, got %v", err)
	}
	if admin != nil {
		t.Errorf("admin lookup: expected nil admin, got %+v", admin)
	}
}

// GetByID keeps the opposite contract: a missing row is ErrNotFound.
func TestGetByID_MissingRowIsErrNotFound(t *testing.T) {
	t.Parallel()

	db := sql.OpenDB(emptyConnector{})
	defer db.Close()
	ctx := context.Background()

	if _, err := NewCustomerRepository(db).GetByID(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("customer: expected ErrNotFound, got %v", err)
	}
	if _, err := NewDriverRepository(db).GetByID(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("driver: expected ErrNotFound, got %v", err)
	}
	if _, err := NewAdminRepository(db).GetByID(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("admin: expected ErrNotFound, got %v", err)
	}
}
