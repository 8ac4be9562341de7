package mysql

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
)

func TestNewWithConnPings(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer conn.Close()

	mock.ExpectPing()

	db, err := NewWithConn(context.Background(), conn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if db == nil {
		t.Fatalf("expected gorm db")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNewWithConnReportsPingFailure(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer conn.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	if _, err := NewWithConn(context.Background(), conn); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestOpenClosesOwnedPoolOnPingFailure(t *testing.T) {
	conn, mock, err := sqlmock.NewWithDSN("sqlmock_ping_failure", sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.NewWithDSN: %v", err)
	}
	defer conn.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	dialector := mysql.New(mysql.Config{
		DriverName:                "sqlmock",
		DSN:                       "sqlmock_ping_failure",
		SkipInitializeWithVersion: true,
	})
	if _, err := open(context.Background(), dialector, true); err == nil {
		t.Fatalf("expected ping error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected owned pool closed: %v", err)
	}
}
