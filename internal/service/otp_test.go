package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/prudvivenkat/agriconnect/internal/repository"
)

func newOTPService(t *testing.T) (*OTPService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := NewOTPService(repository.NewOTPRepo(db))
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, mock
}

func TestOTPIssueReplacesPrior(t *testing.T) {
	svc, mock := newOTPService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM otps WHERE contact = \? AND contact_type = \?`).
		WithArgs("farmer@example.com", "email").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO otps`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	code, err := svc.Issue(context.Background(), "farmer@example.com", "email")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("code %q: want 6 digits", code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOTPVerifyConsumes(t *testing.T) {
	svc, mock := newOTPService(t)

	// first verify consumes the row
	mock.ExpectExec(`DELETE FROM otps WHERE contact = \? AND contact_type = \? AND otp_code = \? AND expiry >= \?`).
		WithArgs("farmer@example.com", "email", "123456", svc.now()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM otps WHERE contact = \? AND contact_type = \? AND expiry < \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := svc.Verify(context.Background(), "farmer@example.com", "email", "123456")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("Verify = false, want true")
	}

	// replay: row is gone, the conditional delete hits nothing
	mock.ExpectExec(`DELETE FROM otps WHERE contact = \? AND contact_type = \? AND otp_code = \? AND expiry >= \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM otps WHERE contact = \? AND contact_type = \? AND expiry < \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = svc.Verify(context.Background(), "farmer@example.com", "email", "123456")
	if err != nil {
		t.Fatalf("Verify replay: %v", err)
	}
	if ok {
		t.Fatal("replayed code accepted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOTPVerifyExpired(t *testing.T) {
	svc, mock := newOTPService(t)

	// expiry < now: the conditional delete misses, the purge sweeps it
	mock.ExpectExec(`DELETE FROM otps WHERE contact = \? AND contact_type = \? AND otp_code = \? AND expiry >= \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM otps WHERE contact = \? AND contact_type = \? AND expiry < \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := svc.Verify(context.Background(), "farmer@example.com", "email", "654321")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("expired code accepted")
	}
}
