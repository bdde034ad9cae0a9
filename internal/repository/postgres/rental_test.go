package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"carshare/internal/repository"
)

var rentalCols = []string{"id", "car_id", "user_id", "rental_date", "return_date", "actual_return_date", "created_at"}

func TestRentalRepository_SetActualReturn_Conflict(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	returnedAt := time.Now()
	already := returnedAt.Add(-time.Hour)

	// The guarded UPDATE matches no row because the rental is already closed.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rentals")).
		WithArgs("rental-1", returnedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("rental-1").
		WillReturnRows(sqlmock.NewRows(rentalCols).
			AddRow("rental-1", "car-1", "user-1", time.Now(), time.Now(), already, time.Now()))

	repo := NewRentalRepository(db)
	err = repo.SetActualReturn(context.Background(), "rental-1", returnedAt)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRentalRepository_SetActualReturn_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	returnedAt := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rentals")).
		WithArgs("rental-404", returnedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("rental-404").
		WillReturnError(sql.ErrNoRows)

	repo := NewRentalRepository(db)
	err = repo.SetActualReturn(context.Background(), "rental-404", returnedAt)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRentalRepository_List_FilterShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		filter   repository.RentalFilter
		wantSQL  string
		wantArgs []driver.Value
	}{
		{
			name:    "no filter",
			filter:  repository.RentalFilter{},
			wantSQL: "FROM rentals WHERE 1=1 ORDER BY",
		},
		{
			name:     "by user",
			filter:   repository.RentalFilter{UserID: ptr("user-1")},
			wantSQL:  "AND user_id = $1",
			wantArgs: []driver.Value{"user-1"},
		},
		{
			name:    "active only",
			filter:  repository.RentalFilter{IsActive: ptrBool(true)},
			wantSQL: "AND actual_return_date IS NULL",
		},
		{
			name:     "user and completed",
			filter:   repository.RentalFilter{UserID: ptr("user-1"), IsActive: ptrBool(false)},
			wantSQL:  "AND user_id = $1 AND actual_return_date IS NOT NULL",
			wantArgs: []driver.Value{"user-1"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer db.Close()

			expect := mock.ExpectQuery(regexp.QuoteMeta(tc.wantSQL))
			if len(tc.wantArgs) > 0 {
				expect.WithArgs(tc.wantArgs...)
			}
			expect.WillReturnRows(sqlmock.NewRows(rentalCols))

			repo := NewRentalRepository(db)
			if _, err := repo.List(context.Background(), tc.filter); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func ptr(s string) *string { return &s }

func ptrBool(b bool) *bool { return &b }
