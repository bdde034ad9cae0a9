package service

import (
	"errors"
	"testing"
	"time"

	"carshare/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestChargeAmountCents(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		rentalDate    time.Time
		returnDate    time.Time
		dailyFeeCents int64
		want          int64
	}{
		{
			name:          "five planned days",
			rentalDate:    day(2025, time.January, 20),
			returnDate:    day(2025, time.January, 25),
			dailyFeeCents: 100,
			want:          500,
		},
		{
			name:          "single day",
			rentalDate:    day(2025, time.June, 1),
			returnDate:    day(2025, time.June, 2),
			dailyFeeCents: 2500,
			want:          2500,
		},
		{
			// A same-calendar-day rental bills as one day.
			name:          "same day with later return time",
			rentalDate:    time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
			returnDate:    time.Date(2025, time.June, 1, 17, 0, 0, 0, time.UTC),
			dailyFeeCents: 2500,
			want:          2500,
		},
		{
			// Day-of-year subtraction would yield a negative count here.
			name:          "spans year boundary",
			rentalDate:    day(2025, time.December, 30),
			returnDate:    day(2026, time.January, 2),
			dailyFeeCents: 100,
			want:          300,
		},
		{
			// Feb 28 to Mar 1 in a leap year is 2 elapsed days.
			name:          "spans leap day",
			rentalDate:    day(2024, time.February, 28),
			returnDate:    day(2024, time.March, 1),
			dailyFeeCents: 100,
			want:          200,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rental := &domain.Rental{RentalDate: tc.rentalDate, ReturnDate: tc.returnDate}
			if got := ChargeAmountCents(rental, tc.dailyFeeCents); got != tc.want {
				t.Errorf("ChargeAmountCents = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFineAmountCents(t *testing.T) {
	t.Parallel()

	returned := day(2025, time.January, 27)
	rental := &domain.Rental{
		RentalDate:       day(2025, time.January, 20),
		ReturnDate:       day(2025, time.January, 25),
		ActualReturnDate: &returned,
	}

	got, err := FineAmountCents(rental, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 overdue days * 100 * 1.5.
	if got != 300 {
		t.Errorf("FineAmountCents = %d, want 300", got)
	}
}

func TestFineAmountCents_YearBoundary(t *testing.T) {
	t.Parallel()

	returned := day(2026, time.January, 3)
	rental := &domain.Rental{
		RentalDate:       day(2025, time.December, 20),
		ReturnDate:       day(2025, time.December, 31),
		ActualReturnDate: &returned,
	}

	got, err := FineAmountCents(rental, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 overdue days * 1000 * 1.5.
	if got != 4500 {
		t.Errorf("FineAmountCents = %d, want 4500", got)
	}
}

func TestFineAmountCents_OpenRental(t *testing.T) {
	t.Parallel()

	rental := &domain.Rental{
		RentalDate: day(2025, time.January, 20),
		ReturnDate: day(2025, time.January, 25),
	}

	_, err := FineAmountCents(rental, 100)
	if !errors.Is(err, ErrRentalNotCompleted) {
		t.Fatalf("expected ErrRentalNotCompleted, got %v", err)
	}
}

func TestFineAmountCents_NotOverdue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		returned time.Time
	}{
		{"returned early", day(2025, time.January, 23)},
		{"returned on the due day", day(2025, time.January, 25)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			returned := tc.returned
			rental := &domain.Rental{
				RentalDate:       day(2025, time.January, 20),
				ReturnDate:       day(2025, time.January, 25),
				ActualReturnDate: &returned,
			}
			if _, err := FineAmountCents(rental, 100); !errors.Is(err, ErrRentalNotOverdue) {
				t.Fatalf("expected ErrRentalNotOverdue, got %v", err)
			}
		})
	}
}
