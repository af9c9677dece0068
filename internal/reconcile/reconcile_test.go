package reconcile

import (
	"errors"
	"testing"
)

func TestNewDerivesShort(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		received  int
		wantShort int
		wantErr   error
	}{
		{"partial", 100, 90, 10, nil},
		{"full", 20, 20, 0, nil},
		{"nothing received", 5, 0, 5, nil},
		{"zero total", 0, 0, 0, ErrNonPositiveQuantity},
		{"negative received", 10, -1, 0, ErrNegativeQuantity},
		{"over received", 10, 11, 0, ErrReceivedExceedsTotal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New(tt.total, tt.received)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if q.Short != tt.wantShort {
				t.Errorf("short = %d, want %d", q.Short, tt.wantShort)
			}
			if q.Received+q.Short != q.Total {
				t.Errorf("received + short = %d, want %d", q.Received+q.Short, q.Total)
			}
		})
	}
}

func TestMoveScenario(t *testing.T) {
	q, err := New(100, 90)
	if err != nil {
		t.Fatal(err)
	}

	q, err = q.MoveReceivedToRejected(5)
	if err != nil {
		t.Fatalf("MoveReceivedToRejected: %v", err)
	}
	if q.Received != 85 || q.Rejected != 5 || q.Short != 10 {
		t.Fatalf("after received move got %+v", q)
	}

	q, err = q.MoveShortToRejected(3)
	if err != nil {
		t.Fatalf("MoveShortToRejected: %v", err)
	}
	if q.Short != 7 || q.Rejected != 8 || q.Received != 85 {
		t.Fatalf("after short move got %+v", q)
	}
	if err := q.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestMoveRejectsOversizedQuantity(t *testing.T) {
	q := Quantities{Total: 100, Received: 85, Short: 10, Rejected: 5}

	got, err := q.MoveReceivedToRejected(999)
	var insufficient *InsufficientError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientError", err)
	}
	if insufficient.Available != 85 || insufficient.Source != "received" {
		t.Errorf("unexpected error detail %+v", insufficient)
	}
	if got != q {
		t.Errorf("quantities changed on failure: %+v", got)
	}

	if _, err := q.MoveShortToRejected(11); !errors.As(err, &insufficient) {
		t.Errorf("short move err = %v, want InsufficientError", err)
	}
	if _, err := q.MoveShortToRejected(0); !errors.Is(err, ErrNonPositiveQuantity) {
		t.Errorf("zero move err = %v", err)
	}
}

func TestSettleShort(t *testing.T) {
	q := Quantities{Total: 10, Received: 6, Short: 4}

	got, err := q.SettleShort(1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Short != 1 || got.Received != 6 {
		t.Errorf("got %+v", got)
	}
	if _, err := q.SettleShort(5); err == nil {
		t.Error("raising short should fail")
	}
	if _, err := q.SettleShort(-1); !errors.Is(err, ErrNegativeQuantity) {
		t.Errorf("err = %v", err)
	}
}

func TestAdjust(t *testing.T) {
	q := Quantities{Total: 10, Received: 6, Short: 4}
	intp := func(v int) *int { return &v }

	got, err := q.Adjust(intp(2), intp(2))
	if err != nil {
		t.Fatal(err)
	}
	if got.Short != 2 || got.Rejected != 2 || got.Received != 6 {
		t.Errorf("got %+v", got)
	}

	if _, err := q.Adjust(nil, intp(1)); !errors.Is(err, ErrExceedsTotal) {
		t.Errorf("err = %v, want ErrExceedsTotal", err)
	}
	if _, err := q.Adjust(intp(-1), nil); !errors.Is(err, ErrNegativeQuantity) {
		t.Errorf("err = %v, want ErrNegativeQuantity", err)
	}
}
