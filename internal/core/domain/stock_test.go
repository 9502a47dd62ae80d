package domain

import (
	"errors"
	"testing"
)

func TestParseStockOp(t *testing.T) {
	tests := map[string]StockOp{
		"increment": StockIncrement,
		"entrada":   StockIncrement,
		"DECREMENT": StockDecrement,
		" salida ":  StockDecrement,
		"set":       StockSet,
		"ajuste":    StockSet,
	}
	for in, want := range tests {
		got, err := ParseStockOp(in)
		if err != nil || got != want {
			t.Fatalf("ParseStockOp(%q) = %q, %v, want %q", in, got, err, want)
		}
	}

	if _, err := ParseStockOp("robo"); err == nil {
		t.Fatal("ParseStockOp(robo) error = nil")
	}
}

func TestApplyStockOp(t *testing.T) {
	tests := []struct {
		name    string
		current int
		op      StockOp
		qty     int
		want    int
		wantErr error
	}{
		{"increment", 5, StockIncrement, 3, 8, nil},
		{"decrement", 5, StockDecrement, 5, 0, nil},
		{"decrement below zero", 5, StockDecrement, 6, 5, ErrInsufficientStock},
		{"set", 5, StockSet, 42, 42, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyStockOp(tt.current, tt.op, tt.qty)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ApplyStockOp() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ApplyStockOp() = %d, want %d", got, tt.want)
			}
		})
	}

	var verr *ValidationError
	if _, err := ApplyStockOp(1, StockIncrement, -1); !errors.As(err, &verr) {
		t.Fatalf("negative quantity error = %v, want ValidationError", err)
	}
}

func TestStockStatus(t *testing.T) {
	minimum := 10
	tests := []struct {
		qty     int
		minimum *int
		want    string
	}{
		{3, nil, StockNoMinimum},
		{10, &minimum, StockCritical},
		{4, &minimum, StockCritical},
		{15, &minimum, StockLow},
		{16, &minimum, StockNormal},
	}
	for _, tt := range tests {
		if got := StockStatus(tt.qty, tt.minimum); got != tt.want {
			t.Fatalf("StockStatus(%d) = %q, want %q", tt.qty, got, tt.want)
		}
	}
}
