package models

import (
	"errors"
	"testing"
)

func TestSavingsAccountWithdraw(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		amount      int64
		wantErr     error
		wantBalance int64
	}{
		{name: "success", balance: 1000, amount: 400, wantBalance: 600},
		{name: "exact balance", balance: 1000, amount: 1000, wantBalance: 0},
		{name: "insufficient funds", balance: 500000, amount: 1000000, wantErr: ErrInsufficientFunds, wantBalance: 500000},
		{name: "zero amount", balance: 1000, amount: 0, wantErr: ErrInvalidAmount, wantBalance: 1000},
		{name: "negative amount", balance: 1000, amount: -5, wantErr: ErrInvalidAmount, wantBalance: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &SavingsAccount{Balance: tt.balance}
			err := a.Withdraw(tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if a.Balance != tt.wantBalance {
				t.Errorf("expected balance %d, got %d", tt.wantBalance, a.Balance)
			}
		})
	}
}

func TestSavingsAccountDeposit(t *testing.T) {
	a := &SavingsAccount{}
	if err := a.Deposit(1000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Balance != 1000000 {
		t.Errorf("expected balance 1000000, got %d", a.Balance)
	}
	if err := a.Deposit(0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSavingsAccountClose(t *testing.T) {
	a := &SavingsAccount{Balance: 100, Status: StatusActive, IsActive: true}
	if err := a.Close(); !errors.Is(err, ErrNonZeroBalanceClose) {
		t.Fatalf("expected ErrNonZeroBalanceClose, got %v", err)
	}
	if a.Status != StatusActive {
		t.Errorf("status changed on failed close: %s", a.Status)
	}

	a.Balance = 0
	if err := a.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusClosed || a.IsActive {
		t.Errorf("expected closed inactive account, got status=%s active=%v", a.Status, a.IsActive)
	}
}

func TestDemandDepositWithdraw(t *testing.T) {
	a := &DemandDepositAccount{Balance: 2000000}
	if err := a.Withdraw(1000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Balance != 1000000 {
		t.Errorf("expected balance 1000000, got %d", a.Balance)
	}
	if err := a.Withdraw(1000001); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if a.Balance != 1000000 {
		t.Errorf("balance changed on failed withdrawal: %d", a.Balance)
	}
}
