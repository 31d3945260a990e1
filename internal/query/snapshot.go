package query

import (
	"time"

	"github.com/kopofin/hanabank/internal/models"
)

// buildSnapshot normalizes a customer's holdings into the integration view.
// Pure function over already-loaded rows; safe to call concurrently.
func buildSnapshot(
	customer *models.Customer,
	deposits []models.DemandDepositAccount,
	savings []models.SavingsAccount,
	loans []models.LoanAccount,
	investments []models.InvestmentAccount,
) *models.CustomerInfoView {
	return &models.CustomerInfoView{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		PhoneNumber:   customer.PhoneNumber,
		Email:         customer.Email,
		CustomerGrade: customer.CustomerGrade,
		Status:        models.StatusActive,
		Accounts:      buildAccountInfos(deposits, savings),
		Products:      buildProductInfos(savings, loans, investments),
		TotalBalance:  totalBalance(savings, loans, investments),
		ResponseTime:  time.Now().UTC(),
	}
}

// buildAccountInfos merges demand-deposit accounts (active only, the caller
// filters) and all savings accounts into the common account shape.
func buildAccountInfos(deposits []models.DemandDepositAccount, savings []models.SavingsAccount) []models.AccountInfo {
	accounts := make([]models.AccountInfo, 0, len(deposits)+len(savings))
	for _, a := range deposits {
		accounts = append(accounts, models.AccountInfo{
			AccountNumber: a.AccountNumber,
			AccountType:   models.AccountTypeDemandDeposit,
			AccountName:   a.AccountName,
			Balance:       a.Balance,
			OpenDate:      a.OpenDate,
			Status:        a.Status,
		})
	}
	for _, a := range savings {
		accounts = append(accounts, models.AccountInfo{
			AccountNumber: a.AccountNumber,
			AccountType:   models.AccountTypeSavings,
			AccountName:   a.ProductName,
			Balance:       a.Balance,
			OpenDate:      a.CreatedAt,
			Status:        a.Status,
		})
	}
	return accounts
}

// buildProductInfos normalizes savings, loan and investment holdings into the
// common product shape.
func buildProductInfos(savings []models.SavingsAccount, loans []models.LoanAccount, investments []models.InvestmentAccount) []models.ProductInfo {
	products := make([]models.ProductInfo, 0, len(savings)+len(loans)+len(investments))
	for _, a := range savings {
		a := a
		start, maturity := a.StartDate, a.MaturityDate
		products = append(products, models.ProductInfo{
			ProductID:        a.ProductID,
			ProductName:      a.ProductName,
			ProductType:      models.AccountTypeSavings,
			ProductCode:      a.AccountNumber,
			Amount:           a.Balance,
			InterestRate:     &a.FinalRate,
			BaseRate:         &a.BaseRate,
			PreferentialRate: &a.PreferentialRate,
			StartDate:        &start,
			MaturityDate:     &maturity,
			SubscriptionDate: a.CreatedAt,
			Status:           a.Status,
		})
	}
	for _, l := range loans {
		l := l
		start, maturity := l.StartDate, l.MaturityDate
		products = append(products, models.ProductInfo{
			ProductName:      l.ProductName,
			ProductType:      models.AccountTypeLoan,
			ProductCode:      l.AccountNumber,
			Amount:           l.LoanAmount,
			RemainingAmount:  l.RemainingAmount,
			InterestRate:     &l.InterestRate,
			MonthlyPayment:   l.MonthlyPayment,
			StartDate:        &start,
			MaturityDate:     &maturity,
			SubscriptionDate: l.CreatedAt,
			Status:           l.Status,
		})
	}
	for _, i := range investments {
		products = append(products, models.ProductInfo{
			ProductName:      i.ProductName,
			ProductType:      models.AccountTypeInvestment,
			ProductCode:      i.AccountNumber,
			Amount:           i.CurrentValue,
			SubscriptionDate: i.CreatedAt,
			Status:           i.Status,
		})
	}
	return products
}

// totalBalance is the net-worth style aggregate: active savings balances plus
// investment current values minus outstanding loan principal. It is signed
// and is not a cash balance.
func totalBalance(savings []models.SavingsAccount, loans []models.LoanAccount, investments []models.InvestmentAccount) int64 {
	var total int64
	for _, a := range savings {
		if a.IsActive {
			total += a.Balance
		}
	}
	for _, i := range investments {
		total += i.CurrentValue
	}
	for _, l := range loans {
		total -= l.LoanAmount
	}
	return total
}
