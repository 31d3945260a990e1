package query

import (
	"context"
	"log"

	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/token"
)

// CustomerDirectory resolves the digits-only phone number that group tokens
// carry.
type CustomerDirectory interface {
	GetByPhone(phone string) (*models.Customer, error)
}

// DemandDepositReader lists a customer's active checking accounts.
type DemandDepositReader interface {
	ListActiveByCustomer(customerID int64) ([]models.DemandDepositAccount, error)
}

// SavingsReader lists a customer's savings accounts, closed ones included.
type SavingsReader interface {
	ListByCustomer(customerID int64) ([]models.SavingsAccount, error)
}

// LoanReader lists a customer's loan accounts.
type LoanReader interface {
	ListByCustomer(customerID int64) ([]models.LoanAccount, error)
}

// InvestmentReader lists a customer's investment accounts.
type InvestmentReader interface {
	ListByCustomer(customerID int64) ([]models.InvestmentAccount, error)
}

// SnapshotCache caches assembled customer snapshots. A nil cache disables
// caching entirely.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*models.CustomerInfoView, bool)
	Set(ctx context.Context, key string, value *models.CustomerInfoView)
	Delete(ctx context.Context, key string)
}

const snapshotKeyPrefix = "customer:snapshot:"

// IntegrationQueryService serves the read side consumed by sibling services
// in the financial group. Every query starts from an opaque customer token;
// the service decodes it to a phone number and aggregates holdings from the
// per-kind stores.
type IntegrationQueryService struct {
	customers   CustomerDirectory
	deposits    DemandDepositReader
	savings     SavingsReader
	loans       LoanReader
	investments InvestmentReader
	cache       SnapshotCache
}

func NewIntegrationQueryService(
	customers CustomerDirectory,
	deposits DemandDepositReader,
	savings SavingsReader,
	loans LoanReader,
	investments InvestmentReader,
	cache SnapshotCache,
) *IntegrationQueryService {
	return &IntegrationQueryService{
		customers:   customers,
		deposits:    deposits,
		savings:     savings,
		loans:       loans,
		investments: investments,
		cache:       cache,
	}
}

// resolveCustomer decodes the token and looks up the owning customer.
func (s *IntegrationQueryService) resolveCustomer(tok string) (*models.Customer, error) {
	phone, err := token.DecodePhone(tok)
	if err != nil {
		return nil, err
	}
	return s.customers.GetByPhone(phone)
}

// CustomerInfo returns the full holdings snapshot for a token. Snapshots are
// cached per phone number; writes invalidate through InvalidateSnapshot.
func (s *IntegrationQueryService) CustomerInfo(ctx context.Context, q cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error) {
	phone, err := token.DecodePhone(q.Token)
	if err != nil {
		return nil, err
	}

	key := snapshotKeyPrefix + phone
	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, key); ok {
			return view, nil
		}
	}

	customer, err := s.customers.GetByPhone(phone)
	if err != nil {
		return nil, err
	}

	deposits, err := s.deposits.ListActiveByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	savings, err := s.savings.ListByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.ListByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	investments, err := s.investments.ListByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}

	view := buildSnapshot(customer, deposits, savings, loans, investments)
	if s.cache != nil {
		s.cache.Set(ctx, key, view)
	}
	return view, nil
}

// ProductStatus counts a customer's holdings per product category.
func (s *IntegrationQueryService) ProductStatus(q cqrs.ProductStatusQuery) (*models.ProductStatusView, error) {
	customer, err := s.resolveCustomer(q.Token)
	if err != nil {
		return nil, err
	}

	deposits, err := s.deposits.ListActiveByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	savings, err := s.savings.ListByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.ListByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	investments, err := s.investments.ListByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}

	view := &models.ProductStatusView{
		DepositCount:    len(deposits),
		LoanCount:       len(loans),
		InvestmentCount: len(investments),
	}
	for _, a := range savings {
		if a.IsActive {
			view.SavingsCount++
		}
	}
	view.TotalProducts = view.DepositCount + view.SavingsCount + view.LoanCount + view.InvestmentCount
	return view, nil
}

// AccountBalance aggregates the customer's active demand-deposit balances.
func (s *IntegrationQueryService) AccountBalance(q cqrs.AccountBalanceQuery) (*models.AccountBalanceView, error) {
	customer, err := s.resolveCustomer(q.Token)
	if err != nil {
		return nil, err
	}

	deposits, err := s.deposits.ListActiveByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}

	view := &models.AccountBalanceView{AccountCount: len(deposits)}
	for _, a := range deposits {
		view.TotalBalance += a.Balance
	}
	return view, nil
}

// DepositAccounts lists the customer's active demand-deposit accounts.
func (s *IntegrationQueryService) DepositAccounts(q cqrs.DepositAccountsQuery) ([]models.DemandDepositAccount, error) {
	customer, err := s.resolveCustomer(q.Token)
	if err != nil {
		return nil, err
	}
	return s.deposits.ListActiveByCustomer(customer.ID)
}

// HasProduct reports whether the token's customer holds an active savings
// account on the given product. The check fails closed: a malformed token, an
// unknown customer or a store failure all resolve to false, never to an
// error. Callers use the answer for eligibility gating, so a wrong "false" is
// recoverable while a wrong "true" is not.
func (s *IntegrationQueryService) HasProduct(q cqrs.ProductOwnershipQuery) bool {
	if q.ProductID <= 0 {
		return false
	}
	customer, err := s.resolveCustomer(q.Token)
	if err != nil {
		log.Printf("Product ownership check resolved to false: %v", err)
		return false
	}
	savings, err := s.savings.ListByCustomer(customer.ID)
	if err != nil {
		log.Printf("Product ownership check resolved to false: %v", err)
		return false
	}
	for _, a := range savings {
		if a.ProductID == q.ProductID && a.IsActive && a.Status == models.StatusActive {
			return true
		}
	}
	return false
}

// InvalidateSnapshot drops the cached snapshot for a phone number. The event
// subscriber calls this when savings or transaction events arrive.
func (s *IntegrationQueryService) InvalidateSnapshot(ctx context.Context, phone string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, snapshotKeyPrefix+token.NormalizePhone(phone))
}
