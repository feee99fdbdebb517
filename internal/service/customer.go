package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"rental-manager/internal/domain"
	"rental-manager/internal/logger"
)

type customerService struct {
	reg *Registry
}

func NewCustomerService(reg *Registry) CustomerService {
	return &customerService{reg: reg}
}

func (s *customerService) AddCustomer(ctx context.Context, name, phone, email string) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidInputf("customer name is required")
	}

	customer := &domain.Customer{
		ID:    uuid.NewString(),
		Name:  name,
		Phone: strings.TrimSpace(phone),
		Email: strings.TrimSpace(email),
	}
	s.reg.putCustomer(customer)

	if err := s.reg.Persist(ctx); err != nil {
		return nil, err
	}

	logger.Info("Customer added", "customerID", customer.ID)
	out := *customer
	return &out, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.reg.customer(id)
	if err != nil {
		return nil, err
	}
	out := *customer
	return &out, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	s.reg.eachCustomer(func(c *domain.Customer) {
		customers = append(customers, *c)
	})
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].Name < customers[j].Name
	})
	return customers, nil
}
