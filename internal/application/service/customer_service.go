package service

import (
	"context"
	"strings"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput represents the create/update customer input
type CustomerInput struct {
	Name      string
	Email     *string
	Phone     *string
	TaxNumber *string
	Address   *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fieldError("name", "name is required")
	}

	customer := &entity.Customer{TenantID: tenantID}
	input.copyTo(customer)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists the tenant's customers
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	customers, total, err := s.customerRepo.List(ctx, tenantID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomer updates an existing customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fieldError("name", "name is required")
	}

	input.copyTo(customer)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer. Quotations keep the customer name they were issued to.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, customer.TenantID, customer.ID)
}

func (in *CustomerInput) copyTo(c *entity.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = in.Email
	c.Phone = in.Phone
	c.TaxNumber = in.TaxNumber
	c.Address = in.Address
}
