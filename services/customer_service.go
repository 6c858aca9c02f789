package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pillflow-backend/events"
	"pillflow-backend/models"
	"pillflow-backend/store"
	"pillflow-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerService struct {
	*deps
}

// CustomerInput carries the editable customer fields. CustomerID may be
// blank on create, in which case one is generated.
type CustomerInput struct {
	CustomerID  string                `json:"customerId"`
	FirstName   string                `json:"firstName" binding:"required"`
	LastName    string                `json:"lastName" binding:"required"`
	DateOfBirth string                `json:"dateOfBirth" binding:"required"`
	Email       string                `json:"email" binding:"required"`
	Phone       *string               `json:"phone"`
	Address     *string               `json:"address"`
	Company     *string               `json:"company"`
	Notes       *string               `json:"notes"`
	Status      models.CustomerStatus `json:"status" binding:"required"`
}

func (in *CustomerInput) validate() error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return invalid("firstName is required")
	case strings.TrimSpace(in.LastName) == "":
		return invalid("lastName is required")
	case in.DateOfBirth == "":
		return invalid("dateOfBirth is required")
	case in.Email == "":
		return invalid("email is required")
	case !in.Status.Valid():
		return invalid("unknown status %q", in.Status)
	}
	return nil
}

// CustomerQuery filters List. Status "all" or "" disables the status filter.
type CustomerQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

func (q CustomerQuery) matches(c *models.Customer) bool {
	if q.Status != "" && q.Status != "all" && string(c.Status) != q.Status {
		return false
	}
	if q.Search == "" {
		return true
	}
	if utils.ContainsFold(c.FirstName, q.Search) ||
		utils.ContainsFold(c.LastName, q.Search) ||
		utils.ContainsFold(c.FullName(), q.Search) ||
		utils.ContainsFold(c.Email, q.Search) ||
		utils.ContainsFold(c.CustomerID, q.Search) {
		return true
	}
	if c.Company != nil && utils.ContainsFold(*c.Company, q.Search) {
		return true
	}
	// phone numbers are matched verbatim
	return c.Phone != nil && strings.Contains(*c.Phone, q.Search)
}

func (s *CustomerService) List(ctx context.Context, q CustomerQuery) ([]models.Customer, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.store.ListCustomersByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]models.Customer, 0, len(customers))
	for i := range customers {
		if q.matches(&customers[i]) {
			out = append(out, customers[i])
		}
	}
	return out, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.ownedCustomer(ctx, userID, id)
}

// codeTaken reports whether code collides for caller. self is the record
// being updated, uuid.Nil on create.
//
// Legacy rules: on create only the first record using the code is
// inspected and it collides only if the caller owns it; on update any
// other record using the code collides, whoever owns it.
func (s *CustomerService) codeTaken(ctx context.Context, userID, self uuid.UUID, code string) (bool, error) {
	existing, err := s.store.ListCustomersByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("look up customer ID: %w", err)
	}
	if s.opts.StrictCustomerIDScope {
		for _, c := range existing {
			if c.OwnerUserID == userID && c.ID != self {
				return true, nil
			}
		}
		return false, nil
	}
	if len(existing) == 0 {
		return false, nil
	}
	first := existing[0]
	if self == uuid.Nil {
		return first.OwnerUserID == userID, nil
	}
	return first.ID != self, nil
}

func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (uuid.UUID, error) {
	userID, err := caller(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if err := input.validate(); err != nil {
		return uuid.Nil, err
	}

	now := s.now()
	code := input.CustomerID
	if strings.TrimSpace(code) == "" {
		code = utils.GenerateCustomerID(now)
	}
	taken, err := s.codeTaken(ctx, userID, uuid.Nil, code)
	if err != nil {
		return uuid.Nil, err
	}
	if taken {
		return uuid.Nil, fmt.Errorf("%s: %w", code, ErrDuplicateCustomerID)
	}

	customer := &models.Customer{
		ID:          uuid.New(),
		OwnerUserID: userID,
		CustomerID:  code,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DateOfBirth: input.DateOfBirth,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Company:     input.Company,
		Notes:       input.Notes,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return uuid.Nil, fmt.Errorf("create customer: %w", err)
	}

	s.log.Info("customer created", zap.String("id", customer.ID.String()), zap.String("customer_id", code))
	s.publish(ctx, events.Customers, events.OpCreate, customer.ID, userID)
	return customer.ID, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input CustomerInput) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	customer, err := s.ownedCustomer(ctx, userID, id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(input.CustomerID) == "" {
		return invalid("customerId is required")
	}
	if err := input.validate(); err != nil {
		return err
	}

	if input.CustomerID != customer.CustomerID {
		taken, err := s.codeTaken(ctx, userID, id, input.CustomerID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%s: %w", input.CustomerID, ErrDuplicateCustomerID)
		}
	}

	customer.CustomerID = input.CustomerID
	customer.FirstName = input.FirstName
	customer.LastName = input.LastName
	customer.DateOfBirth = input.DateOfBirth
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.Company = input.Company
	customer.Notes = input.Notes
	customer.Status = input.Status
	customer.UpdatedAt = s.now()

	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	s.publish(ctx, events.Customers, events.OpUpdate, id, userID)
	return nil
}

// Delete removes the customer. Dependent records stay behind unless
// CascadeCustomerDelete is set.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	if _, err := s.ownedCustomer(ctx, userID, id); err != nil {
		return err
	}

	if s.opts.CascadeCustomerDelete {
		err = s.store.DeleteCustomerCascade(ctx, id)
	} else {
		err = s.store.DeleteCustomer(ctx, id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return notOwned("customer")
	}
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	s.log.Info("customer deleted", zap.String("id", id.String()), zap.Bool("cascade", s.opts.CascadeCustomerDelete))
	s.publish(ctx, events.Customers, events.OpDelete, id, userID)
	return nil
}
