package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
)

// Client service errors
var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientHasLoans = errors.New("client still has loans")
	ErrNameRequired   = errors.New("client name is required")
)

// ClientService handles client business logic
type ClientService struct {
	clientRepo ClientRepository
	loanRepo   LoanRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo ClientRepository, loanRepo LoanRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		loanRepo:   loanRepo,
	}
}

// CreateClientInput represents create client input
type CreateClientInput struct {
	Name       string
	DPI        string
	ClientCode string
	Phone      string
	Address    string
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, input *CreateClientInput) (*models.Client, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	client := &models.Client{
		ID:      uuid.NewString(),
		Name:    input.Name,
		DPI:     input.DPI,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if input.ClientCode != "" {
		client.ClientCode = &input.ClientCode
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetByID gets a client by ID
func (s *ClientService) GetByID(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// List lists clients with pagination
func (s *ClientService) List(ctx context.Context, offset, limit int) ([]*models.Client, int64, error) {
	return s.clientRepo.List(ctx, offset, limit)
}

// UpdateClientInput represents update client input
type UpdateClientInput struct {
	Name       *string
	DPI        *string
	ClientCode *string
	Phone      *string
	Address    *string
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, id string, input *UpdateClientInput) (*models.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		client.Name = *input.Name
	}
	if input.DPI != nil {
		client.DPI = *input.DPI
	}
	if input.ClientCode != nil {
		client.ClientCode = input.ClientCode
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete deletes a client, refusing while loans still reference it
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	loans, err := s.loanRepo.ListByClient(ctx, id)
	if err != nil {
		return err
	}
	if len(loans) > 0 {
		return ErrClientHasLoans
	}

	return s.clientRepo.Delete(ctx, id)
}
