package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
)

// PaymentMethodService manages stored funding sources.
type PaymentMethodService struct {
	methodRepo repository.PaymentMethodRepository
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(methodRepo repository.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo}
}

// AddMethodRequest contains the parameters for storing a payment method.
type AddMethodRequest struct {
	Kind     string
	Provider string
	Alias    string
	Default  bool
}

// AddMethod stores a new payment method. The first method added becomes
// the default; marking a later method default demotes the previous one.
func (s *PaymentMethodService) AddMethod(ctx context.Context, req AddMethodRequest) (*domain.PaymentMethod, error) {
	kind, ok := domain.ValidateMethodKind(req.Kind)
	if !ok {
		return nil, ErrInvalidPaymentMethod
	}

	isDefault := req.Default
	if !isDefault {
		count, err := s.methodRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		isDefault = count == 0
	}

	method := &domain.PaymentMethod{
		ID:        uuid.New().String(),
		Kind:      kind,
		Provider:  req.Provider,
		Alias:     req.Alias,
		IsDefault: isDefault,
	}

	if err := s.methodRepo.Create(ctx, method); err != nil {
		return nil, err
	}

	return method, nil
}

// ListMethods returns all stored payment methods, default first.
func (s *PaymentMethodService) ListMethods(ctx context.Context) ([]*domain.PaymentMethod, error) {
	return s.methodRepo.GetAll(ctx)
}

// GetMethod retrieves a payment method by ID.
func (s *PaymentMethodService) GetMethod(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	if id == "" {
		return nil, ErrInvalidPaymentMethod
	}

	return s.methodRepo.GetByID(ctx, id)
}
