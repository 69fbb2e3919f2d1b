package service

import (
	"context"
	"errors"

	"github.com/govalues/decimal"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"github.com/runecoins/coinstore/internal/core/utils"
	"go.uber.org/zap"
)

// Pricing carries the commercial parameters in effect at order creation.
// Totals are never recomputed retroactively.
type Pricing struct {
	BuyUnitPrice     decimal.Decimal
	SellUnitPrice    decimal.Decimal
	CardSurchargePct int
	MinQuantity      int
	MaxQuantity      int
	MinChargeCents   int64
}

type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	gateway      port.PaymentGateway
	notifier     port.Notifier
	files        port.FileStore
	metrics      port.Metrics
	pricing      Pricing
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService,
	gateway port.PaymentGateway, notifier port.Notifier, files port.FileStore,
	metrics port.Metrics, pricing Pricing, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		gateway:      gateway,
		notifier:     notifier,
		files:        files,
		metrics:      metrics,
		pricing:      pricing,
		logger:       logger,
	}, nil
}

func (s *Service) RegisterUser(ctx context.Context, req port.RegisterRequest) (*domain.User, string, error) {
	exUser, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return nil, "", domain.ErrInternal
	}
	if exUser != nil {
		return nil, "", domain.ErrConflictingData
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Hash password", zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	user := &domain.User{
		Username: req.Username,
		Password: hashed,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     domain.RoleUser,
	}

	newUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, "", domain.ErrConflictingData
		}
		s.logger.Error("Create user", zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	token, err := s.tokenService.CreateToken(newUser)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return nil, "", domain.ErrTokenCreation
	}

	return newUser, token, nil
}

func (s *Service) LoginUser(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return nil, "", domain.ErrTokenCreation
	}

	return user, token, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	list, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.logger.Error("List users", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// EnsureAdminUser seeds the configured admin account. Role admin is
// never granted through registration.
func (s *Service) EnsureAdminUser(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := s.repo.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrDataNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = s.repo.CreateUser(ctx, &domain.User{
		Username: username,
		Password: hashed,
		Role:     domain.RoleAdmin,
	})
	if err != nil && !errors.Is(err, domain.ErrConflictingData) {
		return err
	}

	s.logger.Info("admin user ensured", zap.String("username", username))
	return nil
}

func (s *Service) ListPackages(ctx context.Context) ([]*domain.CoinPackage, error) {
	return s.repo.ListPackages(ctx, true)
}

func (s *Service) ListServers(ctx context.Context) ([]*domain.Server, error) {
	return s.repo.ListServers(ctx, true)
}
