package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"github.com/runecoins/coinstore/internal/core/port/mock"
	"github.com/runecoins/coinstore/internal/core/service"
	"github.com/runecoins/coinstore/internal/core/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mocks struct {
	repo     *mock.MockRepository
	token    *mock.MockTokenService
	gateway  *mock.MockPaymentGateway
	notifier *mock.MockNotifier
	files    *mock.MockFileStore
	metrics  *mock.MockMetrics
}

func newTestService(t *testing.T, ctrl *gomock.Controller, pricing service.Pricing) (*service.Service, *mocks) {
	t.Helper()

	m := &mocks{
		repo:     mock.NewMockRepository(ctrl),
		token:    mock.NewMockTokenService(ctrl),
		gateway:  mock.NewMockPaymentGateway(ctrl),
		notifier: mock.NewMockNotifier(ctrl),
		files:    mock.NewMockFileStore(ctrl),
		metrics:  mock.NewMockMetrics(ctrl),
	}

	logger, _ := zap.NewProduction()

	svc, err := service.NewService(m.repo, m.token, m.gateway, m.notifier,
		m.files, m.metrics, pricing, logger)
	require.NoError(t, err)

	return svc, m
}

func testPricing() service.Pricing {
	return service.Pricing{
		BuyUnitPrice:     decimal.MustParse("0.0799"),
		SellUnitPrice:    decimal.MustParse("0.0649"),
		CardSurchargePct: 5,
		MinQuantity:      25,
		MaxQuantity:      100000,
		MinChargeCents:   100,
	}
}

func TestService_RegisterUser(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	user := domain.User{
		ID:       "u1",
		Username: "alice",
		Role:     domain.RoleUser,
	}

	tests := []struct {
		name     string
		req      port.RegisterRequest
		mock     func(m *mocks)
		expError error
	}{
		{
			name: "register good",
			req:  port.RegisterRequest{Username: "alice", Password: "secret1"},
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(nil, domain.ErrDataNotFound)
				m.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(&user, nil)
				m.token.EXPECT().CreateToken(&user).Return("token", nil)
			},
		},
		{
			name: "register already exists",
			req:  port.RegisterRequest{Username: "alice", Password: "secret1"},
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(&user, nil)
			},
			expError: domain.ErrConflictingData,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, m := newTestService(t, mockCtrl, testPricing())
			test.mock(m)

			newUser, token, err := svc.RegisterUser(context.Background(), test.req)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &user, newUser)
			assert.Equal(t, "token", token)
		})
	}
}

func TestService_LoginUser(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	hashed, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	user := domain.User{
		ID:       "u1",
		Username: "alice",
		Password: hashed,
		Role:     domain.RoleUser,
	}

	tests := []struct {
		name     string
		password string
		mock     func(m *mocks)
		expError error
	}{
		{
			name:     "login good",
			password: "secret1",
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(&user, nil)
				m.token.EXPECT().CreateToken(&user).Return("token", nil)
			},
		},
		{
			name:     "wrong password",
			password: "nope",
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(&user, nil)
			},
			expError: domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			password: "secret1",
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrInvalidCredentials,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, m := newTestService(t, mockCtrl, testPricing())
			test.mock(m)

			loggedIn, token, err := svc.LoginUser(context.Background(), "alice", test.password)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &user, loggedIn)
			assert.Equal(t, "token", token)
		})
	}
}

func TestService_EnsureAdminUser(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("creates missing admin", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().GetUserByUsername(gomock.Any(), "admin").Return(nil, domain.ErrDataNotFound)
		m.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Equal(t, domain.RoleAdmin, user.Role)
				assert.NoError(t, utils.ComparePassword("changeme", user.Password))
				return user, nil
			})

		err := svc.EnsureAdminUser(context.Background(), "admin", "changeme")
		assert.NoError(t, err)
	})

	t.Run("existing admin untouched", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().GetUserByUsername(gomock.Any(), "admin").
			Return(&domain.User{Username: "admin", Role: domain.RoleAdmin}, nil)

		err := svc.EnsureAdminUser(context.Background(), "admin", "changeme")
		assert.NoError(t, err)
	})

	t.Run("unset credentials are a no-op", func(t *testing.T) {
		svc, _ := newTestService(t, mockCtrl, testPricing())

		err := svc.EnsureAdminUser(context.Background(), "", "")
		assert.NoError(t, err)
	})
}
