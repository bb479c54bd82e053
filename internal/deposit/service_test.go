package deposit_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recette/internal/deposit"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    deposit.CreateParams
		setupMock func(m *deposit.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: deposit.CreateParams{Amount: decimal.RequireFromString("500.000"), Note: "  versement  "},
			setupMock: func(m *deposit.MockRepository) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *deposit.Deposit) error {
						assert.Equal(t, "versement", d.Note)
						return nil
					})
			},
		},
		{
			name:    "ZeroAmount",
			params:  deposit.CreateParams{Amount: decimal.Zero},
			wantErr: true,
		},
		{
			name:    "NegativeAmount",
			params:  deposit.CreateParams{Amount: decimal.NewFromInt(-5)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := deposit.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := deposit.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestService_CreateBatch_SkipsNonPositive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := deposit.NewMockRepository(ctrl)
	svc := deposit.NewService(repo)

	repo.EXPECT().
		CreateBatch(gomock.Any(), gomock.Len(1)).
		Return(1, nil)

	n, err := svc.CreateBatch(context.Background(), []deposit.CreateParams{
		{Amount: decimal.RequireFromString("120.500"), Reference: "stmt-1"},
		{Amount: decimal.Zero, Reference: "stmt-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_Total(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := deposit.NewMockRepository(ctrl)
	svc := deposit.NewService(repo)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().Total(gomock.Any(), from, to).Return(decimal.RequireFromString("900.000"), nil)

	total, err := svc.Total(context.Background(), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, "900", total.String())

	_, err = svc.Total(context.Background(), "2026-01", "2026-01-31")
	assert.Error(t, err)
}
