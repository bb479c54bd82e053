package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recette/internal/payroll"
)

// fakeRepo keeps rows in memory with the same (kind, employee, date) uniqueness
// the tables enforce.
type fakeRepo struct {
	rows map[string]*payroll.Adjustment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*payroll.Adjustment)}
}

func rowKey(a *payroll.Adjustment) string {
	return string(a.Kind) + "|" + a.Employee + "|" + a.Date.Format(time.DateOnly)
}

func (f *fakeRepo) Upsert(_ context.Context, a *payroll.Adjustment) error {
	if existing, ok := f.rows[rowKey(a)]; ok {
		existing.Amount = a.Amount
		a.ID = existing.ID

		return nil
	}

	a.ID = uuid.New()
	stored := *a
	f.rows[rowKey(a)] = &stored

	return nil
}

func (f *fakeRepo) byID(kind payroll.Kind, id uuid.UUID) (string, bool) {
	for key, a := range f.rows {
		if a.Kind == kind && a.ID == id {
			return key, true
		}
	}

	return "", false
}

func (f *fakeRepo) Update(_ context.Context, a *payroll.Adjustment) error {
	old, ok := f.byID(a.Kind, a.ID)
	if !ok {
		return payroll.ErrNotFound
	}

	if other, taken := f.rows[rowKey(a)]; taken && other.ID != a.ID {
		return payroll.ErrConflict
	}

	delete(f.rows, old)

	stored := *a
	f.rows[rowKey(a)] = &stored

	return nil
}

func (f *fakeRepo) Delete(_ context.Context, kind payroll.Kind, id uuid.UUID) error {
	key, ok := f.byID(kind, id)
	if !ok {
		return payroll.ErrNotFound
	}

	delete(f.rows, key)

	return nil
}

func (f *fakeRepo) List(_ context.Context, kind payroll.Kind, _ payroll.ListFilter) ([]*payroll.Adjustment, error) {
	var out []*payroll.Adjustment

	for _, a := range f.rows {
		if a.Kind == kind {
			out = append(out, a)
		}
	}

	return out, nil
}

func TestService_Upsert_OverwritesSameEmployeeAndDate(t *testing.T) {
	repo := newFakeRepo()
	svc := payroll.NewService(repo)
	ctx := context.Background()
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	first, err := svc.Upsert(ctx, payroll.UpsertParams{
		Kind: payroll.KindAdvance, Employee: "Sami", Amount: decimal.RequireFromString("30.000"), Date: date,
	})
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, payroll.UpsertParams{
		Kind: payroll.KindAdvance, Employee: " Sami ", Amount: decimal.RequireFromString("45.000"), Date: date,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	rows, err := svc.ListBetween(ctx, payroll.KindAdvance, "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sami", rows[0].Employee)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("45.000")))
}

func TestService_Update_SameEmployeeAndDateConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := payroll.NewService(repo)
	ctx := context.Background()
	jan15 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	jan16 := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)

	_, err := svc.Upsert(ctx, payroll.UpsertParams{
		Kind: payroll.KindExtra, Employee: "Sami", Amount: decimal.NewFromInt(10), Date: jan15,
	})
	require.NoError(t, err)

	moved, err := svc.Upsert(ctx, payroll.UpsertParams{
		Kind: payroll.KindExtra, Employee: "Sami", Amount: decimal.NewFromInt(12), Date: jan16,
	})
	require.NoError(t, err)

	moved.Date = jan15
	err = svc.Update(ctx, moved)
	require.ErrorIs(t, err, payroll.ErrConflict)

	rows, err := svc.ListBetween(ctx, payroll.KindExtra, "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestService_Delete_Missing(t *testing.T) {
	svc := payroll.NewService(newFakeRepo())

	err := svc.Delete(context.Background(), payroll.KindBonus, uuid.New())
	assert.ErrorIs(t, err, payroll.ErrNotFound)
}

func TestService_UpdateAndDelete(t *testing.T) {
	type testCase struct {
		name      string
		run       func(svc *payroll.Service) error
		setupMock func(m *payroll.MockRepository)
		wantErr   error
	}

	id := uuid.New()
	adj := &payroll.Adjustment{ID: id, Kind: payroll.KindAdvance, Employee: " Sami ", Date: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)}

	tests := []testCase{
		{
			name: "UpdateCleansEmployee",
			run:  func(svc *payroll.Service) error { return svc.Update(context.Background(), adj) },
			setupMock: func(m *payroll.MockRepository) {
				m.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *payroll.Adjustment) error {
						assert.Equal(t, "Sami", a.Employee)
						return nil
					})
			},
		},
		{
			name: "UpdateConflict",
			run:  func(svc *payroll.Service) error { return svc.Update(context.Background(), adj) },
			setupMock: func(m *payroll.MockRepository) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(payroll.ErrConflict)
			},
			wantErr: payroll.ErrConflict,
		},
		{
			name: "UpdateNotFound",
			run:  func(svc *payroll.Service) error { return svc.Update(context.Background(), adj) },
			setupMock: func(m *payroll.MockRepository) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(payroll.ErrNotFound)
			},
			wantErr: payroll.ErrNotFound,
		},
		{
			name: "DeleteNotFound",
			run:  func(svc *payroll.Service) error { return svc.Delete(context.Background(), payroll.KindAdvance, id) },
			setupMock: func(m *payroll.MockRepository) {
				m.EXPECT().Delete(gomock.Any(), payroll.KindAdvance, id).Return(payroll.ErrNotFound)
			},
			wantErr: payroll.ErrNotFound,
		},
		{
			name:    "DeleteUnknownKind",
			run:     func(svc *payroll.Service) error { return svc.Delete(context.Background(), "tip", id) },
			wantErr: payroll.ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := payroll.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := tt.run(payroll.NewService(repo))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Upsert(t *testing.T) {
	type testCase struct {
		name      string
		params    payroll.UpsertParams
		setupMock func(m *payroll.MockRepository)
		wantErr   error
	}

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name: "Success",
			params: payroll.UpsertParams{
				Kind: payroll.KindBonus, Employee: "Karim  Ben Ali", Amount: decimal.NewFromInt(20), Date: date,
			},
			setupMock: func(m *payroll.MockRepository) {
				m.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *payroll.Adjustment) error {
						assert.Equal(t, "Karim Ben Ali", a.Employee)
						a.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "UnknownKind",
			params:  payroll.UpsertParams{Kind: "tip", Employee: "Karim", Date: date},
			wantErr: payroll.ErrUnknownKind,
		},
		{
			name:   "RepoError",
			params: payroll.UpsertParams{Kind: payroll.KindExtra, Employee: "Karim", Date: date},
			setupMock: func(m *payroll.MockRepository) {
				m.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := payroll.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := payroll.NewService(repo).Upsert(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_ListBetween(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payroll.NewMockRepository(ctrl)
	svc := payroll.NewService(repo)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		List(gomock.Any(), payroll.KindDoubling, payroll.ListFilter{StartDate: &from, EndDate: &to}).
		Return([]*payroll.Adjustment{{ID: uuid.New()}}, nil)

	got, err := svc.ListBetween(context.Background(), payroll.KindDoubling, "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListBetween(context.Background(), payroll.KindDoubling, "01-2026", "2026-01-31")
	assert.Error(t, err)
}
