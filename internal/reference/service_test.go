package reference_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recette/internal/reference"
)

// memRepo mimics the case-insensitive unique index of the reference tables.
type memRepo struct {
	entries map[string]*reference.Entry
}

func (m *memRepo) Add(_ context.Context, kind reference.Kind, name string) (*reference.Entry, error) {
	key := string(kind) + "|" + strings.ToLower(name)
	if e, ok := m.entries[key]; ok {
		return e, nil
	}

	e := &reference.Entry{ID: uuid.New(), Kind: kind, Name: name}
	m.entries[key] = e

	return e, nil
}

func (m *memRepo) Rename(context.Context, reference.Kind, uuid.UUID, string) error { return nil }
func (m *memRepo) Delete(context.Context, reference.Kind, uuid.UUID) error { return nil }
func (m *memRepo) List(context.Context, reference.Kind) ([]*reference.Entry, error) {
	return nil, nil
}

func TestService_Add_CaseInsensitive(t *testing.T) {
	svc := reference.NewService(&memRepo{entries: make(map[string]*reference.Entry)})
	ctx := context.Background()

	first, err := svc.Add(ctx, reference.KindSupplier, "Sonede")
	require.NoError(t, err)

	second, err := svc.Add(ctx, reference.KindSupplier, "  SONEDE ")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Sonede", second.Name)

	other, err := svc.Add(ctx, reference.KindDesignation, "sonede")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestService_Validation(t *testing.T) {
	type testCase struct {
		name    string
		kind    reference.Kind
		value   string
		wantErr error
	}

	tests := []testCase{
		{name: "UnknownKind", kind: "client", value: "Ali", wantErr: reference.ErrUnknownKind},
		{name: "BlankName", kind: reference.KindEmployee, value: "   ", wantErr: reference.ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := reference.NewService(reference.NewMockRepository(ctrl))

			_, err := svc.Add(context.Background(), tt.kind, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)

			err = svc.Rename(context.Background(), tt.kind, uuid.New(), tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Ensure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reference.NewMockRepository(ctrl)
	svc := reference.NewService(repo)

	repo.EXPECT().Add(gomock.Any(), reference.KindSupplier, "Steg").Return(&reference.Entry{}, nil)
	repo.EXPECT().Add(gomock.Any(), reference.KindSupplier, "Sonede").Return(&reference.Entry{}, nil)

	err := svc.Ensure(context.Background(), reference.KindSupplier, "Steg", "", "STEG", "Sonede")
	require.NoError(t, err)
}
