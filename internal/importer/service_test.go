package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recette/internal/deposit"
	"github.com/MrJamesThe3rd/recette/internal/importer"
	"github.com/MrJamesThe3rd/recette/internal/importer/statement"
)

const releve = `Date;Libellé;Montant
03/02/2026;VERSEMENT ESPECES;900,000
04/02/2026;COMMISSION;-2,500
05/02/2026;VERSEMENT ESPECES;650,000
`

func TestService_Import(t *testing.T) {
	type testCase struct {
		name      string
		format    importer.Format
		setupMock func(m *importer.MockDepositWriter)
		want      importer.Result
		wantErr   string
	}

	tests := []testCase{
		{
			name:   "Auto",
			format: importer.FormatAuto,
			setupMock: func(m *importer.MockDepositWriter) {
				m.EXPECT().
					CreateBatch(gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, params []deposit.CreateParams) (int, error) {
						assert.Equal(t, "VERSEMENT ESPECES", params[0].Note)
						return 1, nil
					})
			},
			want: importer.Result{Parsed: 2, Inserted: 1, Skipped: 1},
		},
		{
			name:   "EmptyFormatMeansAuto",
			format: "",
			setupMock: func(m *importer.MockDepositWriter) {
				m.EXPECT().CreateBatch(gomock.Any(), gomock.Len(2)).Return(2, nil)
			},
			want: importer.Result{Parsed: 2, Inserted: 2},
		},
		{
			name:   "ExplicitFormat",
			format: importer.FormatReleve,
			setupMock: func(m *importer.MockDepositWriter) {
				m.EXPECT().CreateBatch(gomock.Any(), gomock.Len(2)).Return(0, nil)
			},
			want: importer.Result{Parsed: 2, Skipped: 2},
		},
		{
			name:    "WrongFormat",
			format:  importer.FormatCompte,
			wantErr: "no matching statement format",
		},
		{
			name:    "UnknownFormat",
			format:  "ofx",
			wantErr: "unknown statement format: ofx",
		},
		{
			name:   "StoreFailure",
			format: importer.FormatAuto,
			setupMock: func(m *importer.MockDepositWriter) {
				m.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))
			},
			wantErr: "storing deposits: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			writer := importer.NewMockDepositWriter(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(writer)
			}

			svc := importer.NewService(writer, statement.DefaultKeywords...)

			got, err := svc.Import(context.Background(), tt.format, strings.NewReader(releve))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Parse_UnknownFormatIsSentinel(t *testing.T) {
	svc := importer.NewService(nil)

	_, err := svc.Parse("qif", strings.NewReader(releve))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)
}
