package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/fingerprint-server/internal/mocks"
	"github.com/dtroode/fingerprint-server/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mdAuthHeader string
		operator     string
		tokenSvcErr  error
		wantGRPCCode codes.Code
		wantErr      bool
		expectSetCtx bool
	}{
		{
			name:         "missing authorization header",
			mdAuthHeader: "",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			tokenSvcErr:  errors.New("token is malformed"),
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "empty operator from token",
			mdAuthHeader: "Bearer token",
			operator:     "",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "valid token",
			mdAuthHeader: "Bearer token",
			operator:     "kiosk-1",
			wantGRPCCode: codes.OK,
			expectSetCtx: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm := mocks.NewContextManager(t)
			if tt.expectSetCtx {
				cm.On("SetOperatorToContext", mock.Anything, tt.operator).Return(context.Background())
			}

			svc := mocks.NewTokenService(t)
			if tt.mdAuthHeader != "" {
				svc.On("GetOperator", mock.Anything, mock.AnythingOfType("string")).Return(tt.operator, tt.tokenSvcErr)
			}
			m := NewAuthenticate(svc, cm, testutil.MakeNoopLogger())

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantGRPCCode, st.Code())
				assert.Nil(t, newCtx)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, newCtx)
			}
		})
	}
}
