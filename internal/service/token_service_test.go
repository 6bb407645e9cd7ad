package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/fingerprint-server/internal/mocks"
	"github.com/dtroode/fingerprint-server/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	manager.On("GenerateOperatorToken", "kiosk-1", 12*time.Hour).Return("signed", nil).Once()

	svc := NewTokenService(manager, 12*time.Hour, testutil.MakeNoopLogger())

	tok, err := svc.Issue(context.Background(), "kiosk-1")
	require.NoError(t, err)
	assert.Equal(t, "signed", tok)
}

func TestTokenService_Issue_Errors(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	manager.On("GenerateOperatorToken", "kiosk-1", time.Hour).Return("", assert.AnError).Once()

	svc := NewTokenService(manager, time.Hour, testutil.MakeNoopLogger())

	_, err := svc.Issue(context.Background(), "")
	require.Error(t, err)

	_, err = svc.Issue(context.Background(), "kiosk-1")
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetOperator(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	manager.On("ParseOperatorToken", "good").Return("kiosk-1", nil).Once()
	manager.On("ParseOperatorToken", "bad").Return("", assert.AnError).Once()

	svc := NewTokenService(manager, time.Hour, testutil.MakeNoopLogger())

	op, err := svc.GetOperator(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "kiosk-1", op)

	_, err = svc.GetOperator(context.Background(), "bad")
	assert.Error(t, err)
}
