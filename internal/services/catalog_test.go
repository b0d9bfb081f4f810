package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workflow-downloader/internal/repository"
	"workflow-downloader/pkg/models"
)

func TestControllerCatalog_List(t *testing.T) {
	session := new(MockSession)
	session.On("ListControllers", mock.Anything).Return([]models.ControllerRef{
		{Name: "Billing", Version: 2},
		{Name: "Billing", Version: 1},
		{Name: "Payroll", Version: 7},
	}, nil)
	session.On("Close").Return()

	controllers, err := NewControllerCatalog(openerFor(session, nil), nil).List(context.Background(), models.DBConfig{Server: "db01"})
	require.NoError(t, err)
	assert.Equal(t, []models.ControllerRef{
		{Name: "Billing", Version: 2},
		{Name: "Billing", Version: 1},
		{Name: "Payroll", Version: 7},
	}, controllers)
	session.AssertNumberOfCalls(t, "Close", 1)
}

func TestControllerCatalog_EmptyIsNotNil(t *testing.T) {
	session := new(MockSession)
	session.On("ListControllers", mock.Anything).Return(nil, nil)
	session.On("Close").Return()

	controllers, err := NewControllerCatalog(openerFor(session, nil), nil).List(context.Background(), models.DBConfig{})
	require.NoError(t, err)
	assert.NotNil(t, controllers)
	assert.Empty(t, controllers)
}

func TestControllerCatalog_QueryFailureClosesSession(t *testing.T) {
	session := new(MockSession)
	session.On("ListControllers", mock.Anything).Return(nil, errors.New("failed to query controllers: boom"))
	session.On("Close").Return()

	_, err := NewControllerCatalog(openerFor(session, nil), nil).List(context.Background(), models.DBConfig{})
	assert.EqualError(t, err, "failed to query controllers: boom")
	session.AssertNumberOfCalls(t, "Close", 1)
}

func TestControllerCatalog_ConnectFailure(t *testing.T) {
	open := func(ctx context.Context, cfg models.DBConfig) (repository.Session, error) {
		return nil, errors.New("connection refused")
	}

	_, err := NewControllerCatalog(open, nil).List(context.Background(), models.DBConfig{})
	assert.EqualError(t, err, "connection refused")
}
