package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"workflow-downloader/internal/repository"
	"workflow-downloader/pkg/models"
)

// MockSession satisfies repository.Session
type MockSession struct {
	mock.Mock
}

func (m *MockSession) FindControllerIDs(ctx context.Context, name string, version int) ([]models.ControllerID, error) {
	args := m.Called(ctx, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ControllerID), args.Error(1)
}

func (m *MockSession) ListWorkflows(ctx context.Context, controllerID models.ControllerID) ([]models.WorkflowRecord, error) {
	args := m.Called(ctx, controllerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkflowRecord), args.Error(1)
}

func (m *MockSession) ListControllers(ctx context.Context) ([]models.ControllerRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ControllerRef), args.Error(1)
}

func (m *MockSession) Close() {
	m.Called()
}

// openerFor returns an Opener that hands out session and counts opens.
func openerFor(session repository.Session, opens *int) repository.Opener {
	return func(ctx context.Context, cfg models.DBConfig) (repository.Session, error) {
		if opens != nil {
			*opens++
		}
		return session, nil
	}
}

func fixedClock() func() time.Time {
	current := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(250 * time.Millisecond)
		return current
	}
}
