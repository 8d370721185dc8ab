package mocks

import (
	"context"

	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/domain/lookup"
	"github.com/rpggio/crmtrail/internal/domain/recorder"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, tenantID string, records ...*activity.Record) error {
	args := m.Called(ctx, tenantID, records)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.Record, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Delete(ctx context.Context, tenantID string, id int64) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *ActivityRepository) DeleteByEntity(ctx context.Context, tenantID, entityType, entityID string) (int64, error) {
	args := m.Called(ctx, tenantID, entityType, entityID)
	return args.Get(0).(int64), args.Error(1)
}

// LookupRepository is a mock for lookup.Repository.
type LookupRepository struct {
	mock.Mock
}

func (m *LookupRepository) Upsert(ctx context.Context, tenantID string, l *lookup.Lookup) error {
	args := m.Called(ctx, tenantID, l)
	return args.Error(0)
}

func (m *LookupRepository) Get(ctx context.Context, tenantID, lookupType, id string) (*lookup.Lookup, error) {
	args := m.Called(ctx, tenantID, lookupType, id)
	if l, ok := args.Get(0).(*lookup.Lookup); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LookupRepository) List(ctx context.Context, tenantID, lookupType string) ([]lookup.Lookup, error) {
	args := m.Called(ctx, tenantID, lookupType)
	if list, ok := args.Get(0).([]lookup.Lookup); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Resolver is a mock for recorder.Resolver.
type Resolver struct {
	mock.Mock
}

func (m *Resolver) Resolve(ctx context.Context, tenantID string, lookupType recorder.LookupType, id any) (recorder.Reference, bool) {
	args := m.Called(ctx, tenantID, lookupType, id)
	return args.Get(0).(recorder.Reference), args.Bool(1)
}
