// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the auth ports. To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	cache := mocks.NewMockRoleCache(ctrl)
//	cache.EXPECT().Get(gomock.Any(), "u1").Return(auth.RoleBronze, true, nil)
package mocks

// Generate mock for RoleCache interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=role_cache_mock.go github.com/devhive/devhive-client/internal/ports RoleCache
