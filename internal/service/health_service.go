package service

import (
	"context"
	"fmt"
	"time"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService defines the interface for checking application health
type HealthService interface {
	Check(ctx context.Context) map[string]string
}

// healthService is the concrete implementation of the HealthService
type healthService struct {
	db       Pinger
	docstore Pinger
}

// NewHealthService creates a new instance of the health check service.
// It performs readiness checks on both backing stores.
func NewHealthService(db, docstore Pinger) HealthService {
	return &healthService{db: db, docstore: docstore}
}

// Check performs health checks on all critical dependencies
func (s *healthService) Check(ctx context.Context) map[string]string {
	healthStatus := make(map[string]string)

	// Use a timeout to prevent the health check from hanging
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.Ping(checkCtx); err != nil {
		healthStatus["db"] = fmt.Sprintf("error: %s", err.Error())
	} else {
		healthStatus["db"] = "ok"
	}

	if err := s.docstore.Ping(checkCtx); err != nil {
		healthStatus["docstore"] = fmt.Sprintf("error: %s", err.Error())
	} else {
		healthStatus["docstore"] = "ok"
	}

	return healthStatus
}
