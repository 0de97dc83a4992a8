package service

import (
	"context"
	"net/http"
	"tarkovapi/app_error"
	"tarkovapi/model/restmodel"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthService struct {
	database Pinger
}

func NewHealthService(database Pinger) *HealthService {
	return &HealthService{database: database}
}

// Check reports ok only when the store answers within two seconds. A failed
// ping is returned as a 503 along with the degraded report.
func (s *HealthService) Check(ctx context.Context) (*restmodel.Health, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.database.PingContext(ctx); err != nil {
		return &restmodel.Health{Status: "degraded", Database: err.Error()}, app_error.WithHTTPStatus(err, http.StatusServiceUnavailable)
	}
	return &restmodel.Health{Status: "ok", Database: "ok"}, nil
}
