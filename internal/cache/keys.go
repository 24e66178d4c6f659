package cache

import (
	"fmt"

	"github.com/dailycopilot/dailycopilot/pkg/models"
	"github.com/google/uuid"
)

func SummaryMetricsKey(projectID uuid.UUID, period models.Period, userID uuid.UUID) string {
	return fmt.Sprintf("metrics:summary:%s:%s:%s", projectID, period, userID)
}

func ErrorMetricsKey(projectID uuid.UUID, period models.Period) string {
	return fmt.Sprintf("metrics:errors:%s:%s", projectID, period)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
