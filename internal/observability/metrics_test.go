package observability

import (
	"testing"
	"time"

	"github.com/rs/zerolog/log"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	RecordProtocolRequest("receive", true, 3*time.Millisecond)
	RecordProtocolRequest("bogus", false, time.Millisecond)
	ConnectionOpened()
	ConnectionClosed()
	RecordEffect("counter", "changed")

	log.Info().Msg("observability/metrics: registration idempotent and recording paths executed")
}
