package handler

import (
	"net/http"

	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/response"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
)

// VersionFunc reports the loaded configuration version.
type VersionFunc func() (string, error)

type Health struct {
	serviceName string
	version     VersionFunc
	log         logger.Logger
}

func NewHealth(serviceName string, version VersionFunc, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		version:     version,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service and the loaded pricing configuration version
// @Tags         Health
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	status := http.StatusOK
	info := map[string]string{
		"service-name": a.serviceName,
	}
	body := response.Envelope{
		"status":      "available",
		"system_info": info,
	}

	if a.version != nil {
		version, err := a.version()
		if err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "loading"
		} else {
			info["config-version"] = version
		}
	}

	if err := response.JSON(w, status, body, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
