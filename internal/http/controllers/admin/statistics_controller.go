package admin

import (
	"net/http"

	"github.com/dohkar/dohkar-api/internal/http/helpers"
	svc "github.com/dohkar/dohkar-api/internal/http/services/admin"
)

type StatisticsController struct {
	service svc.StatisticsService
}

func NewStatisticsController(service svc.StatisticsService) *StatisticsController {
	return &StatisticsController{service: service}
}

// Get maneja GET /api/admin/statistics
func (c *StatisticsController) Get(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Get(r.Context())
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}
