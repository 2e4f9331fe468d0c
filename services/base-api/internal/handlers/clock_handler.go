package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/go-base-project/pkg"
	"github.com/nimeshabuddhika/go-base-project/pkg/common"
	"github.com/nimeshabuddhika/go-base-project/services/base-api/internal/views"
	"go.uber.org/zap"
)

// max UTC offset in either direction is 14h
var offsetRule = fmt.Sprintf("gte=%d,lte=%d", -14*60, 14*60)

type ClockHandler struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewClockHandler(logger *zap.Logger) *ClockHandler {
	return &ClockHandler{logger: logger, now: time.Now}
}

// RegisterRoutes registers clock routes on the provided router group.
func (h *ClockHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/clock", h.GetClock)
}

// GetClock returns the server time in the process timezone, or shifted by offsetMinutes from UTC.
func (h *ClockHandler) GetClock(c *gin.Context) {
	offsetMinutes, err := pkg.QueryInt64(c, "offsetMinutes", 0)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err = pkg.ValidateVar("offsetMinutes", offsetMinutes, offsetRule); err != nil {
		_ = c.Error(err)
		return
	}

	now := h.now()
	if _, ok := c.GetQuery("offsetMinutes"); ok {
		now = now.In(time.FixedZone("", int(offsetMinutes)*60))
	}
	zone, offset := now.Zone()
	if pkg.IsEmpty(zone) {
		zone = now.Format("-07:00")
	}

	result := common.NewObjectResult[views.ClockView]()
	result.SetSuccessResponse(views.ClockView{
		Time:          now.Format(time.RFC3339),
		Zone:          zone,
		OffsetSeconds: offset,
	})
	c.JSON(http.StatusOK, result)
}
