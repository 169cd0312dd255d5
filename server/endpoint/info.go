package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mddapi/version"
)

var started = time.Now()

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Service string `json:"service"`
	version.Info
	Uptime  string    `json:"uptime"`
	Started time.Time `json:"started_at"`
}

// Info reports the build of the running binary and how long it has been up.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service: serviceName,
			Info:    version.Get(),
			Uptime:  time.Since(started).Truncate(time.Second).String(),
			Started: started.UTC(),
		})
	}
}
