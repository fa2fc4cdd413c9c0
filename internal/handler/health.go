package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Health reports DB and redis reachability.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		httpStatus := http.StatusOK
		components := gin.H{"database": "up", "redis": "up"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			components["database"] = "down"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		if rdb == nil {
			components["redis"] = "disabled"
		} else if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			components["redis"] = "down"
			status = "degraded"
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"components": components,
			"timestamp":  time.Now(),
		})
	}
}
