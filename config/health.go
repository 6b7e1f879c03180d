package config

import (
	"context"
	"database/sql"
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
)

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type amqpConn interface {
	IsClosed() bool
}

type mqttConn interface {
	IsConnected() bool
}

type HealthChecker struct {
	db       dbPinger
	amqpConn amqpConn
	mqtt     mqttConn
}

func NewHealthChecker(db *sql.DB, conn *amqp.Connection, mqttClient mqtt.Client) *HealthChecker {
	h := &HealthChecker{mqtt: mqttClient}
	if db != nil {
		h.db = db
	}
	if conn != nil {
		h.amqpConn = conn
	}
	return h
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}

	switch {
	case h.db == nil:
		deps["postgres"] = gin.H{"status": "disabled"}
	case h.db.PingContext(c.Request.Context()) != nil:
		deps["postgres"] = gin.H{"status": "down", "error": "ping failed"}
		status = http.StatusServiceUnavailable
	default:
		deps["postgres"] = gin.H{"status": "up"}
	}

	switch {
	case h.amqpConn == nil:
		deps["rabbitmq"] = gin.H{"status": "disabled"}
	case h.amqpConn.IsClosed():
		deps["rabbitmq"] = gin.H{"status": "down", "error": "connection closed"}
		status = http.StatusServiceUnavailable
	default:
		deps["rabbitmq"] = gin.H{"status": "up"}
	}

	if h.mqtt == nil || !h.mqtt.IsConnected() {
		deps["mqtt"] = gin.H{"status": "down", "error": "not connected"}
		status = http.StatusServiceUnavailable
	} else {
		deps["mqtt"] = gin.H{"status": "up"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
