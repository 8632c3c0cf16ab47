// Package config defines the service configuration persisted as JSON.
package config

import "deckgen/content"

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddr         string `json:"listenAddr"`         // host:port the API binds to
	RateLimitPerMinute int    `json:"rateLimitPerMinute"` // per-client request budget, 0 disables limiting
}

// Config structure
type Config struct {
	Server         ServerConfig             `json:"server"`
	DataDir        string                   `json:"dataDir"`        // sqlite database and artifacts
	LogDir         string                   `json:"logDir"`         // service log files
	WorkerCount    int                      `json:"workerCount"`    // concurrent slides per job
	LogoServiceURL string                   `json:"logoServiceUrl"` // base URL for logo lookups, empty disables logos
	DetailedLog    bool                     `json:"detailedLog"`
	Generation     *content.GenerateOptions `json:"generation,omitempty"` // service-wide generation defaults
}
