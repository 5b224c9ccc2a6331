package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Model validation
	if c.Model.Path == "" {
		errs = append(errs, errors.New("model.path is required"))
	}

	// Feature validation
	if len(c.Features.CompoundCategories) < 2 {
		errs = append(errs, errors.New("features.compound_categories needs at least two entries"))
	}
	seen := map[string]bool{}
	for _, cat := range c.Features.CompoundCategories {
		if cat == "" {
			errs = append(errs, errors.New("features.compound_categories must not contain empty values"))
			continue
		}
		if seen[cat] {
			errs = append(errs, fmt.Errorf("features.compound_categories contains %q twice", cat))
		}
		seen[cat] = true
	}

	// Collector validation
	if c.Collector.Endpoint == "" {
		errs = append(errs, errors.New("collector.endpoint is required"))
	}
	if c.Collector.Timeout <= 0 {
		errs = append(errs, errors.New("collector.timeout must be positive"))
	}
	if c.Collector.RetryAttempts < 0 {
		errs = append(errs, errors.New("collector.retry_attempts must not be negative"))
	}
	if c.Collector.CircuitBreaker.MaxFailures <= 0 {
		errs = append(errs, errors.New("collector.circuit_breaker.max_failures must be positive"))
	}

	// Data validation
	if c.Data.RawDir == "" {
		errs = append(errs, errors.New("data.raw_dir is required"))
	}
	if c.Data.ProcessedDir == "" {
		errs = append(errs, errors.New("data.processed_dir is required"))
	}

	// Database validation applies only when storage is switched on
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, errors.New("database.port must be between 1 and 65535"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
		if c.Database.MaxConnections <= 0 {
			errs = append(errs, errors.New("database.max_connections must be positive"))
		}
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.RateLimit <= 0 {
		errs = append(errs, errors.New("api.rate_limit must be positive"))
	}
	if c.API.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("api.max_body_bytes must be positive"))
	}
	if c.API.DefaultLimit <= 0 || c.API.MaxLimit < c.API.DefaultLimit {
		errs = append(errs, errors.New("api.default_limit must be positive and not exceed api.max_limit"))
	}
	if c.App.Mode == "production" && c.API.Auth.JWTSecret == "change-me-in-production" {
		errs = append(errs, errors.New("api.auth.jwt_secret must be changed in production"))
	}
	if c.App.Mode == "production" && c.API.Auth.APIKeyHash == "" {
		errs = append(errs, errors.New("api.auth.api_key_hash is required in production"))
	}

	// WebSocket validation
	if c.WebSocket.PingInterval > 0 && c.WebSocket.PongTimeout > 0 &&
		c.WebSocket.PingInterval >= c.WebSocket.PongTimeout {
		errs = append(errs, errors.New("websocket.ping_interval must be less than websocket.pong_timeout"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
