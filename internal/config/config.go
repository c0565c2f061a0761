package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Logging    LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// SimulationConfig - параметры симуляции
type SimulationConfig struct {
	// Таймеры SimulationClock
	PriceTickInterval  time.Duration // период генерации новой цены
	OrderCheckInterval time.Duration // период проверки условия ордера
	OrderCooldown      time.Duration // пауза между исполнением и новым ордером

	// Генератор ценового ряда
	Volatility        float64 // максимальное изменение цены за тик (доля, 0.005 = 0.5%)
	SeedJitter        float64 // разброс стартовой истории вокруг базовой цены
	SeedPoints        int     // количество точек стартовой истории
	PriceHistoryLimit int     // максимум точек в истории (FIFO)
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Simulation: SimulationConfig{
			PriceTickInterval:  getEnvAsDuration("PRICE_TICK_INTERVAL", 3*time.Second),
			OrderCheckInterval: getEnvAsDuration("ORDER_CHECK_INTERVAL", 10*time.Second),
			OrderCooldown:      getEnvAsDuration("ORDER_COOLDOWN", 10*time.Second),

			Volatility:        getEnvAsFloat("VOLATILITY", 0.005),
			SeedJitter:        getEnvAsFloat("SEED_JITTER", 0.10),
			SeedPoints:        getEnvAsInt("SEED_POINTS", 20),
			PriceHistoryLimit: getEnvAsInt("PRICE_HISTORY_LIMIT", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", ""),
		},
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	// Таймеры должны быть положительными
	if c.Simulation.PriceTickInterval <= 0 {
		return fmt.Errorf("PRICE_TICK_INTERVAL must be positive, got %v", c.Simulation.PriceTickInterval)
	}
	if c.Simulation.OrderCheckInterval <= 0 {
		return fmt.Errorf("ORDER_CHECK_INTERVAL must be positive, got %v", c.Simulation.OrderCheckInterval)
	}
	if c.Simulation.OrderCooldown <= 0 {
		return fmt.Errorf("ORDER_COOLDOWN must be positive, got %v", c.Simulation.OrderCooldown)
	}

	// Волатильность в долях: 0.005 = 0.5% за тик
	if c.Simulation.Volatility <= 0 || c.Simulation.Volatility >= 1 {
		return fmt.Errorf("VOLATILITY must be in (0, 1), got %v", c.Simulation.Volatility)
	}
	if c.Simulation.SeedJitter < 0 || c.Simulation.SeedJitter >= 1 {
		return fmt.Errorf("SEED_JITTER must be in [0, 1), got %v", c.Simulation.SeedJitter)
	}

	if c.Simulation.SeedPoints < 1 {
		return fmt.Errorf("SEED_POINTS must be >= 1, got %d", c.Simulation.SeedPoints)
	}
	if c.Simulation.PriceHistoryLimit < 1 {
		return fmt.Errorf("PRICE_HISTORY_LIMIT must be >= 1, got %d", c.Simulation.PriceHistoryLimit)
	}
	// Стартовая история обязана помещаться в окно
	if c.Simulation.SeedPoints > c.Simulation.PriceHistoryLimit {
		return fmt.Errorf("SEED_POINTS (%d) must not exceed PRICE_HISTORY_LIMIT (%d)",
			c.Simulation.SeedPoints, c.Simulation.PriceHistoryLimit)
	}

	return nil
}

// ============================================================
// Хелперы чтения переменных окружения
// ============================================================

// getEnv читает строковую переменную окружения с дефолтом
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает целочисленную переменную окружения
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat читает вещественную переменную окружения
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool читает булеву переменную окружения
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration читает duration переменную окружения (формат time.ParseDuration)
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
