package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Database *DatabaseConfig
	Cache    *CacheConfig
	Auth     *AuthConfig
	Catalog  *CatalogConfig
	Checkout *CheckoutConfig
}

type ServerConfig struct {
	AppName        string        // Nightloom
	Environment    string        // development, production
	Port           string        // :8084
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration // in seconds
	MaxIdleTime  time.Duration // in seconds
	ReadTimeout  time.Duration // in seconds
	WriteTimeout time.Duration // in seconds
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	CatalogTTL      time.Duration // active catalog snapshot
	HotSaleTTL      time.Duration // hot-sale listing
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	CookieDomain      string // cross-subdomain cookie scope in production
}

type CatalogConfig struct {
	HotSaleLimit     int
	RelatedLimit     int
	RecommendedLimit int
}

type CheckoutConfig struct {
	// TaxRateBasisPoints is the estimated tax rate in basis points
	// (480 = 4.8%). The estimate is shown on the summary but not added
	// to the total.
	TaxRateBasisPoints int
}
