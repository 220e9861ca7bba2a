package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Index     IndexConfig     `mapstructure:"index"`
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Fusion    FusionConfig    `mapstructure:"fusion"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

func (g GeneralConfig) Normalize() GeneralConfig {
	g.LogLevel = strings.ToLower(strings.TrimSpace(g.LogLevel))
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	return g
}

func (g GeneralConfig) Validate() error {
	switch g.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("general.log_level %q is not one of debug|info|warn|error", g.LogLevel)
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	AllowOrigins []string      `mapstructure:"allow_origins"` // CORS; empty means "*"
}

func (s ServerConfig) Normalize() ServerConfig {
	s.Address = strings.TrimSpace(s.Address)
	if s.Address == "" {
		s.Address = ":8080"
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 2 * time.Minute
	}
	if len(s.AllowOrigins) == 0 {
		s.AllowOrigins = []string{"*"}
	}
	return s
}

// LLMConfig selects and parameterises the completion service.
// An empty APIKey leaves the assistant without a model: fusion is skipped
// and generic questions are refused.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai | gemini
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Normalize() LLMConfig {
	l.Provider = strings.ToLower(strings.TrimSpace(l.Provider))
	if l.Provider == "" {
		l.Provider = "openai"
	}
	l.APIKey = strings.TrimSpace(l.APIKey)
	l.BaseURL = strings.TrimRight(strings.TrimSpace(l.BaseURL), "/")
	if strings.TrimSpace(l.Model) == "" {
		switch l.Provider {
		case "gemini":
			l.Model = "gemini-2.0-flash"
		default:
			l.Model = "gpt-4o-mini"
		}
	}
	if l.Provider == "openai" && l.BaseURL == "" {
		l.BaseURL = "https://api.openai.com/v1"
	}
	if l.MaxTokens <= 0 {
		l.MaxTokens = 2048
	}
	if l.Timeout <= 0 {
		l.Timeout = 60 * time.Second
	}
	return l
}

func (l LLMConfig) Validate() error {
	switch l.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("llm.provider %q is not supported", l.Provider)
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0,2]")
	}
	return nil
}

// Enabled reports whether a completion service is configured.
func (l LLMConfig) Enabled() bool { return l.APIKey != "" }

// IndexConfig configures the CSV-backed article index.
type IndexConfig struct {
	CSVURL      string        `mapstructure:"csv_url"`
	LocalPath   string        `mapstructure:"local_path"`
	TTL         time.Duration `mapstructure:"ttl"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Ranker      string        `mapstructure:"ranker"`   // lexical | bleve
	Fallback    string        `mapstructure:"fallback"` // first | random
	TopK        int           `mapstructure:"top_k"`
	RefreshCron string        `mapstructure:"refresh_cron"`
}

func (c IndexConfig) Normalize() IndexConfig {
	c.CSVURL = strings.TrimSpace(c.CSVURL)
	c.LocalPath = strings.TrimSpace(c.LocalPath)
	if c.TTL <= 0 {
		c.TTL = 30 * time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	c.Ranker = strings.ToLower(strings.TrimSpace(c.Ranker))
	if c.Ranker == "" {
		c.Ranker = "lexical"
	}
	c.Fallback = strings.ToLower(strings.TrimSpace(c.Fallback))
	if c.Fallback == "" {
		c.Fallback = "first"
	}
	if c.TopK <= 0 {
		c.TopK = 6
	}
	c.RefreshCron = strings.TrimSpace(c.RefreshCron)
	return c
}

func (c IndexConfig) Validate() error {
	if c.CSVURL == "" && c.LocalPath == "" {
		return errors.New("index.csv_url or index.local_path is required")
	}
	if c.TTL < time.Minute || c.TTL > 24*time.Hour {
		return fmt.Errorf("index.ttl %s must be between 1m and 24h", c.TTL)
	}
	switch c.Ranker {
	case "lexical", "bleve":
	default:
		return fmt.Errorf("index.ranker %q is not one of lexical|bleve", c.Ranker)
	}
	switch c.Fallback {
	case "first", "random":
	default:
		return fmt.Errorf("index.fallback %q is not one of first|random", c.Fallback)
	}
	return nil
}

// ScrapeConfig bounds page fetching and extraction.
type ScrapeConfig struct {
	Fetcher      string           `mapstructure:"fetcher"` // http | chromedp
	Timeout      time.Duration    `mapstructure:"timeout"`
	UserAgent    string           `mapstructure:"user_agent"`
	MaxBodyBytes int64            `mapstructure:"max_body_bytes"`
	TextMaxChars int              `mapstructure:"text_max_chars"`
	MaxImages    int              `mapstructure:"max_images"`
	MaxFigures   int              `mapstructure:"max_figures"`
	NodeLimit    int              `mapstructure:"node_limit"`
	FigureLimit  int              `mapstructure:"figure_limit"`
	Concurrency  int              `mapstructure:"concurrency"`
	TextTTL      time.Duration    `mapstructure:"text_ttl"`
	HTMLTTL      time.Duration    `mapstructure:"html_ttl"`
	Policy       HostPolicyConfig `mapstructure:"policy"`
}

// DefaultUserAgent is sent when scrape.user_agent is empty.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

func (s ScrapeConfig) Normalize() ScrapeConfig {
	s.Fetcher = strings.ToLower(strings.TrimSpace(s.Fetcher))
	if s.Fetcher == "" {
		s.Fetcher = "http"
	}
	if s.Timeout <= 0 {
		s.Timeout = 15 * time.Second
	}
	if strings.TrimSpace(s.UserAgent) == "" {
		s.UserAgent = DefaultUserAgent
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = 4 << 20
	}
	if s.TextMaxChars <= 0 || s.TextMaxChars > 20000 {
		s.TextMaxChars = 20000
	}
	if s.MaxImages <= 0 {
		s.MaxImages = 16
	}
	if s.MaxFigures <= 0 {
		s.MaxFigures = 12
	}
	if s.NodeLimit <= 0 {
		s.NodeLimit = 120
	}
	if s.FigureLimit <= 0 {
		s.FigureLimit = 6
	}
	if s.Concurrency <= 0 {
		s.Concurrency = 8
	}
	if s.TextTTL <= 0 {
		s.TextTTL = 30 * time.Minute
	}
	if s.HTMLTTL <= 0 {
		s.HTMLTTL = 2 * time.Hour
	}
	s.Policy = s.Policy.Normalize()
	return s
}

func (s ScrapeConfig) Validate() error {
	switch s.Fetcher {
	case "http", "chromedp":
	default:
		return fmt.Errorf("scrape.fetcher %q is not one of http|chromedp", s.Fetcher)
	}
	if s.Timeout > 2*time.Minute {
		return fmt.Errorf("scrape.timeout %s exceeds 2m", s.Timeout)
	}
	if s.MaxImages > 64 {
		return fmt.Errorf("scrape.max_images must be <= 64")
	}
	return s.Policy.Validate()
}

// CacheConfig selects the scrape cache backend.
type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // memory | redis
	Prefix  string      `mapstructure:"prefix"`
	Redis   RedisConfig `mapstructure:"redis"`
}

func (c CacheConfig) Normalize() CacheConfig {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if strings.TrimSpace(c.Prefix) == "" {
		c.Prefix = "spacebio"
	}
	if c.Redis.Timeout <= 0 {
		c.Redis.Timeout = 5 * time.Second
	}
	return c
}

func (c CacheConfig) Validate() error {
	switch c.Backend {
	case "memory":
		return nil
	case "redis":
		return c.Redis.Validate()
	}
	return fmt.Errorf("cache.backend %q is not one of memory|redis", c.Backend)
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("cache.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("cache.redis.port required")
	}
	return nil
}

// Addr joins host and port for the redis client.
func (r RedisConfig) Addr() string {
	return strings.TrimSpace(r.Host) + ":" + strings.TrimSpace(r.Port)
}

// FusionConfig tunes the document budget and image selection of fused answers.
type FusionConfig struct {
	MaxDocuments        int    `mapstructure:"max_documents"`
	DocTextChars        int    `mapstructure:"doc_text_chars"`
	ImagesPerDoc        int    `mapstructure:"images_per_doc"`
	MaxImagesPerSection int    `mapstructure:"max_images_per_section"`
	ZeroOverlapKeep     int    `mapstructure:"zero_overlap_keep"`
	ImageProxyPath      string `mapstructure:"image_proxy_path"`
	Translate           bool   `mapstructure:"translate"`
}

func (f FusionConfig) Normalize() FusionConfig {
	if f.MaxDocuments <= 0 || f.MaxDocuments > 8 {
		f.MaxDocuments = 8
	}
	if f.DocTextChars <= 0 {
		f.DocTextChars = 4000
	}
	if f.ImagesPerDoc <= 0 {
		f.ImagesPerDoc = 6
	}
	if f.MaxImagesPerSection <= 0 {
		f.MaxImagesPerSection = 3
	}
	if f.ZeroOverlapKeep < 0 {
		f.ZeroOverlapKeep = 0
	}
	if strings.TrimSpace(f.ImageProxyPath) == "" {
		f.ImageProxyPath = "/api/image-proxy?url="
	}
	return f
}

func (f FusionConfig) Validate() error {
	if f.ZeroOverlapKeep > f.MaxImagesPerSection {
		return fmt.Errorf("fusion.zero_overlap_keep must not exceed fusion.max_images_per_section")
	}
	return nil
}

// TelemetryConfig contains monitoring settings
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

func (t TelemetryConfig) Normalize() TelemetryConfig {
	if strings.TrimSpace(t.MetricsPath) == "" {
		t.MetricsPath = "/metrics"
	}
	return t
}

func (t TelemetryConfig) Validate() error {
	if t.Enabled && !strings.HasPrefix(t.MetricsPath, "/") {
		return fmt.Errorf("telemetry.metrics_path must start with /")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("index.ttl", "30m")
	v.SetDefault("index.ranker", "lexical")
	v.SetDefault("index.fallback", "first")
	v.SetDefault("index.top_k", 6)
	v.SetDefault("scrape.fetcher", "http")
	v.SetDefault("scrape.timeout", "15s")
	v.SetDefault("scrape.text_ttl", "30m")
	v.SetDefault("scrape.html_ttl", "2h")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("fusion.translate", true)
	v.SetDefault("fusion.zero_overlap_keep", 1)
	v.SetDefault("telemetry.enabled", true)

	// AutomaticEnv only reaches keys viper already knows about.
	for _, key := range configKeys(reflect.TypeOf(Config{}), "") {
		_ = v.BindEnv(key)
	}
}

// configKeys returns the dotted mapstructure path of every leaf field of t.
func configKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, configKeys(f.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// LoadConfig reads configuration from path (or the default search paths when
// path is empty) and SPACEBIO_* environment variables. A missing config file
// is tolerated only when no explicit path was given.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.SetEnvPrefix("SPACEBIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize applies defaults section by section.
func (c *Config) Normalize() {
	c.General = c.General.Normalize()
	c.Server = c.Server.Normalize()
	c.LLM = c.LLM.Normalize()
	c.Index = c.Index.Normalize()
	c.Scrape = c.Scrape.Normalize()
	c.Cache = c.Cache.Normalize()
	c.Fusion = c.Fusion.Normalize()
	c.Telemetry = c.Telemetry.Normalize()
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.General.Validate,
		c.LLM.Validate,
		c.Index.Validate,
		c.Scrape.Validate,
		c.Cache.Validate,
		c.Fusion.Validate,
		c.Telemetry.Validate,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
