package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where wagewise stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AI configuration
	AIEnabled   bool   // WAGEWISE_AI_ENABLED
	AIAPIKey    string // WAGEWISE_AI_API_KEY
	AIBaseURL   string // WAGEWISE_AI_BASE_URL
	AIChatModel string // WAGEWISE_AI_CHAT_MODEL

	// Knowledge base configuration. Mode "mock" serves canned topic
	// documents; "store" reads them from the database.
	KnowledgeMode string // WAGEWISE_KNOWLEDGE_MODE

	// HybridConfidence is the minimum routing confidence required before
	// a hybrid decision is honored; below it the pipeline degrades to the
	// single best route.
	HybridConfidence float64 // WAGEWISE_HYBRID_CONFIDENCE

	// Rate limiting for the HTTP API.
	RateLimitRPS   float64 // WAGEWISE_RATE_LIMIT_RPS
	RateLimitBurst int     // WAGEWISE_RATE_LIMIT_BURST
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled reports whether the LLM stages should run: the flag must be
// set and a key or a self-hosted base URL must be configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && (p.AIAPIKey != "" || p.AIBaseURL != "")
}

// FromEnv loads configuration from WAGEWISE_* environment variables,
// applying defaults for anything unset.
func (p *Profile) FromEnv() {
	v := viper.New()
	v.SetEnvPrefix("wagewise")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("mode", "demo")
	v.SetDefault("addr", "")
	v.SetDefault("port", 8082)
	v.SetDefault("data", "")
	v.SetDefault("driver", "sqlite")
	v.SetDefault("dsn", "")
	v.SetDefault("ai_enabled", false)
	v.SetDefault("ai_base_url", "https://api.openai.com/v1")
	v.SetDefault("ai_chat_model", "gpt-4o-mini")
	v.SetDefault("knowledge_mode", "mock")
	v.SetDefault("hybrid_confidence", 0.55)
	v.SetDefault("rate_limit_rps", 5.0)
	v.SetDefault("rate_limit_burst", 10)

	p.Mode = v.GetString("mode")
	p.Addr = v.GetString("addr")
	p.Port = v.GetInt("port")
	p.Data = v.GetString("data")
	p.Driver = v.GetString("driver")
	p.DSN = v.GetString("dsn")
	p.AIEnabled = v.GetBool("ai_enabled")
	p.AIAPIKey = v.GetString("ai_api_key")
	p.AIBaseURL = v.GetString("ai_base_url")
	p.AIChatModel = v.GetString("ai_chat_model")
	p.KnowledgeMode = v.GetString("knowledge_mode")
	p.HybridConfidence = v.GetFloat64("hybrid_confidence")
	p.RateLimitRPS = v.GetFloat64("rate_limit_rps")
	p.RateLimitBurst = v.GetInt("rate_limit_burst")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}
	if p.KnowledgeMode != "mock" && p.KnowledgeMode != "store" {
		return errors.Errorf("unsupported knowledge mode %q", p.KnowledgeMode)
	}
	if p.HybridConfidence < 0 || p.HybridConfidence > 1 {
		return errors.Errorf("hybrid confidence %v out of range", p.HybridConfidence)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "wagewise")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/wagewise"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("wagewise_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
