package config

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/pkg/errors"

	"github.com/zhouzirui/genz-chat/backend/internal/service/llm"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// Config aggregates every setting of the service.
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Log    LogConfig
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llmCfg, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		LLM:    llmCfg,
		Log:    LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "info")},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	addr, err := ParseAddr(getEnvOrDefault("PORT", "5000"))
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Addr:           addr,
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

// ParseAddr accepts a bare port ("5000") or a listen address (":5000",
// "127.0.0.1:5000").
func ParseAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" || strings.Contains(port, " ") {
		return "", errors.Errorf("invalid PORT value: %q", port)
	}
	if strings.Contains(port, ":") {
		return port, nil
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", errors.Errorf("invalid PORT value: %q", port)
	}
	return ":" + port, nil
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level string
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider string

	// OpenAI-compatible endpoint (Groq by default).
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Volcengine Ark.
	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string
}

func loadLLMConfig() (LLMConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderGroq))
	switch provider {
	case ProviderGroq, ProviderOpenAI, ProviderArk:
	default:
		return LLMConfig{}, errors.Errorf("invalid LLM_PROVIDER value %q", provider)
	}

	apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	return LLMConfig{
		Provider:      provider,
		OpenAIAPIKey:  apiKey,
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenAIModel:   getEnvOrDefault("LLM_MODEL", "openai/gpt-oss-20b"),
		ArkAPIKey:     strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey:  strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey:  strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:      strings.TrimSpace(os.Getenv("Model")),
		ArkBaseURL:    getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:     getEnvOrDefault("ARK_REGION", "cn-beijing"),
	}, nil
}

// Validate reports missing credentials for the selected provider.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderArk:
		if c.ArkModel == "" || (c.ArkAPIKey == "" && (c.ArkAccessKey == "" || c.ArkSecretKey == "")) {
			return errors.New("ark provider needs Model and ARK_API_KEY or ARK_ACCESS_KEY + ARK_SECRET_KEY")
		}
	case ProviderGroq, ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("groq provider needs GROQ_API_KEY (or OPENAI_API_KEY)")
		}
		if c.OpenAIModel == "" {
			return errors.New("groq provider needs LLM_MODEL")
		}
	default:
		return errors.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}

// NewProvider builds the configured completion provider.
func (c LLMConfig) NewProvider(ctx context.Context) (llm.Provider, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Provider == ProviderArk {
		chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:   c.ArkBaseURL,
			Region:    c.ArkRegion,
			APIKey:    c.ArkAPIKey,
			AccessKey: c.ArkAccessKey,
			SecretKey: c.ArkSecretKey,
			Model:     c.ArkModel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "create ark chat model")
		}
		return llm.NewEinoProvider(ProviderArk, chatModel), nil
	}

	return llm.NewOpenAIProvider(c.Provider, c.OpenAIAPIKey, c.OpenAIBaseURL, c.OpenAIModel), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
