package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderAuto       = "auto"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderNone       = "none"

	SearchGoogle     = "google"
	SearchDuckDuckGo = "duckduckgo"
)

type Config struct {
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator" yaml:"orchestrator"`
	LLM          LLMConfig          `mapstructure:"llm" yaml:"llm"`
	Search       SearchConfig       `mapstructure:"search" yaml:"search"`
	Fetch        FetchConfig        `mapstructure:"fetch" yaml:"fetch"`
	Log          LogConfig          `mapstructure:"log" yaml:"log"`
}

type OrchestratorConfig struct {
	MaxParallelTasks int           `mapstructure:"max_parallel_tasks" yaml:"max_parallel_tasks"`
	MaxSubtopics     int           `mapstructure:"max_subtopics" yaml:"max_subtopics"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	SynthesisSources int           `mapstructure:"synthesis_sources" yaml:"synthesis_sources"`
}

type LLMConfig struct {
	Provider         string  `mapstructure:"provider" yaml:"provider"`
	Model            string  `mapstructure:"model" yaml:"model"`
	BaseURL          string  `mapstructure:"base_url" yaml:"base_url"`
	APIKey           string  `mapstructure:"api_key" yaml:"api_key"`
	OpenAIAPIKey     string  `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	OpenRouterAPIKey string  `mapstructure:"openrouter_api_key" yaml:"openrouter_api_key"`
	AnthropicAPIKey  string  `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	PlannerTemp      float32 `mapstructure:"planner_temperature" yaml:"planner_temperature"`
	SynthesisTemp    float32 `mapstructure:"synthesis_temperature" yaml:"synthesis_temperature"`
	SynthesisTokens  int     `mapstructure:"synthesis_max_tokens" yaml:"synthesis_max_tokens"`
}

type SearchConfig struct {
	Provider         string  `mapstructure:"provider" yaml:"provider"`
	MaxSources       int     `mapstructure:"max_sources" yaml:"max_sources"`
	GoogleAPIKey     string  `mapstructure:"google_api_key" yaml:"google_api_key"`
	GoogleEngineID   string  `mapstructure:"google_engine_id" yaml:"google_engine_id"`
	GoogleEndpoint   string  `mapstructure:"google_endpoint" yaml:"google_endpoint"`
	SimulateFallback bool    `mapstructure:"simulate_fallback" yaml:"simulate_fallback"`
	RatePerSecond    float64 `mapstructure:"rate_per_second" yaml:"rate_per_second"`
}

type FetchConfig struct {
	Concurrency     int     `mapstructure:"concurrency" yaml:"concurrency"`
	MaxContentChars int     `mapstructure:"max_content_chars" yaml:"max_content_chars"`
	MaxBodyBytes    int64   `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	UserAgent       string  `mapstructure:"user_agent" yaml:"user_agent"`
	RatePerSecond   float64 `mapstructure:"rate_per_second" yaml:"rate_per_second"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Dir    string `mapstructure:"dir" yaml:"dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("orchestrator.max_parallel_tasks", 10)
	v.SetDefault("orchestrator.max_subtopics", 5)
	v.SetDefault("orchestrator.request_timeout", 10*time.Second)
	v.SetDefault("orchestrator.synthesis_sources", 3)

	v.SetDefault("llm.provider", ProviderAuto)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openrouter_api_key", "")
	v.SetDefault("llm.anthropic_api_key", "")
	v.SetDefault("llm.planner_temperature", 0.1)
	v.SetDefault("llm.synthesis_temperature", 0.3)
	v.SetDefault("llm.synthesis_max_tokens", 800)

	v.SetDefault("search.provider", SearchGoogle)
	v.SetDefault("search.max_sources", 10)
	v.SetDefault("search.google_api_key", "")
	v.SetDefault("search.google_engine_id", "")
	v.SetDefault("search.google_endpoint", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("search.simulate_fallback", true)
	v.SetDefault("search.rate_per_second", 5.0)

	v.SetDefault("fetch.concurrency", 3)
	v.SetDefault("fetch.max_content_chars", 5000)
	v.SetDefault("fetch.max_body_bytes", 2<<20)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; research-agent/1.0)")
	v.SetDefault("fetch.rate_per_second", 20.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.dir", "")
}

// bindAliases maps conventional provider variables onto config keys.
func bindAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"llm.openai_api_key":      {"RESEARCH_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"llm.openrouter_api_key":  {"RESEARCH_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
		"llm.anthropic_api_key":   {"RESEARCH_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		"search.google_api_key":   {"RESEARCH_SEARCH_GOOGLE_API_KEY", "GOOGLE_SEARCH_API_KEY", "GOOGLE_API_KEY"},
		"search.google_engine_id": {"RESEARCH_SEARCH_GOOGLE_ENGINE_ID", "GOOGLE_SEARCH_ENGINE_ID", "GOOGLE_CSE_ID"},
	}
	for key, envs := range aliases {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configuration from defaults, an optional YAML file and the environment, in
// increasing order of precedence. An empty path searches ./research.yaml and
// $HOME/.config/research-agent/research.yaml; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindAliases(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("research")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/research-agent")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks bounds and clamps the fetch ceiling below the global task ceiling.
func (c *Config) Validate() error {
	if c.Orchestrator.MaxParallelTasks < 1 {
		return fmt.Errorf("orchestrator.max_parallel_tasks must be >= 1, got %d", c.Orchestrator.MaxParallelTasks)
	}
	if c.Orchestrator.MaxSubtopics < 1 {
		return fmt.Errorf("orchestrator.max_subtopics must be >= 1, got %d", c.Orchestrator.MaxSubtopics)
	}
	if c.Orchestrator.RequestTimeout <= 0 {
		return fmt.Errorf("orchestrator.request_timeout must be positive, got %s", c.Orchestrator.RequestTimeout)
	}
	if c.Orchestrator.SynthesisSources < 1 {
		c.Orchestrator.SynthesisSources = 1
	}
	if c.Search.MaxSources < 1 {
		return fmt.Errorf("search.max_sources must be >= 1, got %d", c.Search.MaxSources)
	}
	if c.Fetch.Concurrency < 1 {
		c.Fetch.Concurrency = 1
	}
	// A global ceiling of 1 cannot sit above a fetch ceiling, so fetches serialize.
	if limit := max(1, c.Orchestrator.MaxParallelTasks-1); c.Fetch.Concurrency > limit {
		c.Fetch.Concurrency = limit
	}
	if c.Fetch.MaxContentChars < 1 {
		return fmt.Errorf("fetch.max_content_chars must be >= 1, got %d", c.Fetch.MaxContentChars)
	}

	switch c.LLM.Provider {
	case ProviderAuto, ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic, ProviderNone:
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	switch c.Search.Provider {
	case SearchGoogle, SearchDuckDuckGo:
	default:
		return fmt.Errorf("unknown search.provider %q", c.Search.Provider)
	}
	return nil
}

// ResolveLLM picks the provider and key to use. With provider "auto" the first provider
// with a configured key wins; without any key the provider is "none".
func (c LLMConfig) ResolveLLM() (provider, apiKey string) {
	keyFor := func(p string) string {
		if c.APIKey != "" {
			return c.APIKey
		}
		switch p {
		case ProviderOpenAI:
			return c.OpenAIAPIKey
		case ProviderOpenRouter:
			return c.OpenRouterAPIKey
		case ProviderAnthropic:
			return c.AnthropicAPIKey
		}
		return ""
	}

	if c.Provider != ProviderAuto {
		if c.Provider == ProviderNone {
			return ProviderNone, ""
		}
		key := keyFor(c.Provider)
		if key == "" {
			return ProviderNone, ""
		}
		return c.Provider, key
	}

	for _, p := range []string{ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic} {
		if key := keyFor(p); key != "" {
			return p, key
		}
	}
	return ProviderNone, ""
}

// ModelFor returns the configured model or the default for provider.
func (c LLMConfig) ModelFor(provider string) string {
	if c.Model != "" {
		return c.Model
	}
	switch provider {
	case ProviderOpenRouter:
		return "openai/gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	default:
		return "gpt-4o-mini"
	}
}

// HasGoogleCredentials reports whether live Google search is possible.
func (c SearchConfig) HasGoogleCredentials() bool {
	return c.GoogleAPIKey != "" && c.GoogleEngineID != ""
}
