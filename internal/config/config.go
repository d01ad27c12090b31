package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// LLM provider
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	// web search
	GoogleAPIKey string
	GoogleCX     string
	BingAPIKey   string

	ChatContextWindowSize int
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "mysql"
	}

	openAIBaseURL := os.Getenv("OPENAI_BASE_URL")
	if openAIBaseURL == "" {
		openAIBaseURL = "https://api.openai.com/v1"
	}

	openAIModel := os.Getenv("OPENAI_MODEL")
	if openAIModel == "" {
		openAIModel = "gpt-4.1-nano"
	}

	windowSize := 5
	if v := os.Getenv("CHAT_CONTEXT_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			windowSize = n
		}
	}

	return Config{
		HTTPAddr: addr,

		DBDriver: driver,
		DBDSN:    os.Getenv("DB_DSN"),

		OpenAIBaseURL: openAIBaseURL,
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   openAIModel,

		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GoogleCX:     os.Getenv("GOOGLE_CX"),
		BingAPIKey:   os.Getenv("BING_API_KEY"),

		ChatContextWindowSize: windowSize,
	}
}

// HasOpenAI reports whether a completion provider key is configured.
func (c Config) HasOpenAI() bool { return c.OpenAIAPIKey != "" }

// HasGoogleSearch reports whether Google Custom Search is fully configured.
func (c Config) HasGoogleSearch() bool { return c.GoogleAPIKey != "" && c.GoogleCX != "" }

// HasBingSearch reports whether Bing Web Search is configured.
func (c Config) HasBingSearch() bool { return c.BingAPIKey != "" }

// SearchEnabled reports whether any search engine can serve tool calls.
func (c Config) SearchEnabled() bool { return c.HasGoogleSearch() || c.HasBingSearch() }
