package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultSimpleIconsURL = "https://raw.githubusercontent.com/simple-icons/simple-icons/refs/heads/develop/data/simple-icons.json"

// SimpleIconsSource источник брендов из каталога Simple Icons.
// Каталог курируется вручную, поэтому это источник наивысшего доверия:
// его вклад определяет подмножество high_confidence итоговой базы.
type SimpleIconsSource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// SimpleIconsConfig конфигурация источника Simple Icons.
type SimpleIconsConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
}

// NewSimpleIconsSource создает новый источник Simple Icons.
func NewSimpleIconsSource(config SimpleIconsConfig) *SimpleIconsSource {
	if config.BaseURL == "" {
		config.BaseURL = defaultSimpleIconsURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(time.Second)
	}

	return &SimpleIconsSource{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
	}
}

// Descriptor возвращает описание источника.
func (s *SimpleIconsSource) Descriptor() Descriptor {
	return Descriptor{
		Name:    NameSimpleIcons,
		URL:     "https://github.com/simple-icons/simple-icons",
		License: "CC0 1.0",
	}
}

// simpleIcon запись каталога simple-icons.json.
type simpleIcon struct {
	Title   string `json:"title"`
	Aliases struct {
		Aka []string `json:"aka"`
	} `json:"aliases"`
}

// Fetch загружает каталог и извлекает названия брендов и их алиасы.
func (s *SimpleIconsSource) Fetch(ctx context.Context) (map[string]struct{}, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var icons []simpleIcon
	if err := json.NewDecoder(resp.Body).Decode(&icons); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	brands := make(map[string]struct{})
	for _, icon := range icons {
		title := strings.TrimSpace(icon.Title)
		if title != "" {
			brands[title] = struct{}{}
		}
		for _, alias := range icon.Aliases.Aka {
			alias = strings.TrimSpace(alias)
			if alias != "" {
				brands[alias] = struct{}{}
			}
		}
	}

	return brands, nil
}
