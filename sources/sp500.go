package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const defaultSP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// SP500Source источник названий компаний из таблицы состава индекса
// S&P 500 на Википедии. Дополняет каталоги крупными публичными
// компаниями, которых нет в Simple Icons.
type SP500Source struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// SP500Config конфигурация источника S&P 500.
type SP500Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
}

// NewSP500Source создает новый источник S&P 500.
func NewSP500Source(config SP500Config) *SP500Source {
	if config.BaseURL == "" {
		config.BaseURL = defaultSP500URL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(time.Second)
	}

	return &SP500Source{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
	}
}

// Descriptor возвращает описание источника.
func (s *SP500Source) Descriptor() Descriptor {
	return Descriptor{
		Name:    NameSP500,
		URL:     defaultSP500URL,
		License: "CC BY-SA 4.0",
	}
}

// Fetch загружает страницу и извлекает колонку Security из первой
// wikitable-таблицы (состав индекса).
func (s *SP500Source) Fetch(ctx context.Context) (map[string]struct{}, error) {
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

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	brands := make(map[string]struct{})
	doc.Find("table.wikitable").First().Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			// Строка заголовка
			return
		}
		name := strings.TrimSpace(cells.Eq(1).Text())
		if name != "" {
			brands[name] = struct{}{}
		}
	})

	if len(brands) == 0 {
		return nil, fmt.Errorf("no constituents table found at %s", s.baseURL)
	}

	return brands, nil
}
