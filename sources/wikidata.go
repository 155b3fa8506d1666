package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultWikidataURL = "https://query.wikidata.org/sparql"

// wikidataQuery выбирает организации с логотипом (наличие логотипа служит
// косвенным признаком значимости). Лимит 10000 — ограничение SPARQL-эндпоинта.
const wikidataQuery = `
SELECT DISTINCT ?itemLabel ?alias WHERE {
  ?item wdt:P31/wdt:P279* wd:Q4830453 .
  ?item wdt:P154 ?logo .
  OPTIONAL { ?item skos:altLabel ?alias FILTER(LANG(?alias) = "en") }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
LIMIT 10000
`

// WikidataSource источник брендов из Wikidata через SPARQL-эндпоинт.
// Каталог широкий, но шумный: его записи проходят ту же фильтрацию,
// что и остальные, и не участвуют в high_confidence.
type WikidataSource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// WikidataConfig конфигурация источника Wikidata.
type WikidataConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
}

// NewWikidataSource создает новый источник Wikidata.
func NewWikidataSource(config WikidataConfig) *WikidataSource {
	if config.BaseURL == "" {
		config.BaseURL = defaultWikidataURL
	}
	if config.Timeout == 0 {
		// SPARQL-запрос может выполняться до минуты
		config.Timeout = 90 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(time.Second)
	}

	return &WikidataSource{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
	}
}

// Descriptor возвращает описание источника.
func (s *WikidataSource) Descriptor() Descriptor {
	return Descriptor{
		Name:    NameWikidata,
		URL:     "https://www.wikidata.org",
		License: "CC0 1.0",
	}
}

// wikidataResponse ответ SPARQL-эндпоинта в формате JSON.
type wikidataResponse struct {
	Results struct {
		Bindings []map[string]wikidataValue `json:"bindings"`
	} `json:"results"`
}

type wikidataValue struct {
	Value string `json:"value"`
}

// Fetch выполняет SPARQL-запрос и извлекает основные названия и алиасы.
func (s *WikidataSource) Fetch(ctx context.Context) (map[string]struct{}, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	params := url.Values{}
	params.Add("format", "json")
	params.Add("query", wikidataQuery)

	fullURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
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

	var result wikidataResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	brands := make(map[string]struct{})
	for _, binding := range result.Results.Bindings {
		if item, ok := binding["itemLabel"]; ok {
			label := strings.TrimSpace(item.Value)
			if label != "" {
				brands[label] = struct{}{}
			}
		}
		if alias, ok := binding["alias"]; ok {
			// Алиасы приходят одной строкой через запятую
			for _, part := range strings.Split(alias.Value, ",") {
				part = strings.TrimSpace(part)
				if part != "" {
					brands[part] = struct{}{}
				}
			}
		}
	}

	return brands, nil
}
