// Package sources содержит поставщиков сырых названий брендов из внешних
// каталогов. Каждый источник опрашивается независимо: его отказ дает пустой
// вклад и не блокирует остальные источники.
package sources

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// userAgent общий User-Agent для запросов к внешним каталогам.
const userAgent = "BrandDBBot/1.0"

// Имена встроенных источников.
const (
	NameSimpleIcons = "Simple Icons"
	NameWikidata    = "Wikidata"
	NameSP500       = "Wikipedia S&P 500"
)

// Descriptor описывает источник: отображаемое имя, URL происхождения
// и лицензию данных. Неизменяем после создания источника.
type Descriptor struct {
	Name    string
	URL     string
	License string
}

// Source контракт поставщика сырых названий. Fetch возвращает множество
// строк; ошибка означает "источник недоступен", а не "брендов нет".
type Source interface {
	Descriptor() Descriptor
	Fetch(ctx context.Context) (map[string]struct{}, error)
}

// Spec параметры создания встроенного источника.
type Spec struct {
	// Name одно из Name* значений.
	Name string
	// URL переопределяет адрес каталога (используется в тестах).
	URL string
	// Timeout таймаут HTTP-запроса, по умолчанию 30 секунд.
	Timeout time.Duration
	// RateLimit лимит запросов, по умолчанию один запрос в секунду.
	RateLimit rate.Limit
}

// New создает встроенный источник по спецификации.
func New(spec Spec) (Source, error) {
	switch spec.Name {
	case NameSimpleIcons:
		return NewSimpleIconsSource(SimpleIconsConfig{
			BaseURL:   spec.URL,
			Timeout:   spec.Timeout,
			RateLimit: spec.RateLimit,
		}), nil
	case NameWikidata:
		return NewWikidataSource(WikidataConfig{
			BaseURL:   spec.URL,
			Timeout:   spec.Timeout,
			RateLimit: spec.RateLimit,
		}), nil
	case NameSP500:
		return NewSP500Source(SP500Config{
			BaseURL:   spec.URL,
			Timeout:   spec.Timeout,
			RateLimit: spec.RateLimit,
		}), nil
	default:
		return nil, fmt.Errorf("unknown source %q", spec.Name)
	}
}
