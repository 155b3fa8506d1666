// Package builder собирает итоговую базу брендов: опрашивает источники,
// объединяет их вклады, прогоняет названия через классификатор и
// формирует экспортируемую структуру с метаданными.
package builder

import (
	"context"
	"log/slog"
	"sync"

	"branddb/sources"
)

// SourceStat статистика вклада одного источника. Порядок полей совпадает
// с форматом экспорта.
type SourceStat struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Count   int    `json:"count"`
	License string `json:"license"`
}

// Aggregation результат объединения сырых названий из всех источников.
type Aggregation struct {
	// Union объединение сырых названий всех источников.
	Union map[string]struct{}
	// Trusted сырые названия источника наивысшего доверия. Пустое
	// множество, если доверенный источник не настроен или отказал.
	Trusted map[string]struct{}
	// Stats per-source статистика в порядке конфигурации. Нулевой Count
	// отличает отказавший источник от успешного.
	Stats []SourceStat
}

// Aggregator опрашивает источники параллельно и объединяет их вклады.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator создает новый агрегатор.
func NewAggregator() *Aggregator {
	return &Aggregator{
		logger: slog.Default().With("component", "aggregator"),
	}
}

// Aggregate запускает по горутине на источник, дожидается всех ответов
// и строит объединение. Отказ источника превращается в пустой вклад
// с предупреждением в логе и не прерывает остальные источники.
// Объединение не публикуется, пока не завершены все запросы.
func (a *Aggregator) Aggregate(ctx context.Context, srcs []sources.Source, trustedName string) *Aggregation {
	results := make([]map[string]struct{}, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			names, err := src.Fetch(ctx)
			if err != nil {
				a.logger.Warn("Source fetch failed, continuing with empty contribution",
					"source", src.Descriptor().Name,
					"error", err)
				return
			}
			results[i] = names
		}(i, src)
	}
	wg.Wait()

	agg := &Aggregation{
		Union:   make(map[string]struct{}),
		Trusted: make(map[string]struct{}),
	}

	for i, src := range srcs {
		desc := src.Descriptor()
		names := results[i]

		for name := range names {
			agg.Union[name] = struct{}{}
		}
		if desc.Name == trustedName {
			for name := range names {
				agg.Trusted[name] = struct{}{}
			}
		}

		agg.Stats = append(agg.Stats, SourceStat{
			Name:    desc.Name,
			URL:     desc.URL,
			Count:   len(names),
			License: desc.License,
		})

		a.logger.Info("Source aggregated",
			"source", desc.Name,
			"count", len(names))
	}

	return agg
}
