package builder

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"branddb/sources"
)

// Version версия формата базы брендов.
const Version = "1.0.0"

// generatedAtLayout формат метки времени генерации (ISO-8601 UTC).
const generatedAtLayout = "2006-01-02T15:04:05Z"

// Meta метаданные собранной базы.
type Meta struct {
	Version       string       `json:"version"`
	BuildID       string       `json:"build_id"`
	GeneratedAt   string       `json:"generated_at"`
	Sources       []SourceStat `json:"sources"`
	TotalRaw      int          `json:"total_raw"`
	TotalFiltered int          `json:"total_filtered"`
	IgnoredTerms  []string     `json:"ignored_terms"`
}

// BrandDatabase итоговый экспортируемый артефакт: отсортированный список
// принятых названий, подмножество высокой уверенности и метаданные.
// Список отсортирован лексикографически, что позволяет потребителям
// искать бинарным поиском.
type BrandDatabase struct {
	Meta           Meta     `json:"meta"`
	Brands         []string `json:"brands"`
	HighConfidence []string `json:"high_confidence"`
}

// Classifier интерфейс классификатора брендов.
// Используется для улучшения тестируемости и возможности замены реализации.
type Classifier interface {
	Classify(raw string) []string
}

// Config конфигурация сборщика.
type Config struct {
	// Sources источники в порядке вывода в метаданных.
	Sources []sources.Source
	// Classifier классификатор названий.
	Classifier Classifier
	// TrustedSource имя источника наивысшего доверия; его вклад,
	// прошедший фильтрацию, образует подмножество high_confidence.
	TrustedSource string
	// IgnoredTerms снимок множества исключений для метаданных.
	IgnoredTerms []string
	// Workers количество воркеров классификации, по умолчанию 4.
	Workers int
}

// Builder оркестрирует агрегацию и классификацию. Каждая сборка
// вычисляет базу заново; состояние между запусками не сохраняется.
type Builder struct {
	aggregator    *Aggregator
	classifier    Classifier
	sources       []sources.Source
	trustedSource string
	ignoredTerms  []string
	workers       int
	logger        *slog.Logger
}

// New создает новый сборщик базы брендов.
func New(config Config) *Builder {
	if config.Workers <= 0 {
		config.Workers = 4
	}

	ignored := make([]string, len(config.IgnoredTerms))
	copy(ignored, config.IgnoredTerms)
	sort.Strings(ignored)

	return &Builder{
		aggregator:    NewAggregator(),
		classifier:    config.Classifier,
		sources:       config.Sources,
		trustedSource: config.TrustedSource,
		ignoredTerms:  ignored,
		workers:       config.Workers,
		logger:        slog.Default().With("component", "builder"),
	}
}

// Build собирает базу брендов: агрегация, фильтрация, подмножество
// высокой уверенности, сортировка, метаданные. Отказ отдельных источников
// не прерывает сборку — в пределе получается пустая база. Ошибка
// возвращается только при отмене контекста, чтобы не публиковать
// частичный результат.
func (b *Builder) Build(ctx context.Context) (*BrandDatabase, error) {
	start := time.Now()
	buildID := uuid.New().String()
	b.logger.Info("Starting brand database build", "build_id", buildID, "sources", len(b.sources))

	agg := b.aggregator.Aggregate(ctx, b.sources, b.trustedSource)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accepted := b.classifyUnion(agg.Union)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	brands := make([]string, 0, len(accepted))
	for name := range accepted {
		brands = append(brands, name)
	}
	sort.Strings(brands)

	highConfidence := make([]string, 0)
	for name := range agg.Trusted {
		if _, ok := accepted[name]; ok {
			highConfidence = append(highConfidence, name)
		}
	}
	sort.Strings(highConfidence)

	db := &BrandDatabase{
		Meta: Meta{
			Version:       Version,
			BuildID:       buildID,
			GeneratedAt:   time.Now().UTC().Format(generatedAtLayout),
			Sources:       agg.Stats,
			TotalRaw:      len(agg.Union),
			TotalFiltered: len(accepted),
			IgnoredTerms:  b.ignoredTerms,
		},
		Brands:         brands,
		HighConfidence: highConfidence,
	}

	b.logger.Info("Finished brand database build",
		"build_id", buildID,
		"total_raw", db.Meta.TotalRaw,
		"total_filtered", db.Meta.TotalFiltered,
		"high_confidence", len(db.HighConfidence),
		"duration", time.Since(start))

	return db, nil
}

// classifyUnion прогоняет объединение через классификатор пулом воркеров.
// Классификация названий независима, поэтому общим состоянием остается
// только множество принятых записей под мьютексом.
func (b *Builder) classifyUnion(union map[string]struct{}) map[string]struct{} {
	accepted := make(map[string]struct{})

	jobs := make(chan string, len(union))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				entries := b.classifier.Classify(name)
				if len(entries) == 0 {
					continue
				}
				mu.Lock()
				for _, entry := range entries {
					accepted[entry] = struct{}{}
				}
				mu.Unlock()
			}
		}()
	}

	for name := range union {
		jobs <- name
	}
	close(jobs)
	wg.Wait()

	return accepted
}
