// Package container собирает компоненты сборщика из конфигурации.
package container

import (
	"fmt"

	"branddb/builder"
	"branddb/classification"
	"branddb/internal/config"
	"branddb/normalization"
	"branddb/sources"
)

// BuildBuilder создает сборщик базы брендов по конфигурации:
// нормализатор, множество исключений, классификатор и включенные источники.
func BuildBuilder(cfg *config.Config) (*builder.Builder, error) {
	normalizer := normalization.NewNormalizer(cfg.Suffixes)
	exclusions := classification.NewExclusionSet(cfg.IgnoredTerms)
	classifier := classification.NewClassifier(normalizer, exclusions, classification.Thresholds{
		MinNameLength:    cfg.MinNameLength,
		MaxAcronymLength: cfg.MaxAcronymLength,
	})

	var srcs []sources.Source
	for _, sourceCfg := range cfg.EnabledSources() {
		source, err := sources.New(sources.Spec{
			Name:    sourceCfg.Name,
			URL:     sourceCfg.URL,
			Timeout: cfg.FetchTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create source: %w", err)
		}
		srcs = append(srcs, source)
	}

	return builder.New(builder.Config{
		Sources:       srcs,
		Classifier:    classifier,
		TrustedSource: cfg.TrustedSource(),
		IgnoredTerms:  exclusions.Terms(),
		Workers:       cfg.BuildWorkers,
	}), nil
}
