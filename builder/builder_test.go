package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branddb/classification"
	"branddb/normalization"
	"branddb/sources"
)

// stubSource источник с фиксированным ответом или ошибкой
type stubSource struct {
	descriptor sources.Descriptor
	names      []string
	err        error
}

func (s *stubSource) Descriptor() sources.Descriptor {
	return s.descriptor
}

func (s *stubSource) Fetch(ctx context.Context) (map[string]struct{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]struct{}, len(s.names))
	for _, name := range s.names {
		out[name] = struct{}{}
	}
	return out, nil
}

func newStubSource(name string, names []string, err error) *stubSource {
	return &stubSource{
		descriptor: sources.Descriptor{
			Name:    name,
			URL:     "https://example.com/" + name,
			License: "CC0 1.0",
		},
		names: names,
		err:   err,
	}
}

func newTestClassifier(terms []string) *classification.Classifier {
	return classification.NewClassifier(
		normalization.NewNormalizer(nil),
		classification.NewExclusionSet(terms),
		classification.DefaultThresholds(),
	)
}

// TestBuilder_Build проверяет сквозную сборку базы из двух источников
func TestBuilder_Build(t *testing.T) {
	trusted := newStubSource("trusted", []string{"Salesforce", "Acme Corp", "IBM"}, nil)
	secondary := newStubSource("secondary", []string{"Salesforce", "Widgetco", "ab"}, nil)

	b := New(Config{
		Sources:       []sources.Source{trusted, secondary},
		Classifier:    newTestClassifier([]string{"ibm"}),
		TrustedSource: "trusted",
		IgnoredTerms:  []string{"ibm"},
	})

	db, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme", "Acme Corp", "Salesforce", "Widgetco"}, db.Brands)
	// "Acme" — нормализованная форма, в сыром вкладе доверенного источника
	// ее нет, поэтому в high_confidence попадают только сырые названия
	assert.Equal(t, []string{"Acme Corp", "Salesforce"}, db.HighConfidence)

	assert.Equal(t, Version, db.Meta.Version)
	assert.NotEmpty(t, db.Meta.BuildID)
	assert.NotEmpty(t, db.Meta.GeneratedAt)
	assert.Equal(t, 5, db.Meta.TotalRaw)
	assert.Equal(t, len(db.Brands), db.Meta.TotalFiltered)
	assert.Equal(t, []string{"ibm"}, db.Meta.IgnoredTerms)

	require.Len(t, db.Meta.Sources, 2)
	assert.Equal(t, "trusted", db.Meta.Sources[0].Name)
	assert.Equal(t, 3, db.Meta.Sources[0].Count)
	assert.Equal(t, "secondary", db.Meta.Sources[1].Name)
	assert.Equal(t, 3, db.Meta.Sources[1].Count)
}

// TestBuilder_FailedSource проверяет деградацию при отказе источника:
// сборка продолжается, счетчик отказавшего источника равен нулю
func TestBuilder_FailedSource(t *testing.T) {
	failed := newStubSource("broken", nil, errors.New("connection refused"))
	healthy := newStubSource("healthy", []string{"Widgetco"}, nil)

	b := New(Config{
		Sources:       []sources.Source{failed, healthy},
		Classifier:    newTestClassifier(nil),
		TrustedSource: "broken",
	})

	db, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Widgetco"}, db.Brands)
	assert.Empty(t, db.HighConfidence)
	assert.Equal(t, 0, db.Meta.Sources[0].Count)
	assert.Equal(t, 1, db.Meta.Sources[1].Count)
}

// TestBuilder_AllSourcesFailed проверяет вырожденный случай: все источники
// отказали, получается пустая, но корректная база
func TestBuilder_AllSourcesFailed(t *testing.T) {
	b := New(Config{
		Sources: []sources.Source{
			newStubSource("first", nil, errors.New("timeout")),
			newStubSource("second", nil, errors.New("bad response")),
		},
		Classifier:    newTestClassifier(nil),
		TrustedSource: "first",
	})

	db, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Empty(t, db.Brands)
	assert.Empty(t, db.HighConfidence)
	assert.Equal(t, 0, db.Meta.TotalRaw)
	assert.Equal(t, 0, db.Meta.TotalFiltered)
}

// TestBuilder_Invariants проверяет инварианты экспортируемой структуры
func TestBuilder_Invariants(t *testing.T) {
	trusted := newStubSource("trusted", []string{
		"Salesforce", "Acme Corp", "Stripe Inc.", "ACME", "12-34", "Umbrella Corporation",
	}, nil)
	secondary := newStubSource("secondary", []string{
		"Widgetco", "Globex LLC", "ab", "Salesforce",
	}, nil)

	b := New(Config{
		Sources:       []sources.Source{trusted, secondary},
		Classifier:    newTestClassifier([]string{"stripe"}),
		TrustedSource: "trusted",
		IgnoredTerms:  []string{"stripe"},
	})

	db, err := b.Build(context.Background())
	require.NoError(t, err)

	// Сортировка строгая и без дубликатов
	assert.True(t, sort.StringsAreSorted(db.Brands))
	seen := make(map[string]struct{})
	for _, brand := range db.Brands {
		_, dup := seen[brand]
		assert.False(t, dup, "duplicate brand %q", brand)
		seen[brand] = struct{}{}
	}

	// high_confidence всегда подмножество brands
	assert.True(t, sort.StringsAreSorted(db.HighConfidence))
	for _, brand := range db.HighConfidence {
		assert.Contains(t, db.Brands, brand)
	}

	// Счетчики метаданных согласованы с коллекциями
	assert.Equal(t, len(db.Brands), db.Meta.TotalFiltered)
	assert.Equal(t, 9, db.Meta.TotalRaw)

	// Все принятые записи проходят пороги фильтрации
	for _, brand := range db.Brands {
		assert.Greater(t, len(brand), 2)
	}
}

// TestBuilder_OrderIndependent проверяет, что порядок выдачи источников
// не влияет на результат
func TestBuilder_OrderIndependent(t *testing.T) {
	names := []string{"Salesforce", "Acme Corp", "Widgetco", "Globex LLC", "Initech"}
	reversed := make([]string, len(names))
	for i, name := range names {
		reversed[len(names)-1-i] = name
	}

	build := func(order []string) *BrandDatabase {
		b := New(Config{
			Sources:       []sources.Source{newStubSource("only", order, nil)},
			Classifier:    newTestClassifier(nil),
			TrustedSource: "only",
			Workers:       3,
		})
		db, err := b.Build(context.Background())
		require.NoError(t, err)
		return db
	}

	first := build(names)
	second := build(reversed)

	assert.Equal(t, first.Brands, second.Brands)
	assert.Equal(t, first.HighConfidence, second.HighConfidence)
}

// TestBuilder_CancelledContext проверяет, что отмена сборки не дает
// частичного результата
func TestBuilder_CancelledContext(t *testing.T) {
	b := New(Config{
		Sources:       []sources.Source{newStubSource("only", []string{"Salesforce"}, nil)},
		Classifier:    newTestClassifier(nil),
		TrustedSource: "only",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db, err := b.Build(ctx)
	assert.Nil(t, db)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestAggregator_Union проверяет схлопывание дубликатов между источниками
func TestAggregator_Union(t *testing.T) {
	agg := NewAggregator().Aggregate(context.Background(), []sources.Source{
		newStubSource("a", []string{"Salesforce", "Widgetco"}, nil),
		newStubSource("b", []string{"Salesforce", "Initech"}, nil),
	}, "a")

	assert.Len(t, agg.Union, 3)
	assert.Len(t, agg.Trusted, 2)
	assert.Contains(t, agg.Trusted, "Widgetco")
	assert.NotContains(t, agg.Trusted, "Initech")
}

// TestAggregator_NoTrustedSource проверяет работу без доверенного источника
func TestAggregator_NoTrustedSource(t *testing.T) {
	agg := NewAggregator().Aggregate(context.Background(), []sources.Source{
		newStubSource("a", []string{"Salesforce"}, nil),
	}, "")

	assert.Len(t, agg.Union, 1)
	assert.Empty(t, agg.Trusted)
}

// BenchmarkBuilder_Build измеряет сборку на сгенерированном корпусе
func BenchmarkBuilder_Build(b *testing.B) {
	gofakeit.Seed(0)

	names := make([]string, 0, 10000)
	for i := 0; i < 10000; i++ {
		names = append(names, gofakeit.Company())
	}

	builder := New(Config{
		Sources:       []sources.Source{newStubSource("bench", names, nil)},
		Classifier:    newTestClassifier(nil),
		TrustedSource: "bench",
		Workers:       8,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Build(context.Background()); err != nil {
			b.Fatalf("build failed: %v", err)
		}
	}
}

// BenchmarkClassifyUnion измеряет масштабирование пула воркеров
func BenchmarkClassifyUnion(b *testing.B) {
	gofakeit.Seed(0)

	union := make(map[string]struct{}, 50000)
	for i := 0; i < 50000; i++ {
		union[fmt.Sprintf("%s %d", gofakeit.Company(), i)] = struct{}{}
	}

	for _, workers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			builder := New(Config{
				Classifier: newTestClassifier(nil),
				Workers:    workers,
			})
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				builder.classifyUnion(union)
			}
		})
	}
}
