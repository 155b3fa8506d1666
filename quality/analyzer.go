// Package quality содержит пост-сборочный аудит базы брендов. Отчет
// носит рекомендательный характер и никогда не изменяет принятое
// множество: он лишь подсвечивает записи, которые могут давать ложные
// срабатывания у потребителей.
package quality

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kljensen/snowball"

	"branddb/builder"
)

// StemCollision принятый бренд, основа которого совпадает с основой
// термина из множества исключений. Такой бренд формально прошел
// фильтрацию, но близок к словарному слову.
type StemCollision struct {
	Brand string `json:"brand"`
	Term  string `json:"term"`
	Stem  string `json:"stem"`
}

// Report итог аудита собранной базы.
type Report struct {
	TotalBrands    int             `json:"total_brands"`
	HighConfidence int             `json:"high_confidence"`
	SingleWord     int             `json:"single_word"`
	AllCaps        int             `json:"all_caps"`
	StemCollisions []StemCollision `json:"stem_collisions"`
}

// Analyzer анализатор качества базы брендов. Основы слов кэшируются,
// поэтому повторные вызовы Analyze дешевы.
type Analyzer struct {
	language string
	mu       sync.RWMutex
	cache    map[string]string
}

// NewAnalyzer создает новый анализатор для английского языка.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		language: "english",
		cache:    make(map[string]string),
	}
}

// Analyze строит отчет по собранной базе.
func (a *Analyzer) Analyze(db *builder.BrandDatabase) *Report {
	report := &Report{
		TotalBrands:    len(db.Brands),
		HighConfidence: len(db.HighConfidence),
		StemCollisions: []StemCollision{},
	}

	// Основа -> исходный термин исключений; многословные термины
	// в стемминге не участвуют
	termStems := make(map[string]string, len(db.Meta.IgnoredTerms))
	for _, term := range db.Meta.IgnoredTerms {
		if strings.ContainsRune(term, ' ') {
			continue
		}
		termStems[a.stem(term)] = term
	}

	for _, brand := range db.Brands {
		if isAllCaps(brand) {
			report.AllCaps++
		}
		if strings.ContainsRune(strings.TrimSpace(brand), ' ') {
			continue
		}
		report.SingleWord++

		stem := a.stem(brand)
		if term, ok := termStems[stem]; ok {
			report.StemCollisions = append(report.StemCollisions, StemCollision{
				Brand: brand,
				Term:  term,
				Stem:  stem,
			})
		}
	}

	sort.Slice(report.StemCollisions, func(i, j int) bool {
		return report.StemCollisions[i].Brand < report.StemCollisions[j].Brand
	})

	return report
}

// stem возвращает основу слова с кэшированием. При ошибке стеммера
// возвращается слово в нижнем регистре.
func (a *Analyzer) stem(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	a.mu.RLock()
	if cached, found := a.cache[normalized]; found {
		a.mu.RUnlock()
		return cached
	}
	a.mu.RUnlock()

	stemmed, err := snowball.Stem(normalized, a.language, true)
	if err != nil {
		stemmed = normalized
	}

	a.mu.Lock()
	a.cache[normalized] = stemmed
	a.mu.Unlock()

	return stemmed
}

// isAllCaps сообщает, записан ли бренд целиком в верхнем регистре.
func isAllCaps(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
