package classification

import (
	"sort"

	"golang.org/x/text/cases"
)

// defaultIgnoredTerms термины, которые никогда не считаются отличительными
// названиями брендов: словарные слова, совпадающие с брендами, общие
// технические термины, корпоративные аббревиатуры и слишком короткие
// акронимы, дающие ложные срабатывания.
var defaultIgnoredTerms = []string{
	// Словарные слова, совпадающие с названиями брендов
	"target", "apple", "amazon", "oracle", "slack", "notion", "monday",
	"buffer", "stripe", "square", "uber", "lyft", "zoom", "nest",
	"ring", "hive", "mint", "plaid", "segment", "braze", "amplitude",

	// Общие технические термины
	"api", "cloud", "data", "analytics", "platform", "system", "software",
	"service", "solution", "app", "tech", "digital", "online", "web",

	// Корпоративные суффиксы (обрабатываются отдельно нормализатором)
	"inc", "llc", "ltd", "corp", "corporation", "company", "co",
	"group", "holdings", "enterprises", "international", "global",

	// Короткие акронимы (1-3 буквы часто дают ложные срабатывания)
	"hp", "ge", "lg", "ea", "ibm", "sap", "aws", "gcp",
}

// DefaultIgnoredTerms возвращает копию стандартного списка исключений.
func DefaultIgnoredTerms() []string {
	terms := make([]string, len(defaultIgnoredTerms))
	copy(terms, defaultIgnoredTerms)
	return terms
}

// ExclusionSet неизменяемое множество терминов с регистронезависимой
// проверкой принадлежности. Создается один раз на сборку и не мутирует.
type ExclusionSet struct {
	keys  map[string]struct{}
	terms []string
}

// NewExclusionSet создает новое множество исключений. При пустом списке
// используется стандартный. Дубликаты (с учетом регистра) схлопываются.
func NewExclusionSet(terms []string) *ExclusionSet {
	if len(terms) == 0 {
		terms = DefaultIgnoredTerms()
	}

	set := &ExclusionSet{
		keys: make(map[string]struct{}, len(terms)),
	}
	for _, term := range terms {
		key := foldKey(term)
		if key == "" {
			continue
		}
		if _, exists := set.keys[key]; exists {
			continue
		}
		set.keys[key] = struct{}{}
		set.terms = append(set.terms, key)
	}
	sort.Strings(set.terms)
	return set
}

// Contains проверяет принадлежность термина множеству без учета регистра.
func (s *ExclusionSet) Contains(name string) bool {
	_, exists := s.keys[foldKey(name)]
	return exists
}

// Terms возвращает отсортированную копию содержимого множества.
func (s *ExclusionSet) Terms() []string {
	terms := make([]string, len(s.terms))
	copy(terms, s.terms)
	return terms
}

// Len возвращает количество терминов в множестве.
func (s *ExclusionSet) Len() int {
	return len(s.keys)
}

// foldKey приводит термин к регистронезависимому ключу.
// cases.Caser хранит внутреннее состояние, поэтому создается на каждый вызов.
func foldKey(term string) string {
	return cases.Fold().String(term)
}
