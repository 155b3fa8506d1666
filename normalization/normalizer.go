package normalization

import "strings"

// defaultSuffixes упорядоченная таблица корпоративных суффиксов.
// Порядок важен: применяется первая совпавшая запись, поэтому варианты
// с точкой стоят раньше вариантов без точки.
var defaultSuffixes = []string{
	" Inc.", " Inc", " LLC", " Ltd.", " Ltd", " Corp.", " Corp",
	" Corporation", " Company", " Co.", " Co", " Group", " Holdings",
	" Enterprises", " International", " Global", " AG", " GmbH", " SA",
}

// DefaultSuffixes возвращает копию стандартной таблицы суффиксов.
func DefaultSuffixes() []string {
	suffixes := make([]string, len(defaultSuffixes))
	copy(suffixes, defaultSuffixes)
	return suffixes
}

// Normalizer приводит название компании к канонической короткой форме,
// удаляя завершающий корпоративный суффикс.
type Normalizer struct {
	suffixes []string
}

// NewNormalizer создает новый нормализатор. При пустой таблице суффиксов
// используется стандартная.
func NewNormalizer(suffixes []string) *Normalizer {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes()
	}
	owned := make([]string, len(suffixes))
	copy(owned, suffixes)
	return &Normalizer{suffixes: owned}
}

// Normalize удаляет не более одного завершающего суффикса из названия.
// Суффикс должен совпасть целиком, включая ведущий разделитель, поэтому
// "Zinc" не теряет " Inc". Совпадение останавливается на первой записи
// таблицы, даже если после удаления открывается следующий суффикс.
// Результат очищается от краевых пробелов. Чистая функция без ошибок.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := raw
	for _, suffix := range n.suffixes {
		if strings.HasSuffix(cleaned, suffix) {
			cleaned = cleaned[:len(cleaned)-len(suffix)]
			break
		}
	}
	return strings.TrimSpace(cleaned)
}
