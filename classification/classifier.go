package classification

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Thresholds настраиваемые пороги классификатора. Точные границы влияют
// на результат классификации, поэтому они вынесены в конфигурацию,
// а не зашиты в код.
type Thresholds struct {
	// MinNameLength названия с длиной не больше этого значения отклоняются.
	MinNameLength int
	// MaxAcronymLength названия целиком в верхнем регистре длиннее этого
	// значения считаются акронимами и отклоняются.
	MaxAcronymLength int
}

// DefaultThresholds возвращает исторические значения порогов.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinNameLength:    2,
		MaxAcronymLength: 5,
	}
}

// NameNormalizer интерфейс нормализатора названий.
// Используется для улучшения тестируемости и возможности замены реализации.
type NameNormalizer interface {
	Normalize(raw string) string
}

// Classifier решает, попадает ли сырое название в итоговую базу брендов.
// Классификация одного названия не зависит от других, поэтому Classify
// безопасно вызывать из нескольких горутин.
type Classifier struct {
	normalizer NameNormalizer
	exclusions *ExclusionSet
	thresholds Thresholds
}

// NewClassifier создает новый классификатор.
func NewClassifier(normalizer NameNormalizer, exclusions *ExclusionSet, thresholds Thresholds) *Classifier {
	if thresholds.MinNameLength <= 0 {
		thresholds.MinNameLength = DefaultThresholds().MinNameLength
	}
	if thresholds.MaxAcronymLength <= 0 {
		thresholds.MaxAcronymLength = DefaultThresholds().MaxAcronymLength
	}
	return &Classifier{
		normalizer: normalizer,
		exclusions: exclusions,
		thresholds: thresholds,
	}
}

// Classify применяет цепочку отсекающих предикатов к нормализованной форме
// названия. Первый сработавший предикат отклоняет название:
//
//  1. пустая строка после очистки;
//  2. принадлежность множеству исключений (без учета регистра);
//  3. длина не больше MinNameLength;
//  4. верхний регистр целиком при длине больше MaxAcronymLength;
//  5. только цифры после удаления '.' и '-'.
//
// Принятое название дает сырую форму, а также нормализованную, если она
// отличается: потребители ищут как по полному юридическому названию, так
// и по короткой форме, поэтому обе записи попадают в базу намеренно.
func (c *Classifier) Classify(raw string) []string {
	normalized := c.normalizer.Normalize(raw)

	if normalized == "" {
		return nil
	}
	if c.exclusions.Contains(normalized) {
		return nil
	}
	if utf8.RuneCountInString(normalized) <= c.thresholds.MinNameLength {
		return nil
	}
	if isAllUpper(normalized) && utf8.RuneCountInString(normalized) > c.thresholds.MaxAcronymLength {
		return nil
	}
	if isNumericOnly(normalized) {
		return nil
	}

	if normalized != raw {
		return []string{raw, normalized}
	}
	return []string{raw}
}

// isAllUpper сообщает, записана ли строка целиком в верхнем регистре:
// есть хотя бы одна буква и ни одной строчной.
func isAllUpper(s string) bool {
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

// isNumericOnly сообщает, состоит ли строка только из цифр после удаления
// точек и дефисов. Строка, ставшая пустой после удаления, цифровой
// не считается.
func isNumericOnly(s string) bool {
	stripped := strings.NewReplacer(".", "", "-", "").Replace(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
