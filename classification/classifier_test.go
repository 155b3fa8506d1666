package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"branddb/normalization"
)

func newTestClassifier(terms []string, suffixes []string) *Classifier {
	return NewClassifier(
		normalization.NewNormalizer(suffixes),
		NewExclusionSet(terms),
		DefaultThresholds(),
	)
}

// TestClassifier_Scenario проверяет сквозной сценарий фильтрации
func TestClassifier_Scenario(t *testing.T) {
	classifier := newTestClassifier([]string{"ibm"}, []string{" Corp"})

	raw := []string{"Salesforce", "IBM", "ab", "Acme Corp", "ACME", "12-34"}

	accepted := make(map[string]struct{})
	for _, name := range raw {
		for _, entry := range classifier.Classify(name) {
			accepted[entry] = struct{}{}
		}
	}

	// "IBM" отклонен множеством исключений, "ab" длиной, "12-34" как число.
	// "ACME" (4 символа) переживает проверку на акроним: порог равен 5.
	// "Acme Corp" дает обе формы: сырую и нормализованную.
	expected := map[string]struct{}{
		"Salesforce": {},
		"Acme Corp":  {},
		"Acme":       {},
		"ACME":       {},
	}
	assert.Equal(t, expected, accepted)
}

// TestClassifier_EmptyRejected проверяет отклонение пустых названий
func TestClassifier_EmptyRejected(t *testing.T) {
	classifier := newTestClassifier(nil, nil)

	assert.Empty(t, classifier.Classify(""))
	assert.Empty(t, classifier.Classify("   "))
	// Название, состоящее из одного суффикса, нормализуется в пустую строку
	assert.Empty(t, classifier.Classify(" Inc"))
}

// TestClassifier_ExclusionCaseInsensitive проверяет отклонение терминов
// из множества исключений независимо от регистра
func TestClassifier_ExclusionCaseInsensitive(t *testing.T) {
	classifier := newTestClassifier([]string{"target"}, nil)

	assert.Empty(t, classifier.Classify("Target"))
	assert.Empty(t, classifier.Classify("TARGET"))
	assert.Empty(t, classifier.Classify("target"))
	assert.NotEmpty(t, classifier.Classify("Targetify"))
}

// TestClassifier_ExclusionAppliesToNormalized проверяет, что исключения
// проверяются по нормализованной форме
func TestClassifier_ExclusionAppliesToNormalized(t *testing.T) {
	classifier := newTestClassifier([]string{"apple"}, []string{" Inc."})

	// "Apple Inc." нормализуется в "Apple", который входит в исключения
	assert.Empty(t, classifier.Classify("Apple Inc."))
}

// TestClassifier_ShortNamesRejected проверяет порог минимальной длины
func TestClassifier_ShortNamesRejected(t *testing.T) {
	classifier := newTestClassifier(nil, nil)

	assert.Empty(t, classifier.Classify("ab"))
	assert.Empty(t, classifier.Classify("hp"))
	assert.Empty(t, classifier.Classify("x"))
	// Три символа — уже достаточно
	assert.Equal(t, []string{"abc"}, classifier.Classify("abc"))
}

// TestClassifier_AcronymBoundary фиксирует точную границу эвристики
// акронимов: 5 символов верхнего регистра проходят, 6 — нет
func TestClassifier_AcronymBoundary(t *testing.T) {
	classifier := newTestClassifier(nil, nil)

	assert.Equal(t, []string{"ABCDE"}, classifier.Classify("ABCDE"))
	assert.Empty(t, classifier.Classify("ABCDEF"))

	// Смешанный регистр не считается акронимом независимо от длины
	assert.Equal(t, []string{"Abcdef"}, classifier.Classify("Abcdef"))
	assert.Equal(t, []string{"AbCdEfGh"}, classifier.Classify("AbCdEfGh"))
}

// TestClassifier_CustomThresholds проверяет перенастройку порогов
func TestClassifier_CustomThresholds(t *testing.T) {
	classifier := NewClassifier(
		normalization.NewNormalizer(nil),
		NewExclusionSet([]string{"ibm"}),
		Thresholds{MinNameLength: 3, MaxAcronymLength: 4},
	)

	// При пороге 3 четырехсимвольные названия еще проходят
	assert.Empty(t, classifier.Classify("abc"))
	assert.NotEmpty(t, classifier.Classify("abcd"))

	// При пороге акронима 4 "ABCDE" уже отклоняется
	assert.Empty(t, classifier.Classify("ABCDE"))
	assert.NotEmpty(t, classifier.Classify("ABCD"))
}

// TestClassifier_NumericRejected проверяет отклонение числовых названий
func TestClassifier_NumericRejected(t *testing.T) {
	classifier := newTestClassifier(nil, nil)

	assert.Empty(t, classifier.Classify("12-34"))
	assert.Empty(t, classifier.Classify("3.1415"))
	assert.Empty(t, classifier.Classify("123456"))
	// Цифры с буквами — не число
	assert.NotEmpty(t, classifier.Classify("Area51"))
	assert.NotEmpty(t, classifier.Classify("7-Eleven"))
}

// TestClassifier_BothFormsRetained проверяет сохранение сырой и
// нормализованной форм, когда они различаются
func TestClassifier_BothFormsRetained(t *testing.T) {
	classifier := newTestClassifier(nil, nil)

	entries := classifier.Classify("Acme Corp")
	assert.Equal(t, []string{"Acme Corp", "Acme"}, entries)

	// Без суффикса возвращается только одна форма
	entries = classifier.Classify("Salesforce")
	assert.Equal(t, []string{"Salesforce"}, entries)
}

// TestClassifier_OrderIndependent проверяет независимость классификации
// от порядка обработки
func TestClassifier_OrderIndependent(t *testing.T) {
	classifier := newTestClassifier([]string{"ibm"}, nil)

	forward := []string{"Salesforce", "IBM", "Acme Corp", "12-34", "Widgetco"}
	backward := []string{"Widgetco", "12-34", "Acme Corp", "IBM", "Salesforce"}

	collect := func(names []string) map[string]struct{} {
		out := make(map[string]struct{})
		for _, name := range names {
			for _, entry := range classifier.Classify(name) {
				out[entry] = struct{}{}
			}
		}
		return out
	}

	assert.Equal(t, collect(forward), collect(backward))
}
