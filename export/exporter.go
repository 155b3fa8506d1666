// Package export записывает собранную базу брендов на диск в нескольких
// форматах. JSON — канонический артефакт для потребителей; CSV и Excel
// предназначены для ручного аудита.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"branddb/builder"
)

// Format формат экспорта
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// Exporter экспортер базы брендов.
type Exporter struct{}

// NewExporter создает новый экспортер.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export записывает базу в файл в указанном формате.
func (e *Exporter) Export(db *builder.BrandDatabase, filename string, format Format) error {
	switch format {
	case FormatJSON:
		return e.ExportJSON(db, filename)
	case FormatCSV:
		return e.ExportCSV(db, filename)
	case FormatExcel:
		return e.ExportExcel(db, filename)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportJSON записывает базу в JSON с отступами. Структура документа
// повторяет BrandDatabase: meta, brands, high_confidence.
func (e *Exporter) ExportJSON(db *builder.BrandDatabase, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(db); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportCSV записывает список брендов с отметкой высокой уверенности.
func (e *Exporter) ExportCSV(db *builder.BrandDatabase, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"brand", "high_confidence"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	highConfidence := make(map[string]struct{}, len(db.HighConfidence))
	for _, name := range db.HighConfidence {
		highConfidence[name] = struct{}{}
	}

	for _, brand := range db.Brands {
		flag := "false"
		if _, ok := highConfidence[brand]; ok {
			flag = "true"
		}
		if err := writer.Write([]string{brand, flag}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// ExportExcel записывает базу в книгу Excel: лист Brands со списком
// и лист Meta со статистикой источников.
func (e *Exporter) ExportExcel(db *builder.BrandDatabase, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	const brandsSheet = "Brands"
	if err := f.SetSheetName("Sheet1", brandsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	_ = f.SetCellValue(brandsSheet, "A1", "Brand")
	_ = f.SetCellValue(brandsSheet, "B1", "High Confidence")

	highConfidence := make(map[string]struct{}, len(db.HighConfidence))
	for _, name := range db.HighConfidence {
		highConfidence[name] = struct{}{}
	}

	for i, brand := range db.Brands {
		row := i + 2
		_ = f.SetCellValue(brandsSheet, fmt.Sprintf("A%d", row), brand)
		_, ok := highConfidence[brand]
		_ = f.SetCellValue(brandsSheet, fmt.Sprintf("B%d", row), ok)
	}

	const metaSheet = "Meta"
	if _, err := f.NewSheet(metaSheet); err != nil {
		return fmt.Errorf("failed to create meta sheet: %w", err)
	}

	_ = f.SetCellValue(metaSheet, "A1", "Version")
	_ = f.SetCellValue(metaSheet, "B1", db.Meta.Version)
	_ = f.SetCellValue(metaSheet, "A2", "Generated At")
	_ = f.SetCellValue(metaSheet, "B2", db.Meta.GeneratedAt)
	_ = f.SetCellValue(metaSheet, "A3", "Total Raw")
	_ = f.SetCellValue(metaSheet, "B3", db.Meta.TotalRaw)
	_ = f.SetCellValue(metaSheet, "A4", "Total Filtered")
	_ = f.SetCellValue(metaSheet, "B4", db.Meta.TotalFiltered)

	_ = f.SetCellValue(metaSheet, "A6", "Source")
	_ = f.SetCellValue(metaSheet, "B6", "Count")
	_ = f.SetCellValue(metaSheet, "C6", "License")
	for i, source := range db.Meta.Sources {
		row := i + 7
		_ = f.SetCellValue(metaSheet, fmt.Sprintf("A%d", row), source.Name)
		_ = f.SetCellValue(metaSheet, fmt.Sprintf("B%d", row), source.Count)
		_ = f.SetCellValue(metaSheet, fmt.Sprintf("C%d", row), source.License)
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}
