package report

import (
	"bytes"
	"fmt"
	"time"

	"vigia-data/internal/domain"
	"vigia-data/internal/ranking"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ComparisonHeader 对比导出表头
var ComparisonHeader = []string{
	"Código",
	"Nombre",
	"Distrito",
	"Nivel de Riesgo",
	"Puntaje de Riesgo",
	"Nivel de Amenaza",
	"Nivel de Vulnerabilidad",
	"Accesos %",
	"Entorno %",
	"Iluminación %",
	"Perímetro %",
	"Medios de Protección %",
	"Medios Tecnológicos %",
}

func newHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// GenerateWorkbook 生成单处住宅的 xlsx 评估报告。
// image 可以为 nil（照片拉取失败时降级为无照片的报告）。
func GenerateWorkbook(r domain.Residence, image []byte, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Reporte"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 45)

	row := 1
	setSection := func(title string) {
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheetName, cell, title)
		f.SetCellStyle(sheetName, cell, fmt.Sprintf("B%d", row), headerStyle)
		f.MergeCell(sheetName, cell, fmt.Sprintf("B%d", row))
		row++
	}
	setPair := func(label string, value interface{}) {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), value)
		row++
	}

	setSection("REPORTE DE EVALUACIÓN DE SEGURIDAD")
	setPair("Código", r.ID)
	setPair("Nombre", r.Name)
	setPair("Dirección", r.Address)
	setPair("Distrito", domain.DistrictOf(r.Address))
	setPair("Fecha de Evaluación", r.EvaluationDate)
	row++

	setSection("CALIFICACIÓN GENERAL")
	setPair("Nivel de Riesgo", r.RiskLevel)
	setPair("Puntaje de Riesgo", fmt.Sprintf("%d/100", r.RiskScore))
	setPair("Nivel de Amenaza", fmt.Sprintf("%d/100", r.ThreatLevel))
	setPair("Nivel de Vulnerabilidad", fmt.Sprintf("%d/100", r.VulnerabilityLevel))
	row++

	setSection("DETALLE DE VULNERABILIDADES")
	setPair("Accesos", fmt.Sprintf("%d%%", r.Accesos))
	setPair("Entorno", fmt.Sprintf("%d%%", r.Entorno))
	setPair("Iluminación", fmt.Sprintf("%d%%", r.Iluminacion))
	setPair("Perímetro", fmt.Sprintf("%d%%", r.Perimetro))
	setPair("Medios de Protección", fmt.Sprintf("%d%%", r.MediosProteccion))
	setPair("Medios Tecnológicos", fmt.Sprintf("%d%%", r.MediosTecnologicos))
	row++

	setSection("CONTACTOS DE EMERGENCIA")
	setPair("Policía", r.EmergencyContacts.Police)
	setPair("Bomberos", r.EmergencyContacts.Fire)
	setPair("Ambulancia", r.EmergencyContacts.Ambulance)
	row++

	if len(image) > 0 {
		if err := f.AddPictureFromBytes(sheetName, fmt.Sprintf("A%d", row), &excelize.Picture{
			Extension: ".jpg",
			File:      image,
			Format:    &excelize.GraphicOptions{ScaleX: 0.5, ScaleY: 0.5},
		}); err != nil {
			// 照片嵌入失败不阻断报告生成
			row++
		} else {
			row += 16
		}
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("Reporte generado el %s", generatedAt.Format("2006-01-02 15:04:05")))

	if err := f.SetDocProps(&excelize.DocProperties{
		Identifier: uuid.NewString(),
		Title:      fmt.Sprintf("Reporte de seguridad %s", r.ID),
		Created:    generatedAt.Format(time.RFC3339),
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}

// GenerateComparison 生成整个视图的对比 xlsx（每行一处住宅）
func GenerateComparison(view []domain.Residence, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Comparativa"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range ComparisonHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, r := range view {
		values := []interface{}{
			r.ID,
			r.Name,
			domain.DistrictOf(r.Address),
			r.RiskLevel,
			r.RiskScore,
			r.ThreatLevel,
			r.VulnerabilityLevel,
			r.Accesos,
			r.Entorno,
			r.Iluminacion,
			r.Perimetro,
			r.MediosProteccion,
			r.MediosTecnologicos,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	// 底部追加视图统计
	stats := ranking.Compute(view)
	if stats.Count > 0 {
		row := len(view) + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Promedio de Riesgo")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), stats.AvgRisk)
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row+1), "Rango")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row+1), fmt.Sprintf("%d-%d", stats.MinRisk, stats.MaxRisk))
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}
