package report

import (
	"fmt"
	"strings"
	"time"

	"vigia-data/internal/domain"
)

const separatorWidth = 50

// BuildText 生成单处住宅的纯文本安全评估报告。
// Deterministic for a given residence and timestamp; the timestamp is injected
// so exports can be reproduced in tests.
func BuildText(r domain.Residence, generatedAt time.Time) string {
	var b strings.Builder
	line := strings.Repeat("-", separatorWidth)

	b.WriteString("REPORTE DE EVALUACIÓN DE SEGURIDAD\n")
	b.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")
	fmt.Fprintf(&b, "Código: %s\n", r.ID)
	fmt.Fprintf(&b, "Nombre: %s\n", r.Name)
	fmt.Fprintf(&b, "Dirección: %s\n", r.Address)
	fmt.Fprintf(&b, "Fecha de Evaluación: %s\n\n", r.EvaluationDate)

	b.WriteString("CALIFICACIÓN GENERAL\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Nivel de Riesgo: %s\n", strings.ToUpper(r.RiskLevel))
	fmt.Fprintf(&b, "Puntaje de Riesgo: %d/100\n", r.RiskScore)
	fmt.Fprintf(&b, "Nivel de Amenaza: %d/100\n", r.ThreatLevel)
	fmt.Fprintf(&b, "Nivel de Vulnerabilidad: %d/100\n\n", r.VulnerabilityLevel)

	b.WriteString("DETALLE DE VULNERABILIDADES\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Accesos: %d%%\n", r.Accesos)
	fmt.Fprintf(&b, "Entorno: %d%%\n", r.Entorno)
	fmt.Fprintf(&b, "Iluminación: %d%%\n", r.Iluminacion)
	fmt.Fprintf(&b, "Perímetro: %d%%\n", r.Perimetro)
	fmt.Fprintf(&b, "Medios de Protección: %d%%\n", r.MediosProteccion)
	fmt.Fprintf(&b, "Medios Tecnológicos: %d%%\n\n", r.MediosTecnologicos)

	b.WriteString("CONTACTOS DE EMERGENCIA\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Policía: %s\n", r.EmergencyContacts.Police)
	fmt.Fprintf(&b, "Bomberos: %s\n", r.EmergencyContacts.Fire)
	fmt.Fprintf(&b, "Ambulancia: %s\n\n", r.EmergencyContacts.Ambulance)

	fmt.Fprintf(&b, "Reporte generado el %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}

// Filename 下载文件名：reporte_<id>_<yyyy-mm-dd>.<ext>
func Filename(residenceID, ext string, generatedAt time.Time) string {
	return fmt.Sprintf("reporte_%s_%s.%s", residenceID, generatedAt.Format("2006-01-02"), ext)
}
