package ranking

import (
	"fmt"

	"vigia-data/internal/domain"
)

// Alert 需要跟进的住宅告警
type Alert struct {
	ResidenceID   string `json:"residenceId"`
	ResidenceName string `json:"residenceName"`
	Message       string `json:"message"`
	Severity      string `json:"severity"` // high | medium
}

// 分类评分的告警阈值（百分比，越高越差）
const deficientCategoryScore = 60

// Alerts derives the attention list: critical overall risk first, then
// deficient lighting, then insufficient technological means. The list is
// capped to max entries (the dashboard shows a short feed, not a full audit).
func Alerts(view []domain.Residence, max int) []Alert {
	alerts := []Alert{}
	for _, r := range view {
		if r.RiskScore >= domain.CriticalRiskScore {
			alerts = append(alerts, Alert{
				ResidenceID:   r.ID,
				ResidenceName: r.Name,
				Message:       fmt.Sprintf("Nivel de riesgo crítico: %d", r.RiskScore),
				Severity:      "high",
			})
		}
	}
	for _, r := range view {
		if r.Iluminacion >= deficientCategoryScore {
			alerts = append(alerts, Alert{
				ResidenceID:   r.ID,
				ResidenceName: r.Name,
				Message:       fmt.Sprintf("Iluminación deficiente: %d%%", r.Iluminacion),
				Severity:      "medium",
			})
		}
	}
	for _, r := range view {
		if r.MediosTecnologicos >= deficientCategoryScore {
			alerts = append(alerts, Alert{
				ResidenceID:   r.ID,
				ResidenceName: r.Name,
				Message:       fmt.Sprintf("Medios tecnológicos insuficientes: %d%%", r.MediosTecnologicos),
				Severity:      "medium",
			})
		}
	}
	if len(alerts) > max {
		alerts = alerts[:max]
	}
	return alerts
}
