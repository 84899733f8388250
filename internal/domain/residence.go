package domain

// Residence 评估对象：一处受监控的住宅（对应 residences 表）
// Risk/threat/vulnerability and the per-category scores all use a canonical
// 0-100 scale (higher = worse).
type Residence struct {
	// 主键
	ID string `json:"id" db:"residence_id"` // e.g. "PPLJF01-2025", PRIMARY KEY

	// 展示信息
	Name    string `json:"name" db:"name"`       // VARCHAR(200), NOT NULL
	Address string `json:"address" db:"address"` // VARCHAR(300), NOT NULL; district is derived from the last comma segment

	// 总体评分
	RiskScore          int    `json:"riskScore" db:"risk_score"`                   // 0-100
	ThreatLevel        int    `json:"threatLevel" db:"threat_level"`               // 0-100
	VulnerabilityLevel int    `json:"vulnerabilityLevel" db:"vulnerability_level"` // 0-100
	RiskLevel          string `json:"riskLevel" db:"risk_level"`                   // bajo / medio / alto

	// 分类脆弱性评分（百分比，越高越差）
	Accesos            int `json:"accesos" db:"accesos"`
	Entorno            int `json:"entorno" db:"entorno"`
	Iluminacion        int `json:"iluminacion" db:"iluminacion"`
	Perimetro          int `json:"perimetro" db:"perimetro"`
	MediosProteccion   int `json:"mediosProteccion" db:"medios_proteccion"`
	MediosTecnologicos int `json:"mediosTecnologicos" db:"medios_tecnologicos"`

	EvaluationDate string `json:"evaluationDate" db:"evaluation_date"` // DATE (ISO), last on-site assessment

	// 资源
	Image string `json:"image" db:"image"` // display asset reference (URL or path)

	EmergencyContacts EmergencyContacts `json:"emergencyContacts"`
}

// EmergencyContacts 每处住宅的固定紧急电话
type EmergencyContacts struct {
	Police    string `json:"police" db:"police_phone"`
	Fire      string `json:"fire" db:"fire_phone"`
	Ambulance string `json:"ambulance" db:"ambulance_phone"`
}

// Risk level labels. RiskScore and RiskLevel are stored independently; the
// catalog normalizes legacy labels at load time but does not force consistency.
const (
	RiskLevelBajo  = "bajo"
	RiskLevelMedio = "medio"
	RiskLevelAlto  = "alto"
)

// Score thresholds on the canonical 0-100 scale.
const (
	CriticalRiskScore  = 70 // riesgo crítico
	AttentionRiskScore = 50 // requiere atención
)

// NormalizeRiskLevel maps legacy dataset labels onto the canonical set.
// "moderado" was used interchangeably with "medio" in older evaluations.
func NormalizeRiskLevel(level string) string {
	switch level {
	case "moderado":
		return RiskLevelMedio
	case RiskLevelBajo, RiskLevelMedio, RiskLevelAlto:
		return level
	default:
		return level
	}
}
