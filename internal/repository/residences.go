package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vigia-data/internal/domain"

	"go.uber.org/zap"
)

// ResidencesRepository 住宅目录Repository接口
// 目录是只读的：服务端不修改住宅记录（由评估流程离线维护）
type ResidencesRepository interface {
	// ListResidences 读取全部住宅（启动时加载一次，目录规模 ~11 条）
	ListResidences(ctx context.Context) ([]domain.Residence, error)
}

// SQLResidencesRepo 基于 PostgreSQL 的实现
type SQLResidencesRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLResidencesRepo(db *sql.DB, logger *zap.Logger) *SQLResidencesRepo {
	return &SQLResidencesRepo{db: db, logger: logger}
}

func (r *SQLResidencesRepo) ListResidences(ctx context.Context) ([]domain.Residence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT residence_id, name, address,
		        risk_score, threat_level, vulnerability_level, risk_level,
		        accesos, entorno, iluminacion, perimetro,
		        medios_proteccion, medios_tecnologicos,
		        evaluation_date, image,
		        police_phone, fire_phone, ambulance_phone
		 FROM residences
		 ORDER BY residence_id`)
	if err != nil {
		return nil, fmt.Errorf("query residences: %w", err)
	}
	defer rows.Close()

	var out []domain.Residence
	for rows.Next() {
		var res domain.Residence
		if err := rows.Scan(
			&res.ID, &res.Name, &res.Address,
			&res.RiskScore, &res.ThreatLevel, &res.VulnerabilityLevel, &res.RiskLevel,
			&res.Accesos, &res.Entorno, &res.Iluminacion, &res.Perimetro,
			&res.MediosProteccion, &res.MediosTecnologicos,
			&res.EvaluationDate, &res.Image,
			&res.EmergencyContacts.Police, &res.EmergencyContacts.Fire, &res.EmergencyContacts.Ambulance,
		); err != nil {
			return nil, fmt.Errorf("scan residence: %w", err)
		}
		res.RiskLevel = domain.NormalizeRiskLevel(res.RiskLevel)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
