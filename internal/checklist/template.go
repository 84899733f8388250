package checklist

import "math"

// Item 单个检查项
type Item struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Checked     bool   `json:"checked"`
	Notes       string `json:"notes,omitempty"`
}

// Checklist 每处住宅的检查表（持久化记录）
type Checklist struct {
	ResidenceID          string `json:"residenceId"`
	Date                 string `json:"date"`        // 创建时间（ISO）
	LastUpdated          string `json:"lastUpdated"` // 最后保存时间（ISO）
	Items                []Item `json:"items"`
	CompletionPercentage int    `json:"completionPercentage"`
}

type templateEntry struct {
	id          string
	category    string
	description string
}

// 固定模板：6 个类别共 21 项。新检查表一律从这里生成。
var template = []templateEntry{
	// Accesos
	{"acc-1", "Accesos", "Control de acceso vehicular operativo"},
	{"acc-2", "Accesos", "Control de acceso peatonal operativo"},
	{"acc-3", "Accesos", "Registro de visitantes actualizado"},
	{"acc-4", "Accesos", "Cerraduras en buen estado"},

	// Perímetro
	{"per-1", "Perímetro", "Cerco perimetral sin daños"},
	{"per-2", "Perímetro", "Puertas y portones en buen estado"},
	{"per-3", "Perímetro", "Ausencia de puntos ciegos"},

	// Iluminación
	{"ilu-1", "Iluminación", "Iluminación exterior funcional"},
	{"ilu-2", "Iluminación", "Iluminación de emergencia operativa"},
	{"ilu-3", "Iluminación", "Sensores de movimiento funcionando"},

	// Medios de Protección
	{"pro-1", "Protección", "Extintores con carga vigente"},
	{"pro-2", "Protección", "Detectores de humo operativos"},
	{"pro-3", "Protección", "Alarma contra incendios funcional"},
	{"pro-4", "Protección", "Botiquín completo y vigente"},

	// Medios Tecnológicos
	{"tec-1", "Tecnología", "Cámaras de seguridad operativas"},
	{"tec-2", "Tecnología", "Sistema de grabación funcional"},
	{"tec-3", "Tecnología", "Alarma de seguridad activa"},
	{"tec-4", "Tecnología", "Panel de control sin fallas"},

	// Entorno
	{"ent-1", "Entorno", "Entorno sin actividad sospechosa"},
	{"ent-2", "Entorno", "Iluminación pública funcional"},
	{"ent-3", "Entorno", "Presencia policial en zona"},
}

// TemplateSize 模板项数
func TemplateSize() int { return len(template) }

func newFromTemplate(residenceID, now string) *Checklist {
	items := make([]Item, len(template))
	for i, e := range template {
		items[i] = Item{ID: e.id, Category: e.category, Description: e.description}
	}
	return &Checklist{
		ResidenceID:          residenceID,
		Date:                 now,
		LastUpdated:          now,
		Items:                items,
		CompletionPercentage: 0,
	}
}

// Categories 按模板出现顺序返回类别（导出和展示用，顺序稳定）
func (c *Checklist) Categories() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, item := range c.Items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

func (c *Checklist) checkedCount() int {
	n := 0
	for _, item := range c.Items {
		if item.Checked {
			n++
		}
	}
	return n
}

func (c *Checklist) recompute() {
	if len(c.Items) == 0 {
		c.CompletionPercentage = 0
		return
	}
	c.CompletionPercentage = int(math.Round(float64(c.checkedCount()) / float64(len(c.Items)) * 100))
}
