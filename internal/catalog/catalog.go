package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"vigia-data/internal/domain"
)

//go:embed data/residences.json data/emergencias.json data/coordinates.json
var dataFS embed.FS

// Catalog 不可变的住宅目录：启动时加载一次，所有模块只读共享。
// 除了住宅记录本身还包含两份区级静态表：紧急服务目录和已核实坐标。
type Catalog struct {
	residences []domain.Residence
	byID       map[string]int

	directory map[string]domain.DistrictServices // key: directory key ("SAN_ISIDRO")
	locations map[string]domain.ResidenceLocation
	svcCoords map[string]domain.DistrictServiceCoords
}

type residencesFile struct {
	Residences []domain.Residence `json:"residences"`
}

type coordinatesFile struct {
	Residences map[string]domain.ResidenceLocation     `json:"residences"`
	Services   map[string]domain.DistrictServiceCoords `json:"services"`
}

// Load 从内置数据集构建目录
func Load() (*Catalog, error) {
	raw, err := dataFS.ReadFile("data/residences.json")
	if err != nil {
		return nil, fmt.Errorf("read residences dataset: %w", err)
	}
	var rf residencesFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parse residences dataset: %w", err)
	}

	raw, err = dataFS.ReadFile("data/emergencias.json")
	if err != nil {
		return nil, fmt.Errorf("read emergency directory: %w", err)
	}
	directory := map[string]domain.DistrictServices{}
	if err := json.Unmarshal(raw, &directory); err != nil {
		return nil, fmt.Errorf("parse emergency directory: %w", err)
	}

	raw, err = dataFS.ReadFile("data/coordinates.json")
	if err != nil {
		return nil, fmt.Errorf("read coordinates: %w", err)
	}
	var cf coordinatesFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse coordinates: %w", err)
	}

	return build(rf.Residences, directory, cf.Residences, cf.Services)
}

// NewFromRecords 用外部加载的住宅列表（如 Postgres）替换内置记录，
// 区级静态表仍来自内置数据集。
func NewFromRecords(residences []domain.Residence) (*Catalog, error) {
	embedded, err := Load()
	if err != nil {
		return nil, err
	}
	return build(residences, embedded.directory, embedded.locations, embedded.svcCoords)
}

func build(
	residences []domain.Residence,
	directory map[string]domain.DistrictServices,
	locations map[string]domain.ResidenceLocation,
	svcCoords map[string]domain.DistrictServiceCoords,
) (*Catalog, error) {
	c := &Catalog{
		residences: make([]domain.Residence, len(residences)),
		byID:       make(map[string]int, len(residences)),
		directory:  directory,
		locations:  locations,
		svcCoords:  svcCoords,
	}
	copy(c.residences, residences)
	for i := range c.residences {
		r := &c.residences[i]
		r.RiskLevel = domain.NormalizeRiskLevel(r.RiskLevel)
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate residence id %q", r.ID)
		}
		c.byID[r.ID] = i
	}
	return c, nil
}

// All 返回全部住宅（副本，调用方可自由排序/截断）
func (c *Catalog) All() []domain.Residence {
	out := make([]domain.Residence, len(c.residences))
	copy(out, c.residences)
	return out
}

// ByID 按编号查找
func (c *Catalog) ByID(id string) (domain.Residence, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Residence{}, false
	}
	return c.residences[i], true
}

func (c *Catalog) Count() int { return len(c.residences) }

// Districts 去重后的派生区名（升序）
func (c *Catalog) Districts() []string {
	seen := map[string]struct{}{}
	for _, r := range c.residences {
		seen[domain.DistrictOf(r.Address)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ServicesFor 按目录键查询区级紧急服务目录；不存在时返回 false（不是错误）
func (c *Catalog) ServicesFor(directoryKey string) (domain.DistrictServices, bool) {
	s, ok := c.directory[directoryKey]
	return s, ok
}

// LocationOf 住宅坐标
func (c *Catalog) LocationOf(id string) (domain.ResidenceLocation, bool) {
	l, ok := c.locations[id]
	return l, ok
}

// ServiceCoords 全部区级服务坐标表
func (c *Catalog) ServiceCoords() map[string]domain.DistrictServiceCoords {
	return c.svcCoords
}
