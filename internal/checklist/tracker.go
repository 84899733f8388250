package checklist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vigia-data/internal/store"

	"go.uber.org/zap"
)

// ErrItemNotFound 检查项不存在
var ErrItemNotFound = fmt.Errorf("checklist item not found")

// Tracker 检查表服务：按住宅维护一份 KV 持久化的检查表。
// Persistence is last-write-wins with a single assumed writer; there is no
// cross-session conflict resolution.
type Tracker struct {
	kv     store.KV
	logger *zap.Logger
	now    func() time.Time
}

func NewTracker(kv store.KV, logger *zap.Logger) *Tracker {
	return &Tracker{kv: kv, logger: logger, now: time.Now}
}

func key(residenceID string) string {
	return "checklist_" + residenceID
}

func (t *Tracker) timestamp() string {
	return t.now().UTC().Format(time.RFC3339)
}

// Load returns the persisted checklist for a residence, or a fresh
// all-unchecked instance from the template when none exists yet. A malformed
// persisted record is treated as "not yet created", not as an error.
func (t *Tracker) Load(ctx context.Context, residenceID string) (*Checklist, error) {
	raw, err := t.kv.Get(ctx, key(residenceID))
	if err == store.ErrMiss {
		return newFromTemplate(residenceID, t.timestamp()), nil
	}
	if err != nil {
		return nil, err
	}
	var c Checklist
	if err := json.Unmarshal([]byte(raw), &c); err != nil || len(c.Items) == 0 {
		t.logger.Warn("discarding malformed checklist record",
			zap.String("residence_id", residenceID), zap.Error(err))
		return newFromTemplate(residenceID, t.timestamp()), nil
	}
	return &c, nil
}

// Toggle flips exactly one item and recomputes the completion percentage.
// The updated checklist is persisted immediately.
func (t *Tracker) Toggle(ctx context.Context, residenceID, itemID string) (*Checklist, error) {
	c, err := t.Load(ctx, residenceID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Checked = !c.Items[i].Checked
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}
	c.recompute()
	if err := t.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateNotes replaces the note text of exactly one item. Does not affect the
// completion percentage.
func (t *Tracker) UpdateNotes(ctx context.Context, residenceID, itemID, notes string) (*Checklist, error) {
	c, err := t.Load(ctx, residenceID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Notes = notes
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}
	if err := t.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save re-persists the current state with a fresh lastUpdated timestamp.
// Idempotent.
func (t *Tracker) Save(ctx context.Context, residenceID string) (*Checklist, error) {
	c, err := t.Load(ctx, residenceID)
	if err != nil {
		return nil, err
	}
	c.LastUpdated = t.timestamp()
	if err := t.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear deletes the persisted record and regenerates a brand-new unchecked
// instance from the template (the creation date is regenerated as "now").
// The confirmation gate is the caller's concern.
func (t *Tracker) Clear(ctx context.Context, residenceID string) (*Checklist, error) {
	if err := t.kv.Delete(ctx, key(residenceID)); err != nil {
		return nil, err
	}
	return newFromTemplate(residenceID, t.timestamp()), nil
}

func (t *Tracker) persist(ctx context.Context, c *Checklist) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	// checklists never expire on their own
	return t.kv.Set(ctx, key(c.ResidenceID), string(raw), 0)
}

// ExportText renders the checklist as a deterministic plain-text document,
// grouped by category in template order.
func (t *Tracker) ExportText(ctx context.Context, residenceID, residenceName string) (string, error) {
	c, err := t.Load(ctx, residenceID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("CHECKLIST DE SEGURIDAD\n")
	fmt.Fprintf(&b, "Residencia: %s - %s\n", residenceID, residenceName)
	fmt.Fprintf(&b, "Fecha: %s\n", c.Date)
	fmt.Fprintf(&b, "Última actualización: %s\n", c.LastUpdated)
	fmt.Fprintf(&b, "Completado: %d%%\n", c.CompletionPercentage)

	for _, category := range c.Categories() {
		upper := strings.ToUpper(category)
		b.WriteString("\n" + upper + "\n")
		b.WriteString(strings.Repeat("=", len([]rune(category))) + "\n")
		for _, item := range c.Items {
			if item.Category != category {
				continue
			}
			mark := " "
			if item.Checked {
				mark = "X"
			}
			fmt.Fprintf(&b, "[%s] %s\n", mark, item.Description)
			if item.Notes != "" {
				fmt.Fprintf(&b, "    Notas: %s\n", item.Notes)
			}
		}
	}
	return b.String(), nil
}
