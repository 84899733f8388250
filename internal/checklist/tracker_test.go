package checklist

import (
	"context"
	"strings"
	"testing"
	"time"

	"vigia-data/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func newTestTracker(kv store.KV) *Tracker {
	tr := NewTracker(kv, zap.NewNop())
	tr.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }
	return tr
}

func TestLoad_FreshChecklistFromTemplate(t *testing.T) {
	tr := newTestTracker(newFakeKV())
	c, err := tr.Load(context.Background(), "PP01-2025")
	require.NoError(t, err)
	assert.Equal(t, "PP01-2025", c.ResidenceID)
	assert.Len(t, c.Items, TemplateSize())
	assert.Equal(t, 0, c.CompletionPercentage)
	assert.Equal(t, []string{
		"Accesos", "Perímetro", "Iluminación", "Protección", "Tecnología", "Entorno",
	}, c.Categories())

	// loading does not persist anything yet
	kv := newFakeKV()
	tr = newTestTracker(kv)
	_, err = tr.Load(context.Background(), "PP01-2025")
	require.NoError(t, err)
	assert.Empty(t, kv.data)
}

func TestLoad_MalformedRecordFallsBackToTemplate(t *testing.T) {
	kv := newFakeKV()
	kv.data["checklist_PP01-2025"] = "{not json"
	tr := newTestTracker(kv)

	c, err := tr.Load(context.Background(), "PP01-2025")
	require.NoError(t, err)
	assert.Len(t, c.Items, TemplateSize())
	assert.Equal(t, 0, c.CompletionPercentage)
}

func TestToggle_FlipsAndPersists(t *testing.T) {
	kv := newFakeKV()
	tr := newTestTracker(kv)
	ctx := context.Background()

	c, err := tr.Toggle(ctx, "PP01-2025", "acc-1")
	require.NoError(t, err)
	assert.True(t, c.Items[0].Checked)
	assert.Equal(t, 5, c.CompletionPercentage) // round(1/21*100)
	assert.Contains(t, kv.data, "checklist_PP01-2025")

	// toggling again is an involution
	c, err = tr.Toggle(ctx, "PP01-2025", "acc-1")
	require.NoError(t, err)
	assert.False(t, c.Items[0].Checked)
	assert.Equal(t, 0, c.CompletionPercentage)
}

func TestToggle_UnknownItem(t *testing.T) {
	tr := newTestTracker(newFakeKV())
	_, err := tr.Toggle(context.Background(), "PP01-2025", "acc-99")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCompletionPercentageRounds(t *testing.T) {
	tr := newTestTracker(newFakeKV())
	ctx := context.Background()

	ids := []string{"acc-1", "acc-2", "acc-3", "acc-4", "per-1", "per-2", "per-3", "ilu-1", "ilu-2", "ilu-3"}
	var c *Checklist
	var err error
	for _, id := range ids {
		c, err = tr.Toggle(ctx, "PP01-2025", id)
		require.NoError(t, err)
	}
	assert.Equal(t, 48, c.CompletionPercentage) // round(10/21*100) = round(47.6)
}

func TestUpdateNotes_DoesNotAffectCompletion(t *testing.T) {
	tr := newTestTracker(newFakeKV())
	ctx := context.Background()

	c, err := tr.UpdateNotes(ctx, "PP01-2025", "per-1", "cerco dañado en la esquina norte")
	require.NoError(t, err)
	assert.Equal(t, 0, c.CompletionPercentage)
	for _, item := range c.Items {
		if item.ID == "per-1" {
			assert.Equal(t, "cerco dañado en la esquina norte", item.Notes)
		}
	}
}

func TestSave_RefreshesLastUpdated(t *testing.T) {
	kv := newFakeKV()
	tr := newTestTracker(kv)
	ctx := context.Background()

	_, err := tr.Toggle(ctx, "PP01-2025", "acc-1")
	require.NoError(t, err)

	tr.now = func() time.Time { return time.Date(2025, 6, 16, 9, 30, 0, 0, time.UTC) }
	c, err := tr.Save(ctx, "PP01-2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16T09:30:00Z", c.LastUpdated)
	assert.True(t, c.Items[0].Checked) // state survives the save
}

func TestClear_DeletesAndRegenerates(t *testing.T) {
	kv := newFakeKV()
	tr := newTestTracker(kv)
	ctx := context.Background()

	_, err := tr.Toggle(ctx, "PP01-2025", "acc-1")
	require.NoError(t, err)
	_, err = tr.UpdateNotes(ctx, "PP01-2025", "acc-1", "nota")
	require.NoError(t, err)

	c, err := tr.Clear(ctx, "PP01-2025")
	require.NoError(t, err)
	assert.Equal(t, 0, c.CompletionPercentage)
	for _, item := range c.Items {
		assert.False(t, item.Checked)
		assert.Empty(t, item.Notes)
	}
	assert.NotContains(t, kv.data, "checklist_PP01-2025")
}

func TestExportText_Format(t *testing.T) {
	tr := newTestTracker(newFakeKV())
	ctx := context.Background()

	_, err := tr.Toggle(ctx, "PP01-2025", "acc-1")
	require.NoError(t, err)
	_, err = tr.UpdateNotes(ctx, "PP01-2025", "acc-2", "pendiente de revisión")
	require.NoError(t, err)

	text, err := tr.ExportText(ctx, "PP01-2025", "Casa Flores")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "CHECKLIST DE SEGURIDAD\n"))
	assert.Contains(t, text, "Residencia: PP01-2025 - Casa Flores")
	assert.Contains(t, text, "Completado: 5%")
	assert.Contains(t, text, "\nACCESOS\n=======\n")
	assert.Contains(t, text, "[X] Control de acceso vehicular operativo")
	assert.Contains(t, text, "[ ] Control de acceso peatonal operativo")
	assert.Contains(t, text, "    Notas: pendiente de revisión")
	assert.Contains(t, text, "\nPERÍMETRO\n=========\n")
}

func TestTracker_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	tr := newTestTracker(store.NewRedisKV(client))
	ctx := context.Background()

	c, err := tr.Toggle(ctx, "PP02-2025", "tec-1")
	require.NoError(t, err)
	assert.Equal(t, 5, c.CompletionPercentage)

	// a second tracker over the same store sees the persisted state
	tr2 := newTestTracker(store.NewRedisKV(client))
	loaded, err := tr2.Load(ctx, "PP02-2025")
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.CompletionPercentage)

	_, err = tr2.Clear(ctx, "PP02-2025")
	require.NoError(t, err)
	assert.False(t, mr.Exists("checklist_PP02-2025"))
}
