package pet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	mockMessIDs(t)
	now := mockTimeNow(t)
	store := setupTestStore(t)

	s := NewState(StockDefaults(), now)
	s.Name = "Mochi"
	s.Image = "sprites/mochi.png"
	s.Volume = 35
	s.Stats[Hunger] = 42.5
	s.Config.Decay[Fun] = 1.5
	s.Config.MinTickSecs = 7
	s.Mess.Config.Reward = 3
	s.Mess.TrySpawn(now.Add(-time.Minute), Position{X: 100, Y: 200})
	s.Mess.TrySpawn(now, Position{X: 300, Y: 50})
	s.LastStatus = GetStatus(s)

	require.NoError(t, store.Save(s))

	loaded, restored := store.Load(StockDefaults())
	require.True(t, restored)
	assert.Equal(t, s.Name, loaded.Name)
	assert.Equal(t, s.Image, loaded.Image)
	assert.Equal(t, s.Volume, loaded.Volume)
	assert.Equal(t, s.Stats, loaded.Stats)
	assert.Equal(t, s.Config, loaded.Config)
	assert.Equal(t, s.Mess.Config, loaded.Mess.Config)
	assert.Equal(t, s.Mess.Active, loaded.Mess.Active)
	assert.True(t, s.LastSeen.Equal(loaded.LastSeen))
	assert.Equal(t, s.LastStatus, loaded.LastStatus)
}

func TestEncodeUsesRecordKeys(t *testing.T) {
	mockMessIDs(t)
	now := mockTimeNow(t)
	s := NewState(StockDefaults(), now)
	s.Mess.TrySpawn(now, Position{X: 1, Y: 2})

	data, err := Encode(s)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"volume", "stats", "cfg", "poops", "poop_cfg", "last_seen", "pet_name", "pet_image"} {
		assert.Contains(t, raw, key)
	}

	var poops []map[string]any
	require.NoError(t, json.Unmarshal(raw["poops"], &poops))
	require.Len(t, poops, 1)
	assert.Equal(t, "mess-1", poops[0]["id"])
	assert.Equal(t, "2024-01-01T12:00:00Z", poops[0]["spawn_ts"])

	var lastSeen string
	require.NoError(t, json.Unmarshal(raw["last_seen"], &lastSeen))
	assert.Equal(t, "2024-01-01T12:00:00Z", lastSeen)
}

func TestLoadMissingFileIsFirstRun(t *testing.T) {
	now := mockTimeNow(t)
	store := setupTestStore(t)

	s, restored := store.Load(StockDefaults())
	assert.False(t, restored)
	assert.Equal(t, DefaultPetName, s.Name)
	assert.Equal(t, now, s.LastSeen)
	assert.Equal(t, NewStatSet(), s.Stats)
}

func TestLoadCorruptFileIsFirstRun(t *testing.T) {
	mockTimeNow(t)
	for _, content := range []string{"{not json", "", "[1,2,3]", "null", `"text"`} {
		store := setupTestStore(t)
		require.NoError(t, os.WriteFile(store.Path, []byte(content), 0o644))

		s, restored := store.Load(StockDefaults())
		assert.False(t, restored, "content %q", content)
		assert.Equal(t, NewStatSet(), s.Stats)
	}
}

func TestDecodeDefaultsEachFieldIndependently(t *testing.T) {
	now := mockTimeNow(t)
	doc := `{
		"volume": "loud",
		"stats": {"hunger": 12, "health": "bad", "happiness": 50},
		"cfg": {"decay_per_hour": {"hunger": 9, "sparkle": 4}, "min_tick_secs": "soon"},
		"poops": [{"id": "a", "spawn_ts": "2024-01-01T11:00:00Z", "x": 5, "y": 6}],
		"pet_name": "Pico"
	}`

	s, err := Decode([]byte(doc), StockDefaults(), now)
	require.NoError(t, err)

	assert.Equal(t, DefaultVolume, s.Volume, "malformed volume falls back")
	assert.Equal(t, 12.0, s.Stats[Hunger])
	assert.Equal(t, DefaultStat, s.Stats[Health], "malformed stats map keeps defaults")
	_, ok := s.Stats[Stat("happiness")]
	assert.False(t, ok, "unknown stat is pruned")

	assert.Equal(t, 9.0, s.Config.Decay[Hunger])
	assert.Equal(t, 2.0, s.Config.Decay[Health], "missing decay keys come from defaults")
	_, ok = s.Config.Decay[Stat("sparkle")]
	assert.False(t, ok, "unknown decay key is pruned")
	assert.Equal(t, DefaultMinTickSecs, s.Config.MinTickSecs)
	assert.Equal(t, DefaultAutosaveSecs, s.Config.AutosaveSecs)

	require.Len(t, s.Mess.Active, 1)
	assert.Equal(t, Position{X: 5, Y: 6}, s.Mess.Active[0].Position)
	assert.Equal(t, DefaultMessConfig(), s.Mess.Config)

	assert.Equal(t, "Pico", s.Name)
	assert.True(t, s.LastSeen.IsZero(), "absent last_seen stays unset")
	assert.NotEmpty(t, s.LastStatus)
}

func TestDecodeMalformedStatsField(t *testing.T) {
	now := mockTimeNow(t)
	s, err := Decode([]byte(`{"stats": [1, 2], "pet_name": "Kiwi"}`), StockDefaults(), now)
	require.NoError(t, err)
	assert.Equal(t, NewStatSet(), s.Stats)
	assert.Equal(t, "Kiwi", s.Name)
}

func TestDecodeClampsAndRepairs(t *testing.T) {
	now := mockTimeNow(t)
	doc := `{
		"volume": 400,
		"stats": {"hunger": 250, "energy": -10},
		"cfg": {"decay_per_hour": {"fun": -3}},
		"poop_cfg": {"spawn_min_secs": 0, "spawn_max_secs": 10, "max_on_field": 2, "target_stat": "mystery"},
		"poops": [
			{"id": "a", "spawn_ts": "2024-01-01T11:00:00Z"},
			{"id": "a", "spawn_ts": "2024-01-01T11:01:00Z"},
			{"id": "b", "spawn_ts": "2024-01-01T11:02:00Z"},
			{"id": "c", "spawn_ts": "2024-01-01T11:03:00Z"}
		]
	}`

	s, err := Decode([]byte(doc), StockDefaults(), now)
	require.NoError(t, err)

	assert.Equal(t, MaxVolume, s.Volume)
	assert.Equal(t, MaxStat, s.Stats[Hunger])
	assert.Equal(t, MinStat, s.Stats[Energy])
	assert.Equal(t, 3.0, s.Config.Decay[Fun], "negative rate replaced by default")

	assert.Equal(t, float64(DefaultSpawnMinSecs), s.Mess.Config.SpawnMinSecs)
	assert.GreaterOrEqual(t, s.Mess.Config.SpawnMaxSecs, s.Mess.Config.SpawnMinSecs)
	assert.Equal(t, Energy, s.Mess.Config.Target)

	require.Len(t, s.Mess.Active, 2)
	assert.Equal(t, "a", s.Mess.Active[0].ID)
	assert.Equal(t, "b", s.Mess.Active[1].ID)
}

func TestDecodeMissingSpawnTimeUsesNow(t *testing.T) {
	now := mockTimeNow(t)
	s, err := Decode([]byte(`{"poops": [{"id": "x", "x": 1, "y": 1}]}`), StockDefaults(), now)
	require.NoError(t, err)
	require.Len(t, s.Mess.Active, 1)
	assert.Equal(t, now, s.Mess.Active[0].SpawnedAt)
}

func TestSaveFailureKeepsPreviousRecord(t *testing.T) {
	now := mockTimeNow(t)
	dir := t.TempDir()
	store := FileStore{Path: filepath.Join(dir, "pet.json")}

	s := NewState(StockDefaults(), now)
	s.Name = "Original"
	require.NoError(t, store.Save(s))
	before, err := os.ReadFile(store.Path)
	require.NoError(t, err)

	// A directory where the temp file would go makes the write fail.
	bad := FileStore{Path: filepath.Join(store.Path, "nested.json")}
	s.Name = "Changed"
	assert.Error(t, bad.Save(s))

	after, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSaveCreatesDirectory(t *testing.T) {
	now := mockTimeNow(t)
	store := FileStore{Path: filepath.Join(t.TempDir(), "a", "b", "pet.json")}
	require.NoError(t, store.Save(NewState(StockDefaults(), now)))
	_, err := os.Stat(store.Path)
	assert.NoError(t, err)
}
