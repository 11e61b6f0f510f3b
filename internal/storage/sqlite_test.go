package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/replay"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testLog(p1, p2 string, ticks int) *replay.Log {
	l := &replay.Log{
		Version: replay.Version,
		P1:      p1,
		P2:      p2,
		Config:  config.DefaultSimConfig(),
		Hash:    0xfedcba9876543210,
	}
	for i := 0; i < ticks; i++ {
		p1s := input.Idle
		if i%7 == 0 {
			p1s = input.Sample{Dir: input.Forward, Buttons: input.LP}
		}
		l.Records = append(l.Records, replay.Record{Tick: i, P1: p1s, P2: input.Sample{Dir: input.Back}})
	}
	return l
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoadReplay(t *testing.T) {
	store := openStore(t)

	log := testLog("ryu", "ken", 100)
	log.Config.Match.RoundsToWin = 3
	id, err := store.SaveReplay(log, replay.Summary{Winner: "ken", Rounds: 2, Ticks: 100})
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	got, err := store.LoadReplay(id)
	if err != nil {
		t.Fatalf("LoadReplay() failed: %v", err)
	}
	if !reflect.DeepEqual(got, log) {
		t.Errorf("loaded replay differs:\n got %+v\nwant %+v", got.Config, log.Config)
	}
}

func TestStoreListReplays(t *testing.T) {
	store := openStore(t)

	for i, pair := range [][2]string{{"ryu", "ken"}, {"ken", "ryu"}, {"ryu", "ryu"}} {
		sum := replay.Summary{Winner: pair[0], Rounds: 2}
		if i == 2 {
			sum = replay.Summary{Draw: true, Rounds: 5}
		}
		if _, err := store.SaveReplay(testLog(pair[0], pair[1], 10*(i+1)), sum); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	entries, err := store.ListReplays(2)
	if err != nil {
		t.Fatalf("ListReplays() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries with limit, got %d", len(entries))
	}
	// Newest first
	if entries[0].Ticks != 30 || entries[0].Winner != "" || entries[0].Rounds != 5 {
		t.Errorf("Unexpected newest entry: %+v", entries[0])
	}
	if entries[1].Winner != "ken" || entries[1].Hash != 0xfedcba9876543210 {
		t.Errorf("Unexpected second entry: %+v", entries[1])
	}
}

func TestStoreDeleteReplay(t *testing.T) {
	store := openStore(t)

	id, err := store.SaveReplay(testLog("ryu", "ken", 5), replay.Summary{Draw: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteReplay(id); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	if _, err := store.LoadReplay(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadReplay() after delete = %v, want ErrNotFound", err)
	}
	if err := store.DeleteReplay(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteReplay() = %v, want ErrNotFound", err)
	}
}

func TestStoreCharacterStats(t *testing.T) {
	store := openStore(t)

	store.SaveReplay(testLog("ryu", "ken", 5), replay.Summary{Winner: "ryu", Rounds: 2})
	store.SaveReplay(testLog("ken", "ryu", 5), replay.Summary{Winner: "ryu", Rounds: 3})
	store.SaveReplay(testLog("ken", "ryu", 5), replay.Summary{Winner: "ken", Rounds: 2})
	store.SaveReplay(testLog("ryu", "ken", 5), replay.Summary{Draw: true, Rounds: 5})

	stats, err := store.GetCharacterStats("ryu")
	if err != nil {
		t.Fatalf("GetCharacterStats() failed: %v", err)
	}
	if stats.Matches != 4 || stats.Wins != 2 || stats.Draws != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	none, err := store.GetCharacterStats("dan")
	if err != nil {
		t.Fatalf("GetCharacterStats() failed: %v", err)
	}
	if none.Matches != 0 || !none.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats for an unplayed character, got %+v", none)
	}
}

func TestStoreCharacterStatsPerSide(t *testing.T) {
	tests := []struct {
		name    string
		p1, p2  string
		sums    []replay.Summary
		matches int
		wins    int
		draws   int
	}{
		{
			name:    "mirror wins on both sides",
			p1:      "ryu",
			p2:      "ryu",
			sums:    []replay.Summary{{Winner: "ryu", Side: 1, Rounds: 2}, {Winner: "ryu", Side: 2, Rounds: 3}},
			matches: 4,
			wins:    2,
		},
		{
			name:    "mirror draw",
			p1:      "ryu",
			p2:      "ryu",
			sums:    []replay.Summary{{Draw: true, Rounds: 5}},
			matches: 2,
			draws:   2,
		},
		{
			name:    "aborted before a round",
			p1:      "ryu",
			p2:      "ken",
			sums:    []replay.Summary{{Rounds: 0}, {Winner: "ryu", Rounds: 2}},
			matches: 1,
			wins:    1,
		},
		{
			name:    "side derived from the winner",
			p1:      "ken",
			p2:      "ryu",
			sums:    []replay.Summary{{Winner: "ryu", Rounds: 2}, {Winner: "ken", Rounds: 2}},
			matches: 2,
			wins:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openStore(t)
			for _, sum := range tt.sums {
				if _, err := store.SaveReplay(testLog(tt.p1, tt.p2, 5), sum); err != nil {
					t.Fatalf("SaveReplay() failed: %v", err)
				}
			}
			stats, err := store.GetCharacterStats("ryu")
			if err != nil {
				t.Fatalf("GetCharacterStats() failed: %v", err)
			}
			if stats.Matches != tt.matches || stats.Wins != tt.wins || stats.Draws != tt.draws {
				t.Errorf("stats = %+v, want %d matches, %d wins, %d draws", stats, tt.matches, tt.wins, tt.draws)
			}
			if stats.LastPlayed.IsZero() {
				t.Error("LastPlayed should be set")
			}
		})
	}
}

func TestStoreAddsWinnerSide(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`CREATE TABLE replays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version INTEGER NOT NULL,
		p1 TEXT NOT NULL,
		p2 TEXT NOT NULL,
		winner TEXT,
		rounds INTEGER NOT NULL DEFAULT 0,
		ticks INTEGER NOT NULL DEFAULT 0,
		hash TEXT NOT NULL,
		config TEXT NOT NULL,
		inputs BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() on an old database failed: %v", err)
	}
	defer store.Close()
	if _, err := store.SaveReplay(testLog("ryu", "ryu", 5), replay.Summary{Winner: "ryu", Side: 2, Rounds: 2}); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	stats, err := store.GetCharacterStats("ryu")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Matches != 2 || stats.Wins != 1 {
		t.Errorf("stats = %+v, want 2 matches and 1 win", stats)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
