// Package leaderboard keeps a ranked table of finished games, persisted
// through gdata as YAML.
package leaderboard

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyName is returned when submitting an entry without a player name.
var ErrEmptyName = errors.New("player name is empty")

const (
	scoresObject   = "leaderboard"
	scoresProperty = "scores"

	// DefaultLimit is how many entries a board keeps when none is given.
	DefaultLimit = 10
	// MaxNameLength bounds stored player names (in runes).
	MaxNameLength = 16
)

// Entry is one finished game.
type Entry struct {
	Name     string    `yaml:"name"`
	Score    int       `yaml:"score"` // Final score including the accuracy bonus
	Level    int       `yaml:"level"`
	Accuracy float64   `yaml:"accuracy"`
	At       time.Time `yaml:"at"`
}

type document struct {
	Entries []Entry `yaml:"entries"`
}

// Board is a bounded, descending score table. Safe for concurrent use.
// A Board without a gdata manager works in memory only.
type Board struct {
	mu      sync.RWMutex
	store   *gdata.Manager // nil: in-memory only
	entries []Entry
	limit   int
	logger  *log.Logger
}

// Open opens the gdata store for appName and loads the saved table.
func Open(appName string, limit int, logger *log.Logger) (*Board, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open leaderboard storage: %w", err)
	}
	return New(m, limit, logger)
}

// New creates a board over an existing manager (nil for memory only) and
// loads whatever it holds. A corrupt table is logged and replaced by an
// empty one; the returned error is informational.
func New(m *gdata.Manager, limit int, logger *log.Logger) (*Board, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := &Board{store: m, limit: limit, logger: logger}
	if err := b.load(); err != nil {
		logger.Warn("failed to load leaderboard, starting empty", "err", err)
		return b, err
	}
	return b, nil
}

func (b *Board) load() error {
	if b.store == nil || !b.store.ObjectPropExists(scoresObject, scoresProperty) {
		return nil
	}

	data, err := b.store.LoadObjectProp(scoresObject, scoresProperty)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal scores: %w", err)
	}

	b.entries = doc.Entries
	sortEntries(b.entries)
	if len(b.entries) > b.limit {
		b.entries = b.entries[:b.limit]
	}
	b.logger.Debug("leaderboard loaded", "entries", len(b.entries))
	return nil
}

func (b *Board) save() error {
	if b.store == nil {
		return nil
	}
	data, err := yaml.Marshal(document{Entries: b.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	if err := b.store.SaveObjectProp(scoresObject, scoresProperty, data); err != nil {
		return fmt.Errorf("failed to save scores: %w", err)
	}
	return nil
}

// Submit ranks e and persists the table. It returns the 1-based rank, or 0
// when the score did not make the table. The in-memory table is updated
// even if saving fails.
func (b *Board) Submit(e Entry) (int, error) {
	e.Name = cleanName(e.Name)
	if e.Name == "" {
		return 0, ErrEmptyName
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Ties keep the earlier entry ahead.
	pos, _ := slices.BinarySearchFunc(b.entries, e.Score, func(x Entry, score int) int {
		if x.Score >= score {
			return -1
		}
		return 1
	})
	if pos >= b.limit {
		return 0, nil
	}
	b.entries = slices.Insert(b.entries, pos, e)
	if len(b.entries) > b.limit {
		b.entries = b.entries[:b.limit]
	}

	if err := b.save(); err != nil {
		return pos + 1, err
	}
	b.logger.Info("score recorded", "name", e.Name, "score", e.Score, "rank", pos+1)
	return pos + 1, nil
}

// Top returns up to n best entries. n <= 0 returns the whole table.
func (b *Board) Top(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	return slices.Clone(b.entries[:n])
}

// Qualifies reports whether score would enter the table.
func (b *Board) Qualifies(score int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries) < b.limit || score > b.entries[len(b.entries)-1].Score
}

// Reload replaces the in-memory table with the stored one, picking up
// games recorded by other processes.
func (b *Board) Reload() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load()
}

func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(x, y Entry) int {
		return cmp.Compare(y.Score, x.Score)
	})
}

// cleanName trims whitespace, drops control characters and caps the length.
func cleanName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if r := []rune(name); len(r) > MaxNameLength {
		name = string(r[:MaxNameLength])
	}
	return name
}
