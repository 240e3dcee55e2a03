package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/naturepower/internal/badges"
	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/gallery"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/learn"
	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/server"
	"github.com/abhisek/naturepower/internal/store"
	"github.com/abhisek/naturepower/internal/storesync"
	"github.com/abhisek/naturepower/internal/sweeper"
	"github.com/abhisek/naturepower/internal/teacher"
)

// container holds the opened store and every service built on it.
type container struct {
	kv       store.KV
	bus      *events.Bus
	catalog  *catalog.Catalog
	progress *progress.Service
	journal  *journal.Service
	badges   *badges.Service
	prefs    *prefs.Service
	learn    *learn.Service
	gallery  *gallery.Service
	teacher  *teacher.Service
}

func openContainer(ctx context.Context) (*container, error) {
	kv, err := store.Open(ctx, cfg.StoreOptions(), log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	bus := events.NewBus(log)
	cat := catalog.Default()
	if cfg.Catalog.Dir != "" {
		cat = catalog.Load(cfg.Catalog.Dir, log)
	}

	c := &container{kv: kv, bus: bus, catalog: cat}
	c.progress = progress.NewService(kv, bus, log)
	c.journal = journal.NewService(kv, bus, log)
	c.badges = badges.NewService(cat, c.progress)
	c.prefs = prefs.NewService(kv, bus, log)
	c.learn = learn.NewService(cat, c.progress, c.journal, log)
	c.gallery = gallery.NewService(kv, bus, log)
	c.teacher = teacher.NewService(c.journal, c.gallery, c.progress)
	return c, nil
}

func (c *container) Close() error {
	return c.kv.Close()
}

func (c *container) screens() *screen.Services {
	return &screen.Services{
		Catalog:  c.catalog,
		Progress: c.progress,
		Journal:  c.journal,
		Badges:   c.badges,
		Prefs:    c.prefs,
		Learn:    c.learn,
	}
}

func (c *container) serverDeps() *server.Deps {
	return &server.Deps{
		Catalog:  c.catalog,
		Progress: c.progress,
		Journal:  c.journal,
		Badges:   c.badges,
		Prefs:    c.prefs,
		Learn:    c.learn,
		Gallery:  c.gallery,
		Teacher:  c.teacher,
		Bus:      c.bus,
	}
}

func (c *container) sweeper() *sweeper.Sweeper {
	return sweeper.New(cfg.Sweep.Interval, log, c.progress, c.journal, c.gallery)
}

// syncer follows changes made by other processes sharing the store. It
// reports false for backends that cannot be watched.
func (c *container) syncer() (*storesync.Syncer, bool) {
	w, ok := storesync.Watcher(c.kv)
	if !ok {
		return nil, false
	}
	s := storesync.New(w, c.bus, log).
		Watch(store.KeyProgress, c.progress).
		Watch(store.KeyJournal, c.journal).
		Watch(store.KeyGallery, c.gallery).
		Watch(store.KeyGallerySettings).
		Watch(store.KeyPreferredTab).
		Watch(store.KeyReadAloud).
		Watch(store.KeyHighContrast).
		Watch(store.KeyReducedMotion)
	return s, true
}
