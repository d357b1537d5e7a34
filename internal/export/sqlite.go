package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/graph"
)

const graphSchema = `
CREATE TABLE nodes (
	slug TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	title TEXT NOT NULL,
	url TEXT NOT NULL
);
CREATE TABLE edges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	relation TEXT NOT NULL
);
CREATE TABLE associations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL,
	section TEXT NOT NULL,
	position INTEGER NOT NULL,
	related TEXT NOT NULL,
	service_count INTEGER
);
CREATE INDEX idx_edges_source ON edges(source);
CREATE INDEX idx_associations_slug ON associations(slug);
`

// WriteGraphDB writes nodes, declared edges and the association map into a
// fresh SQLite database at path. Any existing file is replaced.
func WriteGraphDB(ctx context.Context, path string, g *graph.Graph, m *association.Map) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)
	if err := writeGraphDB(ctx, tmp, g, m); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename graph db: %w", err)
	}
	return nil
}

func writeGraphDB(ctx context.Context, path string, g *graph.Graph, m *association.Map) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, graphSchema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exp := g.Export()
	for _, slug := range sortedKeys(exp.Nodes) {
		n := exp.Nodes[slug]
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO nodes (slug, type, title, url) VALUES (?, ?, ?, ?)",
			slug, n.Type, n.Title, n.URL,
		); err != nil {
			return fmt.Errorf("insert node %s: %w", slug, err)
		}
	}
	for _, e := range exp.Edges {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO edges (source, target, relation) VALUES (?, ?, ?)",
			e.From, e.To, e.Type,
		); err != nil {
			return fmt.Errorf("insert edge %s→%s: %w", e.From, e.To, err)
		}
	}
	for _, slug := range m.Catalog.Slugs() {
		rels, _ := m.Get(slug)
		for _, group := range rels.Groups() {
			for pos, card := range rels.Get(group) {
				var count any
				if card.ServiceCount != nil {
					count = *card.ServiceCount
				}
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO associations (slug, section, position, related, service_count) VALUES (?, ?, ?, ?, ?)",
					slug, group, pos, card.Slug, count,
				); err != nil {
					return fmt.Errorf("insert association %s/%s: %w", slug, group, err)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit graph db: %w", err)
	}
	return nil
}
