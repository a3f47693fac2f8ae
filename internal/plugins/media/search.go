package media

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	"github.com/redis/go-redis/v9"

	"github.com/curiocms/curio/internal/apperror"
)

// searchLimit caps how many IDs a backend may return for one query.
const searchLimit = 1000

// SearchBackend indexes media assets and resolves search terms to ranked
// asset IDs. Every configured backend is updated synchronously when an
// asset is created, so a chooser search immediately after an upload sees
// the new asset.
type SearchBackend interface {
	// Search returns asset IDs matching the terms, best match first.
	Search(ctx context.Context, terms string) ([]string, error)

	// Add indexes a newly created asset.
	Add(ctx context.Context, asset *MediaAsset) error
}

// --- MariaDB backend ---

// databaseSearchBackend searches asset titles with a FULLTEXT index. The
// index is maintained by the database on write, so Add is a no-op.
type databaseSearchBackend struct {
	db *sql.DB
}

// NewDatabaseSearchBackend creates the primary, MariaDB-backed search
// backend.
func NewDatabaseSearchBackend(db *sql.DB) SearchBackend {
	return &databaseSearchBackend{db: db}
}

func (b *databaseSearchBackend) Search(ctx context.Context, terms string) ([]string, error) {
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return []string{}, nil
	}

	// InnoDB FULLTEXT ignores words shorter than its minimum token size, so
	// very short queries fall back to a prefix match.
	var rows *sql.Rows
	var err error
	if len(terms) < 3 {
		rows, err = b.db.QueryContext(ctx, `
			SELECT id FROM media_assets
			WHERE title LIKE ?
			ORDER BY created_at DESC
			LIMIT ?`,
			terms+"%", searchLimit)
	} else {
		rows, err = b.db.QueryContext(ctx, `
			SELECT id FROM media_assets
			WHERE MATCH(title) AGAINST (? IN NATURAL LANGUAGE MODE)
			ORDER BY MATCH(title) AGAINST (? IN NATURAL LANGUAGE MODE) DESC
			LIMIT ?`,
			terms, terms, searchLimit)
	}
	if err != nil {
		return nil, apperror.NewInternal("media search query failed", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewInternal("failed to scan search result", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("failed to read search results", err)
	}
	return ids, nil
}

func (b *databaseSearchBackend) Add(ctx context.Context, asset *MediaAsset) error {
	// FULLTEXT index rows are written with the asset insert.
	return nil
}

// --- Redis backend ---

// redisSearchBackend keeps a term index in Redis: one set of asset IDs per
// title token. A query intersects the sets of its tokens.
type redisSearchBackend struct {
	rdb *redis.Client
}

// NewRedisSearchBackend creates the secondary, Redis-backed search backend.
func NewRedisSearchBackend(rdb *redis.Client) SearchBackend {
	return &redisSearchBackend{rdb: rdb}
}

func termKey(token string) string {
	return "search:media:" + token
}

func (b *redisSearchBackend) Search(ctx context.Context, terms string) ([]string, error) {
	tokens := tokenize(terms)
	if len(tokens) == 0 {
		return []string{}, nil
	}

	keys := make([]string, len(tokens))
	for i, tok := range tokens {
		keys[i] = termKey(tok)
	}
	ids, err := b.rdb.SInter(ctx, keys...).Result()
	if err != nil {
		return nil, apperror.NewInternal("redis media search failed", err)
	}
	if len(ids) > searchLimit {
		ids = ids[:searchLimit]
	}
	return ids, nil
}

func (b *redisSearchBackend) Add(ctx context.Context, asset *MediaAsset) error {
	tokens := tokenize(asset.Title)
	if len(tokens) == 0 {
		return nil
	}
	pipe := b.rdb.Pipeline()
	for _, tok := range tokens {
		pipe.SAdd(ctx, termKey(tok), asset.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperror.NewInternal("failed to index media asset", err)
	}
	return nil
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// single-character tokens and duplicates.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := map[string]bool{}
	tokens := []string{}
	for _, f := range fields {
		if len(f) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}
