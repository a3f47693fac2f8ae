package media

import (
	"strings"
	"testing"
)

func TestBuildAssetFilter(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		where, args := buildAssetFilter(ChooserQuery{})
		if where != "" || len(args) != 0 {
			t.Errorf("where = %q, args = %v", where, args)
		}
	})

	t.Run("all filters", func(t *testing.T) {
		where, args := buildAssetFilter(ChooserQuery{
			UploaderID:   "u1",
			Type:         "audio",
			CollectionID: "c1",
			Tag:          "sea",
		})
		for _, cond := range []string{"m.uploaded_by = ?", "m.type = ?", "m.collection_id = ?", "t.name = ?"} {
			if !strings.Contains(where, cond) {
				t.Errorf("missing condition %q in %q", cond, where)
			}
		}
		if len(args) != 4 {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("search replaces tag filter", func(t *testing.T) {
		where, args := buildAssetFilter(ChooserQuery{
			Tag:       "sea",
			Searching: true,
			SearchIDs: []string{"m1", "m2"},
		})
		if strings.Contains(where, "t.name") {
			t.Errorf("tag filter must not apply while searching: %q", where)
		}
		if !strings.Contains(where, "m.id IN (?,?)") {
			t.Errorf("missing ID set condition: %q", where)
		}
		if len(args) != 2 {
			t.Errorf("args = %v", args)
		}
	})
}

func TestTagJoin(t *testing.T) {
	if got := tagJoin(ChooserQuery{Tag: "sea"}); !strings.Contains(got, "media_tags") {
		t.Errorf("tag query needs the join: %q", got)
	}
	if got := tagJoin(ChooserQuery{}); got != "" {
		t.Errorf("no tag, no join: %q", got)
	}
	if got := tagJoin(ChooserQuery{Tag: "sea", Searching: true}); got != "" {
		t.Errorf("search suppresses the tag join: %q", got)
	}
}

func TestOrderClause(t *testing.T) {
	cases := map[string]string{
		OrderTitleAsc:    "ORDER BY m.title ASC",
		OrderTitleDesc:   "ORDER BY m.title DESC",
		OrderCreatedAsc:  "ORDER BY m.created_at ASC",
		OrderCreatedDesc: "ORDER BY m.created_at DESC",
		"":               "ORDER BY m.created_at DESC",
	}
	for ordering, want := range cases {
		clause, args := orderClause(ChooserQuery{Ordering: ordering})
		if !strings.Contains(clause, want) {
			t.Errorf("ordering %q: clause = %q", ordering, clause)
		}
		if len(args) != 0 {
			t.Errorf("ordering %q: unexpected args %v", ordering, args)
		}
	}
}

func TestOrderClausePreservesSearchRanking(t *testing.T) {
	clause, args := orderClause(ChooserQuery{
		Searching: true,
		SearchIDs: []string{"m3", "m1", "m2"},
	})
	if !strings.Contains(clause, "ORDER BY FIELD(m.id, ?,?,?)") {
		t.Errorf("clause = %q", clause)
	}
	if len(args) != 3 || args[0] != "m3" {
		t.Errorf("args = %v", args)
	}
}
