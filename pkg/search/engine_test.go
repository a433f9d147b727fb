package search

import (
	"testing"

	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

const engineConfig = `{
    "tyres": {
        "soft": {"grip": 1.1, "wear": 3, "cliff": [10, 12]},
        "hard": {"grip": 0.9, "wear": 1, "cliff": [20, 25]}
    },
    "dirty_air": {"enabled": true, "strength": 0.35},
    "notes": "soft compound test"
}`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	doc, err := jsondoc.ParseObject([]byte(engineConfig))
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	return NewEngine(formmap.NewForm(doc, formmap.DefaultBounds))
}

func paths(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Path
	}
	return out
}

func TestEngineSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "empty query matches all",
			query: "",
			want: []string{
				"tyres.soft.grip", "tyres.soft.wear", "tyres.soft.cliff",
				"tyres.hard.grip", "tyres.hard.wear", "tyres.hard.cliff",
				"dirty_air.enabled", "dirty_air.strength", "notes",
			},
		},
		{
			name:  "bare word matches path and value",
			query: "soft",
			want:  []string{"tyres.soft.grip", "tyres.soft.wear", "tyres.soft.cliff", "notes"},
		},
		{
			name:  "kind and numeric comparison",
			query: "kind:number value:>1",
			want:  []string{"tyres.soft.grip", "tyres.soft.wear"},
		},
		{
			name:  "less than",
			query: "value:<1",
			want:  []string{"tyres.hard.grip", "dirty_air.strength"},
		},
		{
			name:  "OR is evaluated left to right",
			query: "path:cliff OR kind:boolean",
			want:  []string{"tyres.soft.cliff", "tyres.hard.cliff", "dirty_air.enabled"},
		},
		{
			name:  "NOT inverts a condition",
			query: "section:tyres NOT path:grip NOT kind:list",
			want:  []string{"tyres.soft.wear", "tyres.hard.wear"},
		},
		{
			name:  "exact value compares numbers",
			query: "value:=3.0",
			want:  []string{"tyres.soft.wear"},
		},
		{
			name:  "list values are searchable",
			query: "value:25",
			want:  []string{"tyres.hard.cliff"},
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := e.Search(tt.query)
			if err != nil {
				t.Fatalf("Search(%q) error: %v", tt.query, err)
			}
			got := paths(results)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %s, want %s", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEngineSearchError(t *testing.T) {
	if _, err := newTestEngine(t).Search("bogus:1"); err == nil {
		t.Error("expected error for unknown field")
	}
}
