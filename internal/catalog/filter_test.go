package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name     string
	category string
}

func (i item) CategoryLabel() string { return i.category }

var items = []item{
	{"dental", "Web Design"},
	{"kicks", "E-Commerce"},
	{"lodge", "Web Design"},
	{"legal", "Branding"},
	{"crafts", "E-Commerce"},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{"all", All, []string{"dental", "kicks", "lodge", "legal", "crafts"}},
		{"empty selection means all", "", []string{"dental", "kicks", "lodge", "legal", "crafts"}},
		{"web design keeps order", "Web Design", []string{"dental", "lodge"}},
		{"single match", "Branding", []string{"legal"}},
		{"unknown label", "Photography", []string{}},
		{"labels are exact", "web design", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.category)
			require.NotNil(t, got)

			names := make([]string, 0, len(got))
			for _, it := range got {
				names = append(names, it.name)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.category, diff)
			}
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	for _, category := range Categories(items) {
		once := Filter(items, category)
		twice := Filter(once, category)
		assert.Equal(t, once, twice, "filtering %q twice should not change the result", category)
	}
}

func TestFilter_AllIsCopy(t *testing.T) {
	got := Filter(items, All)
	require.Len(t, got, len(items))
	assert.Equal(t, items, got)

	got[0].name = "mutated"
	assert.Equal(t, "dental", items[0].name, "result must not alias the source list")
}

func TestFilter_NilInput(t *testing.T) {
	assert.Empty(t, Filter[item](nil, "Branding"))
	assert.Empty(t, Filter[item](nil, All))
}

func TestCategories(t *testing.T) {
	assert.Equal(t,
		[]string{All, "Web Design", "E-Commerce", "Branding"},
		Categories(items))
	assert.Equal(t, []string{All}, Categories[item](nil))
}

func TestNormalize(t *testing.T) {
	labels := Categories(items)

	tests := []struct {
		raw  string
		want string
	}{
		{"Web Design", "Web Design"},
		{"web-design", "Web Design"},
		{"WEB DESIGN", "Web Design"},
		{"e-commerce", "E-Commerce"},
		{"  Branding ", "Branding"},
		{"", All},
		{"all", All},
		{"<script>", All},
		{"Photography", All},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(labels, tt.raw))
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "web-design", Slug("Web Design"))
	assert.Equal(t, "e-commerce", Slug("E-Commerce"))
	assert.Equal(t, "web-apps", Slug("  Web   Apps "))
	assert.Equal(t, "", Slug("!!"))
}
