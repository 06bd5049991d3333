package catalog

import "testing"

func TestParseObjectRef(t *testing.T) {
	tests := []struct {
		in   string
		want ObjectRef
	}{
		{"evt", ObjectRef{Table: "evt"}},
		{"logs.evt", ObjectRef{Database: "logs", Table: "evt"}},
		{"cat.logs.evt", ObjectRef{Catalog: "cat", Database: "logs", Table: "evt"}},
		{"cat.logs.evt.v2", ObjectRef{Catalog: "cat", Database: "logs", Table: "evt.v2"}},
	}

	for _, tt := range tests {
		got := ParseObjectRef(tt.in)
		if got != tt.want {
			t.Errorf("ParseObjectRef(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestResolveFillsContext(t *testing.T) {
	tests := []struct {
		in   string
		want ResolvedRef
	}{
		{"evt", ResolvedRef{Catalog: "default_catalog", Database: "public", Table: "evt"}},
		{"logs.evt", ResolvedRef{Catalog: "default_catalog", Database: "logs", Table: "evt"}},
		{"other.logs.evt", ResolvedRef{Catalog: "other", Database: "logs", Table: "evt"}},
	}

	for _, tt := range tests {
		got := ParseObjectRef(tt.in).Resolve("default_catalog", "public")
		if got != tt.want {
			t.Errorf("resolve %q = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

// TestResolveIdempotent checks that a fully qualified reference resolves
// to itself under any context.
func TestResolveIdempotent(t *testing.T) {
	ref := ParseObjectRef("cat.db.table")
	contexts := [][2]string{
		{"default_catalog", "public"},
		{"cat", "db"},
		{"", ""},
	}

	for _, c := range contexts {
		got := ref.Resolve(c[0], c[1])
		want := ResolvedRef{Catalog: "cat", Database: "db", Table: "table"}
		if got != want {
			t.Errorf("resolve under (%q, %q) = %+v, want %+v", c[0], c[1], got, want)
		}
	}
}

func TestResolvedRefString(t *testing.T) {
	r := ResolvedRef{Catalog: "cat", Database: "db", Table: "tbl"}
	if got := r.String(); got != "cat.db.tbl" {
		t.Errorf("String() = %q, want %q", got, "cat.db.tbl")
	}
}
