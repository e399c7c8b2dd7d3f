package workspace

import "testing"

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "database.db", want: true},
		{name: "my-test_DB2.db", want: true},
		{name: "a.db", want: true},
		{name: "", want: false},
		{name: ".db", want: false},
		{name: "nosuffix", want: false},
		{name: "wrong.sqlite", want: false},
		{name: "has space.db", want: false},
		{name: "sub/dir.db", want: false},
		{name: "../escape.db", want: false},
		{name: "dots.in.name.db", want: false},
		{name: "umlaut-ä.db", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidName(tt.name); got != tt.want {
				t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSessionRejectsInvalidNames(t *testing.T) {
	ws := New(t.TempDir())

	if _, err := ws.Session("../../etc/passwd.db"); err == nil {
		t.Error("expected error for path-traversal name")
	}
	if _, err := ws.Session("ok.db"); err != nil {
		t.Errorf("unexpected error for valid name: %v", err)
	}
}

func TestListMissingDirectory(t *testing.T) {
	ws := New(t.TempDir() + "/does-not-exist")

	names, err := ws.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}
}
