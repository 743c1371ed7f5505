package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitID(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		wantClassname string
		wantName      string
	}{
		{
			name:          "class based test",
			id:            "pkg.mod.MyCase.test_thing",
			wantClassname: "pkg.mod:MyCase",
			wantName:      "test_thing",
		},
		{
			name:          "deeply nested module",
			id:            "a.b.c.d.Case.test_x",
			wantClassname: "a.b.c.d:Case",
			wantName:      "test_x",
		},
		{
			name:          "module level function",
			id:            "mod.test_func",
			wantClassname: "mod",
			wantName:      "test_func",
		},
		{
			name:          "single segment",
			id:            "test_alone",
			wantClassname: "",
			wantName:      "test_alone",
		},
		{
			name:          "empty identifier",
			id:            "",
			wantClassname: "",
			wantName:      "",
		},
		{
			name:          "trailing dot",
			id:            "pkg.Case.",
			wantClassname: "pkg:Case",
			wantName:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classname, name := SplitID(tt.id)
			assert.Equal(t, tt.wantClassname, classname)
			assert.Equal(t, tt.wantName, name)
		})
	}
}
