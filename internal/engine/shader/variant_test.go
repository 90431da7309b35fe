package shader

import (
	"errors"
	"strings"
	"testing"
)

func TestVariant(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		keywords []string
		want     string
	}{
		{"no keywords", "#version 410 core\nvoid main() {}\n", nil, "#version 410 core\nvoid main() {}\n"},
		{
			"after version",
			"#version 410 core\nvoid main() {}\n",
			[]string{"_B", "_A"},
			"#version 410 core\n#define _A\n#define _B\nvoid main() {}\n",
		},
		{
			"leading whitespace",
			"\n  #version 410 core\nx\n",
			[]string{"_A"},
			"#version 410 core\n#define _A\nx\n",
		},
		{"no version", "x\n", []string{"_A", "_A"}, "#define _A\nx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Variant(tt.src, tt.keywords); got != tt.want {
				t.Errorf("Variant = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariantKey(t *testing.T) {
	if VariantKey([]string{"b", "a"}) != VariantKey([]string{"a", "b", "a"}) {
		t.Error("key should ignore order and duplicates")
	}
	if VariantKey(nil) != "" {
		t.Error("empty keyword set should have an empty key")
	}
}

func TestCache(t *testing.T) {
	var compiled []string
	var next uint32
	compile := func(vs, fs string) (uint32, error) {
		if strings.Contains(fs, "#define _BROKEN") {
			return 0, errors.New("syntax error")
		}
		compiled = append(compiled, fs)
		next++
		return next, nil
	}
	destroyed := 0
	c := newCache("#version 410 core\n", "#version 410 core\n", compile, func(uint32) { destroyed++ })

	a, err := c.Program([]string{"_X", "_Y"})
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	b, _ := c.Program([]string{"_Y", "_X"})
	if a != b || len(compiled) != 1 {
		t.Errorf("reordered keywords recompiled: %d compiles", len(compiled))
	}
	if p, _ := c.Program(nil); p == a {
		t.Error("base variant should be a separate program")
	}
	if _, err := c.Program([]string{"_BROKEN"}); err == nil {
		t.Error("expected compile error")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	c.Destroy()
	if destroyed != 2 || c.Len() != 0 {
		t.Errorf("destroyed %d, len %d", destroyed, c.Len())
	}
}
