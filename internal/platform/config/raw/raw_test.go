package raw

import "testing"

func TestConfGet(t *testing.T) {
	t.Setenv("APP_NAME", " admetry ")
	t.Setenv("LOG_LEVEL", " info ")

	root := New()
	log := root.Prefix("LOG_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root no default used", conf: root, key: "APP_NAME", def: "x", want: "admetry"},
		{name: "prefixed hit", conf: log, key: "LEVEL", def: "x", want: "info"},
		{name: "missing returns default", conf: log, key: "MISSING", def: "defv", want: "defv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfGetBool(t *testing.T) {
	log := New().Prefix("LOG_")

	t.Setenv("LOG_T1", "true")
	t.Setenv("LOG_T2", "1")
	t.Setenv("LOG_T3", "YES")
	t.Setenv("LOG_F1", "false")
	t.Setenv("LOG_F2", "0")
	t.Setenv("LOG_F3", "no")
	t.Setenv("LOG_WS", "   true   ")

	tests := []struct {
		name string
		key  string
		def  bool
		want bool
	}{
		{name: "true", key: "T1", def: false, want: true},
		{name: "1", key: "T2", def: false, want: true},
		{name: "YES", key: "T3", def: false, want: true},
		{name: "false", key: "F1", def: true, want: false},
		{name: "0", key: "F2", def: true, want: false},
		{name: "no", key: "F3", def: true, want: false},
		{name: "whitespace trimmed", key: "WS", def: false, want: true},
		{name: "missing uses default true", key: "MISSING", def: true, want: true},
		{name: "missing uses default false", key: "MISSING2", def: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := log.GetBool(tt.key, tt.def); got != tt.want {
				t.Fatalf("GetBool(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfGetInt(t *testing.T) {
	sys := New().Prefix("SYS_")

	t.Setenv("SYS_OK", "42")
	t.Setenv("SYS_WS", "  7  ")
	t.Setenv("SYS_NONNUM", "12x")

	tests := []struct {
		name string
		key  string
		def  int
		want int
	}{
		{name: "numeric", key: "OK", def: 0, want: 42},
		{name: "trimmed", key: "WS", def: 1, want: 7},
		{name: "non numeric falls back", key: "NONNUM", def: 9, want: 9},
		{name: "missing uses default", key: "MISSING", def: 11, want: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sys.GetInt(tt.key, tt.def); got != tt.want {
				t.Fatalf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestPrefixComposition(t *testing.T) {
	root := New()
	log := root.Prefix("LOG_")
	core := root.Prefix("CORE_")
	coreRollup := core.Prefix("ROLLUP_")

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("CORE_LEVEL", "debug")
	t.Setenv("CORE_ROLLUP_MODE", "strict")

	if got := log.Get("LEVEL", ""); got != "info" {
		t.Fatalf("LOG_.Get LEVEL = %q", got)
	}
	if got := core.Get("LEVEL", ""); got != "debug" {
		t.Fatalf("CORE_.Get LEVEL = %q", got)
	}
	if got := coreRollup.Get("MODE", ""); got != "strict" {
		t.Fatalf("CORE_ROLLUP_.Get MODE = %q", got)
	}
}
