package i18n

import "testing"

func registerForTest(t *testing.T, cat *Catalog) {
	t.Helper()
	RegisterCatalog(cat)
	t.Cleanup(func() {
		catalogsMu.Lock()
		delete(catalogs, cat.Locale())
		catalogsMu.Unlock()
	})
}

func TestGetCatalogResolution(t *testing.T) {
	pt := NewCatalog("pt", map[Code]string{CodeNotFound: "Registro não encontrado"})
	registerForTest(t, pt)
	base := GetCatalog(BaseLocale)

	tests := []struct {
		locale string
		want   *Catalog
	}{
		{locale: "en-US", want: base},
		{locale: "en-us", want: base},
		{locale: "  ", want: base},
		{locale: "not a locale", want: base},
		{locale: "fr-FR", want: base},
		{locale: "pt", want: pt},
		{locale: "pt-br", want: pt},
	}
	for _, tt := range tests {
		if got := GetCatalog(tt.locale); got != tt.want {
			t.Fatalf("GetCatalog(%q) = %s, want %s", tt.locale, got.Locale(), tt.want.Locale())
		}
	}
}

func TestNewCatalogCanonicalizesLocale(t *testing.T) {
	if got := NewCatalog("pt-br", nil).Locale(); got != "pt-BR" {
		t.Fatalf("Locale = %q, want pt-BR", got)
	}
}

func TestFormat(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"greet":  "hello {{.Name}}",
		"broken": "{{ if .Name }}",
		"call":   "{{ call .Name }}",
	})

	tests := []struct {
		name     string
		code     Code
		metadata map[string]string
		want     string
	}{
		{name: "rendered", code: "greet", metadata: map[string]string{"Name": "Goku"}, want: "hello Goku"},
		{name: "missing metadata", code: "greet", want: "hello <no value>"},
		{name: "unknown code", code: "unknown", want: "unknown"},
		{name: "parse error", code: "broken", metadata: map[string]string{"Name": "X"}, want: "{{ if .Name }}"},
		{name: "execute error", code: "call", metadata: map[string]string{"Name": "X"}, want: "{{ call .Name }}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.Format(tt.code, tt.metadata); got != tt.want {
				t.Fatalf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnUSMessages(t *testing.T) {
	got := GetCatalog(BaseLocale).Format(CodeSlotNotFound, map[string]string{"SlotID": "abc"})
	if got != "Character slot abc does not exist" {
		t.Fatalf("Format = %q", got)
	}
}
