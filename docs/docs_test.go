package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

type document struct {
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDocument(t *testing.T) (document, string) {
	t.Helper()
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("doc is not valid json: %v", err)
	}
	return doc, raw
}

func TestDoc_CoversRoutes(t *testing.T) {
	doc, _ := readDocument(t)

	for path, method := range map[string]string{
		"/auth/login":    "post",
		"/auth/register": "post",
		"/auth/me":       "get",
		"/auth/health":   "get",
		"/videos":        "get",
		"/videos/{id}":   "get",
		"/videos/search": "get",
		"/videos/stats":  "get",
		"/videos/import": "post",
	} {
		if _, ok := doc.Paths[path][method]; !ok {
			t.Errorf("missing %s %s", strings.ToUpper(method), path)
		}
	}
}

func TestDoc_RefsResolve(t *testing.T) {
	doc, raw := readDocument(t)

	const prefix = `"$ref": "#/definitions/`
	for rest := raw; ; {
		i := strings.Index(rest, prefix)
		if i < 0 {
			break
		}
		rest = rest[i+len(prefix):]
		name := rest[:strings.IndexByte(rest, '"')]
		if _, ok := doc.Definitions[name]; !ok {
			t.Errorf("unresolved definition %q", name)
		}
	}
}
