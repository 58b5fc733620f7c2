package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/algoquest/internal/steps"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func loadFile(fsys fs.FS, name, schemaName string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	// The validator and decoder both want JSON-shaped values.
	value, err := toJSONValue(doc)
	if err != nil {
		return fmt.Errorf("convert %s: %w", name, err)
	}

	compiled, err := compiledSchema(schemaName)
	if err != nil {
		return err
	}
	if err := compiled.Validate(value); err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	m, _ := value.(map[string]any)
	if err := checkVersion(m["schema_version"]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := mapstructure.Decode(value, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func toJSONValue(doc any) (any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func checkVersion(v any) error {
	s, _ := v.(string)
	if !semver.IsValid(s) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrVersion, s)
	}
	if major := semver.Major(s); major != SupportedMajor {
		return fmt.Errorf("%w: %s, want %s.x.y", ErrVersion, s, SupportedMajor)
	}
	return nil
}

func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	raw, err := schemaFS.ReadFile("schema/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("read schema %q: %w", name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// normalize turns decoded json.Number wants into int or []int.
func normalize(cat *Catalog) error {
	for i := range cat.Challenges {
		ch := &cat.Challenges[i]
		for j := range ch.Cases {
			want, err := intOrInts(ch.Cases[j].Want)
			if err != nil {
				return fmt.Errorf("challenge %s case %d: %w", ch.ID, j+1, err)
			}
			ch.Cases[j].Want = want
		}
	}
	return nil
}

func intOrInts(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return nil, fmt.Errorf("want %q is not an integer", t)
		}
		return int(n), nil
	case int:
		return t, nil
	case []int:
		return t, nil
	case []any:
		out := make([]int, len(t))
		for i, e := range t {
			n, err := intOrInts(e)
			if err != nil {
				return nil, err
			}
			iv, ok := n.(int)
			if !ok {
				return nil, fmt.Errorf("nested lists are not supported")
			}
			out[i] = iv
		}
		return out, nil
	}
	return nil, fmt.Errorf("want has unsupported type %T", v)
}

// check enforces the references a schema cannot express.
func check(cat *Catalog) error {
	seen := map[string]bool{}
	for _, a := range cat.Achievements {
		if seen["a:"+a.ID] {
			return fmt.Errorf("duplicate achievement id %q", a.ID)
		}
		seen["a:"+a.ID] = true
		if !a.Metric.Known() {
			return fmt.Errorf("achievement %s: unknown metric %q", a.ID, a.Metric)
		}
		if !a.Rarity.Valid() {
			return fmt.Errorf("achievement %s: unknown rarity %q", a.ID, a.Rarity)
		}
		if a.MaxProgress < a.Threshold {
			return fmt.Errorf("achievement %s: max_progress %d below threshold %d", a.ID, a.MaxProgress, a.Threshold)
		}
	}

	for _, t := range cat.Tutorials {
		if seen["t:"+t.ID] {
			return fmt.Errorf("duplicate tutorial id %q", t.ID)
		}
		seen["t:"+t.ID] = true
		if t.Algorithm != "" {
			if _, err := steps.Lookup(t.Algorithm); err != nil {
				return fmt.Errorf("tutorial %s: %w", t.ID, err)
			}
		}
	}

	for _, ch := range cat.Challenges {
		if seen["c:"+ch.ID] {
			return fmt.Errorf("duplicate challenge id %q", ch.ID)
		}
		seen["c:"+ch.ID] = true
		if ch.Algorithm != "" {
			if _, err := steps.Lookup(ch.Algorithm); err != nil {
				return fmt.Errorf("challenge %s: %w", ch.ID, err)
			}
		}
	}
	return nil
}
