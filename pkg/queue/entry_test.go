package queue

import (
	"encoding/json"
	"testing"
)

func TestValueJSONShape(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"single", Value{"Ada"}, `"Ada"`},
		{"multi", Value{"swim", "art"}, `["swim","art"]`},
		{"empty", Value{}, `[]`},
		{"nil", nil, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValueUnmarshal(t *testing.T) {
	var e Entry
	if err := json.Unmarshal([]byte(`{"name":"Ada","programs":["swim","art"]}`), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := e.Get("name"); got != "Ada" {
		t.Errorf("name = %q", got)
	}
	if got := e["programs"]; len(got) != 2 || got[1] != "art" {
		t.Errorf("programs = %v", got)
	}

	if err := json.Unmarshal([]byte(`{"n":42}`), &e); err == nil {
		t.Error("expected error for numeric value")
	}
}

func TestEntryHelpers(t *testing.T) {
	e := Entry{}
	e.Set("name", "Ada")
	e.Add("programs", "swim")
	e.Add("programs", "art")

	if !e.Has("name") || e.Has("missing") {
		t.Error("Has mismatch")
	}
	if got := e["programs"].String(); got != "swim, art" {
		t.Errorf("String() = %q", got)
	}
	keys := e.Keys()
	if len(keys) != 2 || keys[0] != "name" || keys[1] != "programs" {
		t.Errorf("Keys() = %v", keys)
	}

	c := e.Clone()
	c["programs"][0] = "chess"
	if e["programs"][0] != "swim" {
		t.Error("Clone shares storage with original")
	}
}

func TestDecodeEntries(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"whitespace", "  \n", 0, false},
		{"null", "null", 0, false},
		{"array", `[{"a":"1"},{"b":["1","2"]}]`, 2, false},
		{"null element", `[{"a":"1"},null]`, 1, false},
		{"object", `{"a":"1"}`, 0, true},
		{"garbage", `{not json`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEntries([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}
