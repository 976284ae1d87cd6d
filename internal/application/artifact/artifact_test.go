package artifact

import (
	"reflect"
	"strings"
	"testing"

	"veo-prompt-studio/internal/domain/entity"
)

const twoSceneJSON = `{
  "scenes": [
    {"sceneNumber": 1, "shots": [
      {"shotNumber": 1, "duration": 8, "prompt": "A wide shot of a neon city at night."},
      {"shotNumber": 2, "duration": 8, "prompt": "Close-up of Linh. The character Linh says: \"Đi thôi.\""}
    ]},
    {"sceneNumber": 2, "shots": [
      {"shotNumber": 1, "duration": 8, "prompt": "Rain on a window <slow motion> & reflections."}
    ]}
  ]
}`

func mustParse(t *testing.T, kind entity.ArtifactKind, text string) *Document {
	t.Helper()
	doc, ok := TryParse(kind, text)
	if !ok {
		t.Fatalf("TryParse(%s) failed for %q", kind, text)
	}
	return doc
}

func TestTryParse(t *testing.T) {
	cases := []struct {
		name string
		kind entity.ArtifactKind
		text string
		want bool
	}{
		{"scenes array", entity.ArtifactKindVeoPrompt, twoSceneJSON, true},
		{"empty scenes", entity.ArtifactKindVeoPrompt, `{"scenes": []}`, true},
		{"description variant", entity.ArtifactKindVeoPrompt, `{"scenes":[{"sceneNumber":1,"description":"x"}]}`, true},
		{"characters", entity.ArtifactKindCharacters, `{"characters":[{"name":"An","description":"tall"}]}`, true},
		{"prose", entity.ArtifactKindVeoPrompt, "SCENE 1: a city at night", false},
		{"invalid json", entity.ArtifactKindVeoPrompt, `{"scenes": [`, false},
		{"scenes not array", entity.ArtifactKindVeoPrompt, `{"scenes": {"sceneNumber": 1}}`, false},
		{"missing field", entity.ArtifactKindVeoPrompt, `{"shots": []}`, false},
		{"wrong kind", entity.ArtifactKindCharacters, twoSceneJSON, false},
		{"top level array", entity.ArtifactKindVeoPrompt, `[{"scenes": []}]`, false},
		{"wrong element shape", entity.ArtifactKindVeoPrompt, `{"scenes": [1, 2]}`, false},
		{"script kind", entity.ArtifactKindScript, twoSceneJSON, false},
		{"empty", entity.ArtifactKindVeoPrompt, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := TryParse(tc.kind, tc.text)
			if ok != tc.want {
				t.Fatalf("TryParse ok = %v, want %v", ok, tc.want)
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	inputs := []struct {
		kind entity.ArtifactKind
		text string
	}{
		{entity.ArtifactKindVeoPrompt, twoSceneJSON},
		{entity.ArtifactKindVeoPrompt, `{"scenes":[{"sceneNumber":1,"shots":[]},{"sceneNumber":2,"description":"fog"}]}`},
		{entity.ArtifactKindCharacters, `{"characters":[{"name":"An","description":"tall, wears a red scarf"}]}`},
	}
	for _, in := range inputs {
		a := mustParse(t, in.kind, in.text)
		text, err := Serialize(a)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		b := mustParse(t, in.kind, text)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("round trip mismatch:\n%#v\n%#v", a, b)
		}
		again, _ := Serialize(b)
		if again != text {
			t.Fatalf("serialization not stable:\n%s\n%s", text, again)
		}
	}
}

func TestSerializeUsesTwoSpaceIndentAndKeepsMarkup(t *testing.T) {
	doc := mustParse(t, entity.ArtifactKindVeoPrompt, twoSceneJSON)
	text, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "{\n  \"scenes\": [\n    {\n      \"sceneNumber\": 1,") {
		t.Fatalf("unexpected layout:\n%s", text)
	}
	if !strings.Contains(text, "<slow motion> & reflections") {
		t.Fatalf("html characters should not be escaped:\n%s", text)
	}
	if strings.HasSuffix(text, "\n") {
		t.Fatal("trailing newline")
	}
}

func TestReplaceFieldChangesExactlyOneLeaf(t *testing.T) {
	doc := mustParse(t, entity.ArtifactKindVeoPrompt, twoSceneJSON)

	next, err := ReplaceField(doc, ShotPrompt(0, 1), "Close-up of Linh, smiling.")
	if err != nil {
		t.Fatalf("ReplaceField: %v", err)
	}

	want := mustParse(t, entity.ArtifactKindVeoPrompt, twoSceneJSON)
	want.Prompt.Scenes[0].Shots[1].Prompt = "Close-up of Linh, smiling."
	if !reflect.DeepEqual(next.Prompt, want.Prompt) {
		t.Fatalf("unexpected document:\n%#v", next.Prompt)
	}
	if doc.Prompt.Scenes[0].Shots[1].Prompt == "Close-up of Linh, smiling." {
		t.Fatal("input document was mutated")
	}
}

func TestReplaceFieldKeepsUnknownFields(t *testing.T) {
	doc := mustParse(t, entity.ArtifactKindVeoPrompt,
		`{"title":"Harbor","scenes":[{"sceneNumber":1,"camera":"dolly","shots":[{"shotNumber":1,"duration":8,"prompt":"a","lens":"35mm"},{"shotNumber":2,"duration":8,"prompt":"b"}]}]}`)

	next, err := ReplaceField(doc, ShotPrompt(0, 1), "B & <b>")
	if err != nil {
		t.Fatalf("ReplaceField: %v", err)
	}
	text, err := Serialize(next)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "title": "Harbor",
  "scenes": [
    {
      "sceneNumber": 1,
      "camera": "dolly",
      "shots": [
        {
          "shotNumber": 1,
          "duration": 8,
          "prompt": "a",
          "lens": "35mm"
        },
        {
          "shotNumber": 2,
          "duration": 8,
          "prompt": "B & <b>"
        }
      ]
    }
  ]
}`
	if text != want {
		t.Fatalf("unexpected document:\n%s", text)
	}
}

func TestSerializeKeepsUnknownFieldsAndOrder(t *testing.T) {
	doc := mustParse(t, entity.ArtifactKindCharacters, `{"characters":[{"description":"tall","name":"An","age":30}],"note":"draft"}`)
	text, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"characters\": [\n    {\n      \"description\": \"tall\",\n      \"name\": \"An\",\n      \"age\": 30\n    }\n  ],\n  \"note\": \"draft\"\n}"
	if text != want {
		t.Fatalf("unexpected document:\n%s", text)
	}
}

func TestApplyPatch(t *testing.T) {
	doc := mustParse(t, entity.ArtifactKindVeoPrompt, twoSceneJSON)

	next, err := ApplyPatch(doc, []byte(`[
		{"op": "test", "path": "/scenes/1/shots/0/prompt", "value": "Rain on a window <slow motion> & reflections."},
		{"op": "replace", "path": "/scenes/0/shots/0/prompt", "value": "Dawn over the city."},
		{"op": "replace", "path": "/scenes/1/shots/0/prompt", "value": "Rain stops."}
	]`))
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if got := next.Prompt.Scenes[0].Shots[0].Prompt; got != "Dawn over the city." {
		t.Fatalf("shot 1 = %q", got)
	}
	if got := next.Prompt.Scenes[1].Shots[0].Prompt; got != "Rain stops." {
		t.Fatalf("scene 2 shot 1 = %q", got)
	}
	if got := next.Prompt.Scenes[0].Shots[1].Prompt; got != doc.Prompt.Scenes[0].Shots[1].Prompt {
		t.Fatalf("untouched shot changed: %q", got)
	}

	bad := map[string]string{
		"not a patch":   `{"op": "replace"}`,
		"empty":         `[]`,
		"remove":        `[{"op": "remove", "path": "/scenes/0"}]`,
		"add":           `[{"op": "add", "path": "/scenes/0/shots/0/prompt", "value": "x"}]`,
		"numeric value": `[{"op": "replace", "path": "/scenes/0/shots/0/prompt", "value": 3}]`,
		"non-leaf path": `[{"op": "replace", "path": "/scenes/0/sceneNumber", "value": "2"}]`,
		"missing leaf":  `[{"op": "replace", "path": "/scenes/9/shots/0/prompt", "value": "x"}]`,
		"failed test":   `[{"op": "test", "path": "/scenes/0/shots/0/prompt", "value": "nope"}, {"op": "replace", "path": "/scenes/0/shots/0/prompt", "value": "x"}]`,
	}
	for name, patch := range bad {
		if _, err := ApplyPatch(doc, []byte(patch)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestReplaceFieldDescriptionAndCharacter(t *testing.T) {
	scenes := mustParse(t, entity.ArtifactKindVeoPrompt, `{"scenes":[{"sceneNumber":3,"description":"old"}]}`)
	next, err := ReplaceField(scenes, SceneDescription(0), "new \"quoted\" text")
	if err != nil {
		t.Fatal(err)
	}
	if got := *next.Prompt.Scenes[0].Description; got != "new \"quoted\" text" {
		t.Fatalf("description = %q", got)
	}
	if next.Prompt.Scenes[0].SceneNumber != 3 {
		t.Fatal("numbering changed")
	}

	roster := mustParse(t, entity.ArtifactKindCharacters, `{"characters":[{"name":"An","description":"a"},{"name":"Bình","description":"b"}]}`)
	next, err = ReplaceField(roster, CharacterDescription(1), "short hair")
	if err != nil {
		t.Fatal(err)
	}
	if next.Roster.Characters[1].Description != "short hair" || next.Roster.Characters[1].Name != "Bình" {
		t.Fatalf("roster = %+v", next.Roster.Characters)
	}
}

func TestReplaceFieldRejectsMissingLeaf(t *testing.T) {
	doc := mustParse(t, entity.ArtifactKindVeoPrompt, twoSceneJSON)
	bad := []FieldPath{
		ShotPrompt(5, 0),
		ShotPrompt(1, 3),
		ShotPrompt(-1, 0),
		SceneDescription(0),
		CharacterDescription(0),
	}
	for _, p := range bad {
		if _, err := ReplaceField(doc, p, "x"); err == nil {
			t.Errorf("ReplaceField(%s) should fail", p.Pointer())
		}
	}
}

func TestParseFieldPath(t *testing.T) {
	for _, p := range []FieldPath{ShotPrompt(2, 0), SceneDescription(4), CharacterDescription(1)} {
		got, err := ParseFieldPath(p.Pointer())
		if err != nil || got != p {
			t.Errorf("ParseFieldPath(%q) = %+v, %v", p.Pointer(), got, err)
		}
	}
	for _, s := range []string{"", "/scenes/0", "/scenes/x/shots/0/prompt", "/scenes/0/shots/0/duration", "/characters/-1/description"} {
		if _, err := ParseFieldPath(s); err == nil {
			t.Errorf("ParseFieldPath(%q) should fail", s)
		}
	}
}

func TestExport(t *testing.T) {
	doc := mustParse(t, entity.ArtifactKindVeoPrompt, twoSceneJSON)
	out, err := Export(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := "SCENE 1 - SHOT 1\nA wide shot of a neon city at night." +
		"\n\n---\n\n" +
		"SCENE 1 - SHOT 2\nClose-up of Linh. The character Linh says: \"Đi thôi.\"" +
		"\n\n---\n\n" +
		"SCENE 2 - SHOT 1\nRain on a window <slow motion> & reflections."
	if out != want {
		t.Fatalf("export mismatch:\n%s", out)
	}

	scenes := mustParse(t, entity.ArtifactKindVeoPrompt, `{"scenes":[{"sceneNumber":1,"description":"fog rolls in"}]}`)
	out, _ = Export(scenes)
	if out != "SCENE 1\nfog rolls in" {
		t.Fatalf("description export = %q", out)
	}

	roster := mustParse(t, entity.ArtifactKindCharacters, `{"characters":[{"name":"An","description":"tall"}]}`)
	out, _ = Export(roster)
	if out != "CHARACTER An\ntall" {
		t.Fatalf("roster export = %q", out)
	}
	if got := RosterText(roster); got != "An: tall" {
		t.Fatalf("RosterText = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	out, ok := Normalize(entity.ArtifactKindCharacters, `{"characters":[{"name":"An","description":"tall"}]}`)
	if !ok || !strings.Contains(out, "\n  \"characters\": [") {
		t.Fatalf("Normalize = %q, %v", out, ok)
	}
	prose := "just text"
	if out, ok := Normalize(entity.ArtifactKindVeoPrompt, prose); ok || out != prose {
		t.Fatalf("prose should pass through unchanged")
	}
}
