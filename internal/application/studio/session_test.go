package studio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/application/editor"
	"veo-prompt-studio/internal/application/generation"
	"veo-prompt-studio/internal/application/prompt"
	"veo-prompt-studio/internal/domain/entity"
	apperrors "veo-prompt-studio/pkg/errors"
)

type staticCredential string

func (c staticCredential) Current() string { return string(c) }

// fakeBackend 实现 generation.Backend，按类型返回预设响应
type fakeBackend struct {
	mu       sync.Mutex
	calls    []generation.BackendRequest
	byPrompt func(req generation.BackendRequest) (string, error)
	gate     chan struct{}
	started  chan struct{}
}

func (f *fakeBackend) Generate(ctx context.Context, req generation.BackendRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.byPrompt(req)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

const scriptText = "SCENE 1:\nCONTEXT: A rooftop garden at dawn.\nACTION: Mai waters the plants.\nDIALOGUE: Mai: Chào buổi sáng!"

const promptResponse = "Here is the JSON: {\"scenes\":[{\"sceneNumber\":1,\"shots\":[{\"shotNumber\":1,\"duration\":8,\"prompt\":\"x\"}]}]} Thanks!"

func defaultResponses(req generation.BackendRequest) (string, error) {
	switch {
	case !req.JSON:
		return scriptText, nil
	case strings.Contains(req.Prompt, `"characters"`):
		return `{"characters":[{"name":"Mai","description":"a young gardener in a straw hat"}]}`, nil
	default:
		return promptResponse, nil
	}
}

func newTestSession(cred string, backend *fakeBackend) *Session {
	if backend.byPrompt == nil {
		backend.byPrompt = defaultResponses
	}
	return NewSession("s-1", entity.LanguageEnglish, Inputs{WordCount: "500"}, Deps{
		Generator:   generation.NewClient(backend),
		Prompts:     prompt.NewBuilder(nil),
		Credentials: staticCredential(cred),
	})
}

func str(s string) *string { return &s }

func TestGenerateScriptWithoutCredential(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession("", backend)
	s.UpdateInputs(InputsPatch{Topic: str("a cat explores a future city")})

	err := s.GenerateScript(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeMissingCredential) {
		t.Fatalf("err = %v", err)
	}
	if backend.callCount() != 0 {
		t.Fatal("backend must not be called")
	}
	if got := s.Snapshot().Error; got != "Please set your API Key at the top of this page first." {
		t.Fatalf("error slot = %q", got)
	}
}

func TestGenerateScriptRequiresTopic(t *testing.T) {
	s := newTestSession("key", &fakeBackend{})
	s.UpdateInputs(InputsPatch{Topic: str("   "), Language: str("vietnamese")})
	err := s.GenerateScript(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeMissingInput) {
		t.Fatalf("err = %v", err)
	}
	if apperrors.AsAppError(err).Message != "Vui lòng nhập chủ đề cho kịch bản." {
		t.Fatalf("message = %q", apperrors.AsAppError(err).Message)
	}
}

func TestBlankWordCountUsesShortFormInstruction(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession("key", backend)
	s.UpdateInputs(InputsPatch{Topic: str("rain"), WordCount: str("")})
	if err := s.GenerateScript(context.Background()); err != nil {
		t.Fatal(err)
	}
	p := backend.calls[0].Prompt
	if !strings.Contains(p, "around 1-2 minutes") || strings.Contains(p, "approximately") {
		t.Fatalf("prompt:\n%s", p)
	}
}

func TestFullPipeline(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession("key", backend)
	ctx := context.Background()

	if err := s.SetStage(entity.StagePrompt); !apperrors.HasCode(err, apperrors.CodeMissingInput) {
		t.Fatalf("prompt stage without script: %v", err)
	}

	s.UpdateInputs(InputsPatch{Topic: str("a rooftop garden"), Style: str("Cyberpunk Sci-Fi")})
	if err := s.GenerateScript(ctx); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Stage != entity.StagePrompt {
		t.Fatalf("stage = %s", snap.Stage)
	}
	if snap.Slots[entity.ArtifactKindScript].Original != scriptText {
		t.Fatal("script slot not filled")
	}

	if err := s.GeneratePrompt(ctx); err != nil {
		t.Fatal(err)
	}
	structReq := backend.calls[1]
	if !structReq.JSON || !strings.Contains(structReq.Prompt, `"Cyberpunk Sci-Fi"`) || !strings.Contains(structReq.Prompt, "Always the number 8") {
		t.Fatalf("structuring request:\n%s", structReq.Prompt)
	}
	if !strings.Contains(structReq.Prompt, scriptText) {
		t.Fatal("structuring request should carry the committed script")
	}

	slot, _ := s.Slot(entity.ArtifactKindVeoPrompt)
	if slot.ViewMode != editor.ViewStructured || slot.Document == nil {
		t.Fatalf("prompt slot = %+v", slot)
	}
	if !strings.HasPrefix(slot.Original, "{\n  \"scenes\": [") {
		t.Fatalf("prompt slot not canonical:\n%s", slot.Original)
	}

	out, err := s.Download(entity.ArtifactKindVeoPrompt)
	if err != nil || out != "SCENE 1 - SHOT 1\nx" {
		t.Fatalf("download = %q, %v", out, err)
	}
}

func TestCharacterRosterFeedsStructuring(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession("key", backend)
	ctx := context.Background()
	s.UpdateInputs(InputsPatch{Topic: str(scriptText)})
	if err := s.UseOriginalScript(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.GenerateCharacters(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.GeneratePrompt(ctx); err != nil {
		t.Fatal(err)
	}
	last := backend.calls[len(backend.calls)-1].Prompt
	if !strings.Contains(last, "CHARACTER REFERENCE:\nMai: a young gardener in a straw hat") {
		t.Fatalf("roster not spliced:\n%s", last)
	}
}

func TestUseOriginalScript(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession("key", backend)

	if err := s.UseOriginalScript(context.Background()); !apperrors.HasCode(err, apperrors.CodeMissingInput) {
		t.Fatalf("empty paste err = %v", err)
	}

	s.UpdateInputs(InputsPatch{Topic: str("SCENE 1: my own script")})
	if err := s.UseOriginalScript(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Slots[entity.ArtifactKindScript].Original != "SCENE 1: my own script" || snap.Stage != entity.StagePrompt {
		t.Fatalf("snapshot = %+v", snap)
	}
	if backend.callCount() != 0 {
		t.Fatal("paste-through must not call the backend")
	}
}

func TestMalformedPromptKeepsPreviousArtifact(t *testing.T) {
	responses := []string{promptResponse, "Sorry, I cannot help with that."}
	var n int
	backend := &fakeBackend{byPrompt: func(req generation.BackendRequest) (string, error) {
		if !req.JSON {
			return scriptText, nil
		}
		r := responses[n]
		n++
		return r, nil
	}}
	s := newTestSession("key", backend)
	ctx := context.Background()
	s.UpdateInputs(InputsPatch{Topic: str("t")})
	_ = s.GenerateScript(ctx)
	if err := s.GeneratePrompt(ctx); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Slot(entity.ArtifactKindVeoPrompt)

	err := s.GeneratePrompt(ctx)
	if !apperrors.HasCode(err, apperrors.CodeMalformedResponse) {
		t.Fatalf("err = %v", err)
	}
	after, _ := s.Slot(entity.ArtifactKindVeoPrompt)
	if after.Original != before.Original || after.Status != editor.StatusReady {
		t.Fatal("previous artifact should survive a failed regeneration")
	}
	if s.Snapshot().Error == "" {
		t.Fatal("error slot should be set")
	}
}

func TestGenerationFailureKeepsPreviousScript(t *testing.T) {
	fail := false
	backend := &fakeBackend{byPrompt: func(req generation.BackendRequest) (string, error) {
		if fail {
			return "", errors.New("503 from upstream")
		}
		return scriptText, nil
	}}
	s := newTestSession("key", backend)
	s.UpdateInputs(InputsPatch{Topic: str("t")})
	if err := s.GenerateScript(context.Background()); err != nil {
		t.Fatal(err)
	}
	fail = true
	err := s.GenerateScript(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeGenerationFailed) {
		t.Fatalf("err = %v", err)
	}
	if msg := s.Snapshot().Error; strings.Contains(msg, "503") {
		t.Fatalf("internal cause leaked to user: %q", msg)
	}
	slot, _ := s.Slot(entity.ArtifactKindScript)
	if slot.Original != scriptText || slot.Status != editor.StatusReady {
		t.Fatalf("script slot = %+v", slot)
	}
}

func TestScriptRegenerationDoesNotClearPrompt(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession("key", backend)
	ctx := context.Background()
	s.UpdateInputs(InputsPatch{Topic: str("t")})
	_ = s.GenerateScript(ctx)
	_ = s.GeneratePrompt(ctx)
	if err := s.EditField(entity.ArtifactKindVeoPrompt, artifact.ShotPrompt(0, 0), "my edit"); err != nil {
		t.Fatal(err)
	}

	if err := s.GenerateScript(ctx); err != nil {
		t.Fatal(err)
	}
	slot, _ := s.Slot(entity.ArtifactKindVeoPrompt)
	if !slot.Dirty || !strings.Contains(slot.Edited, "my edit") {
		t.Fatal("prompt edits should survive script regeneration")
	}

	if err := s.GeneratePrompt(ctx); err != nil {
		t.Fatal(err)
	}
	slot, _ = s.Slot(entity.ArtifactKindVeoPrompt)
	if slot.Dirty || strings.Contains(slot.Edited, "my edit") {
		t.Fatal("generate prompt should discard unsaved edits")
	}
}

func TestBusySlotRejectsSecondRequest(t *testing.T) {
	backend := &fakeBackend{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	s := newTestSession("key", backend)
	s.UpdateInputs(InputsPatch{Topic: str("t")})

	done := make(chan error, 1)
	go func() { done <- s.GenerateScript(context.Background()) }()
	<-backend.started

	if snap := s.Snapshot(); !snap.Busy[entity.ArtifactKindScript] || snap.Slots[entity.ArtifactKindScript].Status != editor.StatusLoading {
		t.Fatalf("slot should be busy: %+v", snap.Busy)
	}
	err := s.GenerateScript(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeSlotBusy) {
		t.Fatalf("second request err = %v", err)
	}

	// 生成进行中仍可切换阶段
	if err := s.SetStage(entity.StageScript); err != nil {
		t.Fatal(err)
	}

	close(backend.gate)
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not finish")
	}
	if backend.callCount() != 1 {
		t.Fatalf("backend calls = %d", backend.callCount())
	}
	if s.Snapshot().Busy[entity.ArtifactKindScript] {
		t.Fatal("busy flag not cleared")
	}
}

func TestLanguageSwitchLocalizesSlotErrors(t *testing.T) {
	s := newTestSession("key", &fakeBackend{})
	s.UpdateInputs(InputsPatch{Topic: str("not json at all"), Language: str("vietnamese")})
	_ = s.UseOriginalScript(context.Background())
	_, err := s.Download(entity.ArtifactKindVeoPrompt)
	if err == nil {
		t.Fatal("download of empty prompt slot should fail")
	}
	if !apperrors.HasCode(err, apperrors.CodeExportFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(apperrors.AsAppError(err).Message, "Không thể tải xuống") {
		t.Fatalf("message = %q", apperrors.AsAppError(err).Message)
	}
}

func TestSuccessfulSlotActionClearsStaleError(t *testing.T) {
	s := newTestSession("key", &fakeBackend{})
	ctx := context.Background()
	s.UpdateInputs(InputsPatch{Topic: str("t")})
	if err := s.GenerateScript(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.GeneratePrompt(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.EditRaw(entity.ArtifactKindVeoPrompt, `{"scenes": [`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Download(entity.ArtifactKindVeoPrompt); !apperrors.HasCode(err, apperrors.CodeExportFailed) {
		t.Fatalf("err = %v", err)
	}
	if s.Snapshot().Error == "" {
		t.Fatal("export failure should be reported")
	}

	if err := s.EditRaw(entity.ArtifactKindVeoPrompt, `{"scenes":[{"sceneNumber":1,"shots":[{"shotNumber":1,"duration":8,"prompt":"fixed"}]}]}`); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Error; got != "" {
		t.Fatalf("stale error after fix: %q", got)
	}
	out, err := s.Download(entity.ArtifactKindVeoPrompt)
	if err != nil || out != "SCENE 1 - SHOT 1\nfixed" {
		t.Fatalf("Download = %q, %v", out, err)
	}
}

func TestGeneratedPromptKeepsUnknownFields(t *testing.T) {
	backend := &fakeBackend{byPrompt: func(req generation.BackendRequest) (string, error) {
		if !req.JSON {
			return scriptText, nil
		}
		return `{"title":"Harbor","scenes":[{"sceneNumber":1,"camera":"dolly","shots":[{"shotNumber":1,"duration":8,"prompt":"a","lens":"35mm"}]}]}`, nil
	}}
	s := newTestSession("key", backend)
	ctx := context.Background()
	s.UpdateInputs(InputsPatch{Topic: str("t")})
	if err := s.GenerateScript(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.GeneratePrompt(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.EditField(entity.ArtifactKindVeoPrompt, artifact.ShotPrompt(0, 0), "A"); err != nil {
		t.Fatal(err)
	}

	slot, _ := s.Slot(entity.ArtifactKindVeoPrompt)
	for _, text := range []string{slot.Original, slot.Edited} {
		for _, field := range []string{`"title": "Harbor"`, `"camera": "dolly"`, `"lens": "35mm"`} {
			if !strings.Contains(text, field) {
				t.Fatalf("%s missing from:\n%s", field, text)
			}
		}
	}
	if !strings.Contains(slot.Edited, `"prompt": "A"`) {
		t.Fatalf("edit not applied:\n%s", slot.Edited)
	}
}

func TestApplyPatchEditsSeveralLeaves(t *testing.T) {
	s := newTestSession("key", &fakeBackend{})
	ctx := context.Background()
	s.UpdateInputs(InputsPatch{Topic: str("t")})
	_ = s.GenerateScript(ctx)
	if err := s.GeneratePrompt(ctx); err != nil {
		t.Fatal(err)
	}

	patch := `[{"op":"test","path":"/scenes/0/shots/0/prompt","value":"x"},{"op":"replace","path":"/scenes/0/shots/0/prompt","value":"y"}]`
	if err := s.ApplyPatch(entity.ArtifactKindVeoPrompt, []byte(patch)); err != nil {
		t.Fatal(err)
	}
	slot, _ := s.Slot(entity.ArtifactKindVeoPrompt)
	if !slot.Dirty || !strings.Contains(slot.Edited, `"prompt": "y"`) {
		t.Fatalf("slot = %+v", slot)
	}

	err := s.ApplyPatch(entity.ArtifactKindVeoPrompt, []byte(`[{"op":"remove","path":"/scenes/0"}]`))
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Fatalf("err = %v", err)
	}
}
