package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/domain/entity"
	apperrors "veo-prompt-studio/pkg/errors"
)

const promptJSON = `{
  "scenes": [
    {
      "sceneNumber": 1,
      "shots": [
        {
          "shotNumber": 1,
          "duration": 8,
          "prompt": "A rooftop at dawn."
        },
        {
          "shotNumber": 2,
          "duration": 8,
          "prompt": "Mai turns to the camera."
        }
      ]
    }
  ]
}`

type memClipboard struct {
	text  string
	calls int
	err   error
}

func (m *memClipboard) WriteAll(text string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func loaded(t *testing.T, kind entity.ArtifactKind, content string, opts ...Option) *Session {
	t.Helper()
	s := NewSession(kind, entity.LanguageEnglish, opts...)
	s.BeginLoading()
	s.Complete(content)
	return s
}

func assertDirtyInvariant(t *testing.T, s *Session) {
	t.Helper()
	if s.Dirty() != (s.Edited() != s.Original()) {
		t.Fatalf("dirty invariant broken: dirty=%v", s.Dirty())
	}
}

func TestCompleteChoosesViewMode(t *testing.T) {
	if s := loaded(t, entity.ArtifactKindVeoPrompt, promptJSON); s.ViewMode() != ViewStructured || s.Status() != StatusReady {
		t.Fatalf("json prompt: view=%s status=%s", s.ViewMode(), s.Status())
	}
	if s := loaded(t, entity.ArtifactKindVeoPrompt, "not json"); s.ViewMode() != ViewRaw {
		t.Fatalf("prose prompt: view=%s", s.ViewMode())
	}
	if s := loaded(t, entity.ArtifactKindScript, promptJSON); s.ViewMode() != ViewRaw {
		t.Fatalf("script is never structured: view=%s", s.ViewMode())
	}
}

func TestEditFieldMarksDirtyWithoutTouchingOriginal(t *testing.T) {
	s := loaded(t, entity.ArtifactKindVeoPrompt, promptJSON)
	if err := s.EditField(artifact.ShotPrompt(0, 1), "Mai smiles."); err != nil {
		t.Fatal(err)
	}
	if !s.Dirty() || s.Original() != promptJSON {
		t.Fatal("edit should mark dirty and keep original")
	}
	if !strings.Contains(s.Edited(), `"prompt": "Mai smiles."`) {
		t.Fatalf("edited = %s", s.Edited())
	}
	assertDirtyInvariant(t, s)
}

func TestCopyLeafAfterEditingAnotherShot(t *testing.T) {
	s := loaded(t, entity.ArtifactKindVeoPrompt, promptJSON)
	if err := s.EditField(artifact.ShotPrompt(0, 1), "Mai smiles."); err != nil {
		t.Fatal(err)
	}
	edited := s.Edited()
	clip := &memClipboard{}

	text, err := s.CopyLeaf(context.Background(), clip, artifact.ShotPrompt(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if text != "A rooftop at dawn." || clip.text != "A rooftop at dawn." {
		t.Fatalf("copied %q", clip.text)
	}
	if !s.Dirty() || s.Edited() != edited {
		t.Fatal("copy must not change edit state")
	}
	if s.Feedback().Kind != FeedbackCopied {
		t.Fatalf("feedback = %s", s.Feedback().Kind)
	}
}

func TestCopyUsesCommittedText(t *testing.T) {
	s := loaded(t, entity.ArtifactKindScript, "SCENE 1: original")
	if err := s.EditRaw("SCENE 1: edited"); err != nil {
		t.Fatal(err)
	}
	clip := &memClipboard{}
	if _, err := s.Copy(context.Background(), clip); err != nil {
		t.Fatal(err)
	}
	if clip.text != "SCENE 1: original" {
		t.Fatalf("copied %q", clip.text)
	}
	if s.Edited() != "SCENE 1: edited" {
		t.Fatal("copy mutated edited text")
	}
}

func TestCopyFailureLeavesFeedbackIdle(t *testing.T) {
	s := loaded(t, entity.ArtifactKindScript, "text")
	_, err := s.Copy(context.Background(), &memClipboard{err: errors.New("no display")})
	if err == nil {
		t.Fatal("expected error")
	}
	if s.Feedback().Kind != FeedbackIdle {
		t.Fatal("failed copy should not report copied")
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	s := loaded(t, entity.ArtifactKindScript, "v1")
	_ = s.EditRaw("v2")
	first := s.Save()
	second := s.Save()
	if first != "v2" || second != "v2" || s.Original() != "v2" {
		t.Fatalf("save results %q %q original %q", first, second, s.Original())
	}
	if s.Dirty() {
		t.Fatal("dirty after save")
	}
	assertDirtyInvariant(t, s)
}

func TestShowStructuredRefusedForInvalidText(t *testing.T) {
	s := loaded(t, entity.ArtifactKindVeoPrompt, promptJSON)
	if err := s.EditRaw(`{"scenes": [`); err != nil {
		t.Fatal(err)
	}
	err := s.ShowStructured()
	if !apperrors.HasCode(err, apperrors.CodeInvalidView) {
		t.Fatalf("err = %v", err)
	}
	if s.ViewMode() != ViewRaw {
		t.Fatal("view should stay raw")
	}

	// 修复文本后在切换时重新校验
	if err := s.EditRaw(promptJSON); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(); err != nil || s.ViewMode() != ViewStructured {
		t.Fatalf("toggle after fix: err=%v view=%s", err, s.ViewMode())
	}
	if err := s.Toggle(); err != nil || s.ViewMode() != ViewRaw {
		t.Fatalf("toggle to raw: err=%v view=%s", err, s.ViewMode())
	}
}

func TestRegenerationDiscardsUnsavedEdits(t *testing.T) {
	s := loaded(t, entity.ArtifactKindVeoPrompt, promptJSON)
	_ = s.EditRaw("my unsaved notes")
	s.BeginLoading()
	if s.Edited() != "my unsaved notes" {
		t.Fatal("edits are kept until the new artifact arrives")
	}
	next := `{"scenes": []}`
	s.Complete(next)
	if s.Original() != next || s.Edited() != next || s.Dirty() {
		t.Fatalf("regeneration should replace both texts: %q / %q", s.Original(), s.Edited())
	}
	if s.ViewMode() != ViewStructured {
		t.Fatal("new artifact resets to structured view")
	}
	assertDirtyInvariant(t, s)
}

func TestFailRestoresPreviousState(t *testing.T) {
	empty := NewSession(entity.ArtifactKindScript, entity.LanguageEnglish)
	empty.BeginLoading()
	empty.Fail()
	if empty.Status() != StatusEmpty {
		t.Fatalf("status = %s", empty.Status())
	}

	s := loaded(t, entity.ArtifactKindScript, "kept")
	s.BeginLoading()
	s.Fail()
	if s.Status() != StatusReady || s.Original() != "kept" {
		t.Fatalf("status=%s original=%q", s.Status(), s.Original())
	}
}

func TestDownload(t *testing.T) {
	s := loaded(t, entity.ArtifactKindVeoPrompt, promptJSON)
	out, err := s.Download()
	if err != nil {
		t.Fatal(err)
	}
	if out != "SCENE 1 - SHOT 1\nA rooftop at dawn.\n\n---\n\nSCENE 1 - SHOT 2\nMai turns to the camera." {
		t.Fatalf("export = %q", out)
	}

	_ = s.EditRaw("plain prose, not json")
	before := s.Snapshot()
	_, err = s.Download()
	if !apperrors.HasCode(err, apperrors.CodeExportFailed) {
		t.Fatalf("err = %v", err)
	}
	if apperrors.AsAppError(err).Message != "Cannot download: the current content is not valid JSON." {
		t.Fatalf("message = %q", apperrors.AsAppError(err).Message)
	}
	after := s.Snapshot()
	if before.Edited != after.Edited || before.Original != after.Original || before.ViewMode != after.ViewMode {
		t.Fatal("failed download changed state")
	}
}

func TestFeedbackExpires(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := loaded(t, entity.ArtifactKindScript, "x", WithClock(clock.now))
	s.Save()
	if s.Feedback().Kind != FeedbackSaved {
		t.Fatal("expected saved feedback")
	}
	clock.t = clock.t.Add(1999 * time.Millisecond)
	if s.Feedback().Kind != FeedbackSaved {
		t.Fatal("feedback expired too early")
	}
	clock.t = clock.t.Add(time.Millisecond)
	if s.Feedback().Kind != FeedbackIdle {
		t.Fatal("feedback should expire after the window")
	}
}

func TestEditRequiresContent(t *testing.T) {
	s := NewSession(entity.ArtifactKindVeoPrompt, entity.LanguageEnglish)
	if err := s.EditRaw("x"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Copy(context.Background(), &memClipboard{}); err == nil {
		t.Fatal("copy on empty slot should fail")
	}
}

func TestSnapshotIncludesDocumentInStructuredView(t *testing.T) {
	s := loaded(t, entity.ArtifactKindVeoPrompt, promptJSON)
	snap := s.Snapshot()
	if snap.Document == nil || len(snap.Document.Prompt.Scenes[0].Shots) != 2 {
		t.Fatalf("snapshot document = %+v", snap.Document)
	}
	s.ShowRaw()
	if s.Snapshot().Document != nil {
		t.Fatal("raw view should not carry a document")
	}
}
