// Package studio 编排两阶段流水线（剧本 → 结构化提示词）与三个构件槽位
package studio

import (
	"context"
	"strings"
	"sync"
	"time"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/application/editor"
	"veo-prompt-studio/internal/application/generation"
	"veo-prompt-studio/internal/application/prompt"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/locale"
	apperrors "veo-prompt-studio/pkg/errors"
	"veo-prompt-studio/pkg/logger"
	"veo-prompt-studio/pkg/metrics"
)

// Generator 生成客户端端口
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (string, error)
}

// CredentialSource 当前凭据来源
type CredentialSource interface {
	Current() string
}

// Deps 会话依赖
type Deps struct {
	Generator   Generator
	Prompts     *prompt.Builder
	Credentials CredentialSource
	EditorOpts  []editor.Option
}

// Inputs 用户输入
type Inputs struct {
	Topic     string                    `json:"topic"`
	WordCount string                    `json:"word_count"`
	Genre     string                    `json:"genre"`
	Style     string                    `json:"style"`
	Variant   entity.StructuringVariant `json:"variant"`
}

// InputsPatch 部分更新输入，nil 字段保持不变
type InputsPatch struct {
	Topic     *string `json:"topic,omitempty"`
	WordCount *string `json:"word_count,omitempty"`
	Genre     *string `json:"genre,omitempty"`
	Style     *string `json:"style,omitempty"`
	Variant   *string `json:"variant,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// Session 单个工作室会话；同一槽位同一时间只允许一个生成请求
type Session struct {
	id    string
	deps  Deps
	mu    sync.Mutex
	lang  entity.Language
	in    Inputs
	stage entity.Stage
	slots map[entity.ArtifactKind]*editor.Session
	busy  map[entity.ArtifactKind]bool
	err   *apperrors.AppError

	createdAt time.Time
	updatedAt time.Time
}

// NewSession 创建会话
func NewSession(id string, lang entity.Language, defaults Inputs, deps Deps) *Session {
	if defaults.Variant == "" {
		defaults.Variant = entity.VariantShots
	}
	now := time.Now()
	s := &Session{
		id:        id,
		deps:      deps,
		lang:      lang,
		in:        defaults,
		stage:     entity.StageScript,
		slots:     make(map[entity.ArtifactKind]*editor.Session, len(entity.ArtifactKinds)),
		busy:      make(map[entity.ArtifactKind]bool, len(entity.ArtifactKinds)),
		createdAt: now,
		updatedAt: now,
	}
	for _, k := range entity.ArtifactKinds {
		s.slots[k] = editor.NewSession(k, lang, deps.EditorOpts...)
	}
	return s
}

func (s *Session) ID() string { return s.id }

// Language 当前语言
func (s *Session) Language() entity.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// UpdateInputs 更新输入与语言
func (s *Session) UpdateInputs(p InputsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Topic != nil {
		s.in.Topic = *p.Topic
	}
	if p.WordCount != nil {
		s.in.WordCount = *p.WordCount
	}
	if p.Genre != nil {
		s.in.Genre = *p.Genre
	}
	if p.Style != nil {
		s.in.Style = *p.Style
	}
	if p.Variant != nil {
		s.in.Variant = entity.ParseStructuringVariant(*p.Variant)
	}
	if p.Language != nil {
		s.lang = entity.ParseLanguage(*p.Language)
		for _, slot := range s.slots {
			slot.SetLanguage(s.lang)
		}
	}
	s.touch()
}

// SetStage 切换阶段；进入提示词阶段要求已有非空剧本
func (s *Session) SetStage(stage entity.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch stage {
	case entity.StageScript:
	case entity.StagePrompt:
		if strings.TrimSpace(s.slots[entity.ArtifactKindScript].Original()) == "" {
			return s.fail(apperrors.New(apperrors.CodeMissingInput, locale.Message(s.lang, locale.MsgStageLocked)))
		}
	default:
		return apperrors.ErrInvalidParam.WithDetail("unknown stage: " + string(stage))
	}
	s.stage = stage
	s.touch()
	return nil
}

// GenerateScript 根据主题生成剧本，成功后进入提示词阶段
func (s *Session) GenerateScript(ctx context.Context) error {
	s.mu.Lock()
	s.err = nil
	if err := s.requireCredential(); err != nil {
		s.mu.Unlock()
		return err
	}
	if strings.TrimSpace(s.in.Topic) == "" {
		err := s.fail(apperrors.New(apperrors.CodeMissingInput, locale.Message(s.lang, locale.MsgMissingTopic)))
		s.mu.Unlock()
		return err
	}
	text, err := s.deps.Prompts.BuildScriptPrompt(prompt.ScriptInput{
		Topic:     s.in.Topic,
		WordCount: s.in.WordCount,
		Language:  s.lang,
		Genre:     s.in.Genre,
	})
	if err != nil {
		err = s.fail(apperrors.Wrap(err, apperrors.CodeInternalError, locale.Message(s.lang, locale.MsgUnknown)))
		s.mu.Unlock()
		return err
	}
	req := generation.Request{Text: text, Mode: generation.ModeFreeText, Language: s.lang, Kind: entity.ArtifactKindScript}
	s.mu.Unlock()

	out, err := s.run(ctx, req)
	if err != nil {
		return err
	}
	metrics.ScriptWordCount.Observe(float64(len(strings.Fields(out))))

	s.mu.Lock()
	s.stage = entity.StagePrompt
	s.mu.Unlock()
	return nil
}

// UseOriginalScript 将主题输入框中的文本直接作为剧本
func (s *Session) UseOriginalScript(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = nil
	if err := s.requireCredential(); err != nil {
		return err
	}
	if strings.TrimSpace(s.in.Topic) == "" {
		return s.fail(apperrors.New(apperrors.CodeMissingInput, locale.Message(s.lang, locale.MsgMissingOriginalScript)))
	}
	if s.busy[entity.ArtifactKindScript] {
		return s.fail(apperrors.New(apperrors.CodeSlotBusy, locale.Message(s.lang, locale.MsgSlotBusy)))
	}
	s.slots[entity.ArtifactKindScript].Complete(s.in.Topic)
	s.stage = entity.StagePrompt
	s.touch()
	logger.Info(s.logCtx(ctx), "original script accepted", "length", len(s.in.Topic))
	return nil
}

// GeneratePrompt 将已保存的剧本结构化为场景/镜头 JSON；丢弃该槽位之前的内容
func (s *Session) GeneratePrompt(ctx context.Context) error {
	return s.generateFromScript(ctx, entity.ArtifactKindVeoPrompt)
}

// GenerateCharacters 从已保存的剧本提取角色表
func (s *Session) GenerateCharacters(ctx context.Context) error {
	return s.generateFromScript(ctx, entity.ArtifactKindCharacters)
}

func (s *Session) generateFromScript(ctx context.Context, kind entity.ArtifactKind) error {
	s.mu.Lock()
	s.err = nil
	if err := s.requireCredential(); err != nil {
		s.mu.Unlock()
		return err
	}
	script := s.slots[entity.ArtifactKindScript].Original()
	if strings.TrimSpace(script) == "" {
		err := s.fail(apperrors.New(apperrors.CodeMissingInput, locale.Message(s.lang, locale.MsgMissingScript)))
		s.mu.Unlock()
		return err
	}

	var (
		text string
		err  error
	)
	if kind == entity.ArtifactKindCharacters {
		text, err = s.deps.Prompts.BuildCharacterPrompt(prompt.CharacterInput{
			Script:   script,
			Style:    s.in.Style,
			Language: s.lang,
		})
	} else {
		text, err = s.deps.Prompts.BuildStructuringPrompt(prompt.StructuringInput{
			Script:   script,
			Style:    s.in.Style,
			Language: s.lang,
			Roster:   s.rosterText(),
			Variant:  s.in.Variant,
		})
	}
	if err != nil {
		err = s.fail(apperrors.Wrap(err, apperrors.CodeInternalError, locale.Message(s.lang, locale.MsgUnknown)))
		s.mu.Unlock()
		return err
	}
	req := generation.Request{Text: text, Mode: generation.ModeJSON, Language: s.lang, Kind: kind}
	s.mu.Unlock()

	_, err = s.run(ctx, req)
	return err
}

// run 标记槽位忙碌，在锁外调用生成后端，结果到达后写回目标槽位
func (s *Session) run(ctx context.Context, req generation.Request) (string, error) {
	ctx = s.logCtx(ctx)
	ctx = logger.WithContext(ctx, logger.SlotKey, string(req.Kind))

	s.mu.Lock()
	if s.busy[req.Kind] {
		err := s.fail(apperrors.New(apperrors.CodeSlotBusy, locale.Message(s.lang, locale.MsgSlotBusy)))
		s.mu.Unlock()
		return "", err
	}
	s.busy[req.Kind] = true
	slot := s.slots[req.Kind]
	slot.BeginLoading()
	req.Credential = s.deps.Credentials.Current()
	s.mu.Unlock()

	start := time.Now()
	out, err := s.deps.Generator.Generate(ctx, req)
	if err == nil && req.Kind.IsStructured() {
		out, err = canonicalize(ctx, req.Kind, req.Language, out)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[req.Kind] = false
	s.touch()
	if err != nil {
		slot.Fail()
		return "", s.fail(err)
	}
	slot.Complete(out)
	logger.Info(ctx, "artifact generated", "duration_ms", time.Since(start).Milliseconds(), "length", len(out))
	return out, nil
}

// canonicalize 解析 json 模式结果并以规范缩进保存
func canonicalize(ctx context.Context, kind entity.ArtifactKind, lang entity.Language, text string) (string, error) {
	doc, err := generation.ParseStructured(ctx, kind, lang, text)
	if err != nil {
		return "", err
	}
	out, err := artifact.Serialize(doc)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeMalformedResponse, locale.Message(lang, locale.MsgPromptMalformed))
	}
	return out, nil
}

// rosterText 角色槽位已保存内容可解析时返回参考文本
func (s *Session) rosterText() string {
	doc, ok := artifact.TryParse(entity.ArtifactKindCharacters, s.slots[entity.ArtifactKindCharacters].Original())
	if !ok {
		return ""
	}
	return artifact.RosterText(doc)
}

func (s *Session) requireCredential() error {
	if strings.TrimSpace(s.deps.Credentials.Current()) == "" {
		return s.fail(apperrors.New(apperrors.CodeMissingCredential, locale.Message(s.lang, locale.MsgCredentialNotSet)))
	}
	return nil
}

// fail 记录到唯一的错误槽位
func (s *Session) fail(err error) error {
	s.err = apperrors.AsAppError(err)
	return err
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func (s *Session) logCtx(ctx context.Context) context.Context {
	return logger.WithContext(ctx, logger.SessionIDKey, s.id)
}
