// Package editor 管理单个构件槽位的编辑状态：已保存内容、编辑中内容、视图模式与操作反馈
package editor

import (
	"context"
	"time"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/locale"
	apperrors "veo-prompt-studio/pkg/errors"
	"veo-prompt-studio/pkg/metrics"
)

// DefaultFeedbackWindow 复制/保存反馈的显示时长
const DefaultFeedbackWindow = 2 * time.Second

type Status string

const (
	StatusEmpty   Status = "empty"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
)

type ViewMode string

const (
	ViewStructured ViewMode = "structured"
	ViewRaw        ViewMode = "raw"
)

type FeedbackKind string

const (
	FeedbackIdle   FeedbackKind = "idle"
	FeedbackCopied FeedbackKind = "copied"
	FeedbackSaved  FeedbackKind = "saved"
)

// Feedback 瞬时操作反馈，过期后视为 idle
type Feedback struct {
	Kind      FeedbackKind `json:"kind"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
}

// Clipboard 剪贴板端口
type Clipboard interface {
	WriteAll(text string) error
}

// Option 会话选项
type Option func(*Session)

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithFeedbackWindow 设置反馈显示时长
func WithFeedbackWindow(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.window = d
		}
	}
}

// Session 单个槽位的编辑会话；非并发安全，由持有者加锁
type Session struct {
	kind     entity.ArtifactKind
	lang     entity.Language
	status   Status
	previous Status
	original string
	edited   string
	view     ViewMode
	feedback Feedback
	now      func() time.Time
	window   time.Duration
}

func NewSession(kind entity.ArtifactKind, lang entity.Language, opts ...Option) *Session {
	s := &Session{
		kind:     kind,
		lang:     lang,
		status:   StatusEmpty,
		previous: StatusEmpty,
		view:     ViewRaw,
		feedback: Feedback{Kind: FeedbackIdle},
		now:      time.Now,
		window:   DefaultFeedbackWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Kind() entity.ArtifactKind { return s.kind }

func (s *Session) Status() Status { return s.status }

func (s *Session) ViewMode() ViewMode { return s.view }

func (s *Session) Original() string { return s.original }

func (s *Session) Edited() string { return s.edited }

// Dirty 编辑内容与已保存内容不一致
func (s *Session) Dirty() bool { return s.edited != s.original }

// HasContent 是否持有构件（加载中时看加载前的状态）
func (s *Session) HasContent() bool {
	if s.status == StatusLoading {
		return s.previous == StatusReady
	}
	return s.status == StatusReady
}

// SetLanguage 切换错误文案语言
func (s *Session) SetLanguage(lang entity.Language) { s.lang = lang }

// BeginLoading 进入加载状态，保留现有构件直到结果到达
func (s *Session) BeginLoading() {
	if s.status != StatusLoading {
		s.previous = s.status
	}
	s.status = StatusLoading
}

// Complete 新构件到达：覆盖已保存与编辑中内容，丢弃未保存的修改，视图回到结构化（可解析时）
func (s *Session) Complete(content string) {
	s.original = content
	s.edited = content
	s.status = StatusReady
	s.previous = StatusReady
	s.feedback = Feedback{Kind: FeedbackIdle}
	if s.parses(content) {
		s.view = ViewStructured
	} else {
		s.view = ViewRaw
	}
}

// Fail 生成失败，回到加载前状态，原有构件保持不变
func (s *Session) Fail() {
	if s.status == StatusLoading {
		s.status = s.previous
	}
}

// EditRaw 修改原始文本，视图强制为 raw
func (s *Session) EditRaw(text string) error {
	if err := s.requireContent(); err != nil {
		return err
	}
	s.edited = text
	s.view = ViewRaw
	return nil
}

// EditField 在结构化视图中替换一个叶子字段
func (s *Session) EditField(path artifact.FieldPath, value string) error {
	if err := s.requireContent(); err != nil {
		return err
	}
	doc, ok := artifact.TryParse(s.kind, s.edited)
	if !ok {
		return s.notStructured()
	}
	next, err := artifact.ReplaceField(doc, path, value)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidParam, "invalid field path").WithDetail(path.Pointer())
	}
	text, err := artifact.Serialize(next)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, locale.Message(s.lang, locale.MsgUnknown))
	}
	s.edited = text
	return nil
}

// ApplyPatch 应用 RFC 6902 补丁；全部操作成功才更新编辑中内容
func (s *Session) ApplyPatch(patch []byte) error {
	if err := s.requireContent(); err != nil {
		return err
	}
	doc, ok := artifact.TryParse(s.kind, s.edited)
	if !ok {
		return s.notStructured()
	}
	next, err := artifact.ApplyPatch(doc, patch)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidParam, "invalid json patch").WithDetail(err.Error())
	}
	text, err := artifact.Serialize(next)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, locale.Message(s.lang, locale.MsgUnknown))
	}
	s.edited = text
	return nil
}

// ShowRaw 切换到原始文本视图（显式切换或点击结构化内容）
func (s *Session) ShowRaw() {
	s.view = ViewRaw
}

// ShowStructured 切换到结构化视图；编辑中内容当前无法解析时拒绝，保持 raw
func (s *Session) ShowStructured() error {
	if !s.parses(s.edited) {
		s.view = ViewRaw
		return s.notStructured()
	}
	s.view = ViewStructured
	return nil
}

// Toggle 在两种视图之间切换
func (s *Session) Toggle() error {
	if s.view == ViewStructured {
		s.ShowRaw()
		return nil
	}
	return s.ShowStructured()
}

// Save 提交编辑中内容为已保存内容；重复保存无副作用
func (s *Session) Save() string {
	s.original = s.edited
	s.setFeedback(FeedbackSaved)
	metrics.ArtifactActionTotal.WithLabelValues(string(s.kind), "save", "success").Inc()
	return s.original
}

// Copy 复制已保存内容，不修改编辑状态
func (s *Session) Copy(_ context.Context, clip Clipboard) (string, error) {
	if err := s.requireContent(); err != nil {
		return "", err
	}
	return s.writeClipboard(clip, s.original, "copy")
}

// CopyLeaf 复制编辑中内容的单个叶子字段，不修改编辑状态
func (s *Session) CopyLeaf(_ context.Context, clip Clipboard, path artifact.FieldPath) (string, error) {
	if err := s.requireContent(); err != nil {
		return "", err
	}
	doc, ok := artifact.TryParse(s.kind, s.edited)
	if !ok {
		return "", s.notStructured()
	}
	text, err := artifact.Leaf(doc, path)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInvalidParam, "invalid field path").WithDetail(path.Pointer())
	}
	return s.writeClipboard(clip, text, "copy_leaf")
}

// Download 将编辑中内容展开为逐镜头文本；无法解析时返回 ExportFailed，状态不变
func (s *Session) Download() (string, error) {
	doc, ok := artifact.TryParse(s.kind, s.edited)
	if !ok {
		metrics.ArtifactActionTotal.WithLabelValues(string(s.kind), "download", "failed").Inc()
		return "", apperrors.New(apperrors.CodeExportFailed, locale.Message(s.lang, locale.MsgExportFailed))
	}
	out, err := artifact.Export(doc)
	if err != nil {
		metrics.ArtifactActionTotal.WithLabelValues(string(s.kind), "download", "failed").Inc()
		return "", apperrors.Wrap(err, apperrors.CodeExportFailed, locale.Message(s.lang, locale.MsgExportFailed))
	}
	metrics.ArtifactActionTotal.WithLabelValues(string(s.kind), "download", "success").Inc()
	return out, nil
}

// Feedback 返回当前反馈，过期则为 idle
func (s *Session) Feedback() Feedback {
	if s.feedback.Kind != FeedbackIdle && !s.now().Before(s.feedback.ExpiresAt) {
		return Feedback{Kind: FeedbackIdle}
	}
	return s.feedback
}

// Snapshot 渲染层读取的只读视图
type Snapshot struct {
	Kind     entity.ArtifactKind `json:"kind"`
	Status   Status              `json:"status"`
	ViewMode ViewMode            `json:"view_mode"`
	Dirty    bool                `json:"dirty"`
	Original string              `json:"original"`
	Edited   string              `json:"edited"`
	Document *artifact.Document  `json:"document,omitempty"`
	Feedback Feedback            `json:"feedback"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Kind:     s.kind,
		Status:   s.status,
		ViewMode: s.view,
		Dirty:    s.Dirty(),
		Original: s.original,
		Edited:   s.edited,
		Feedback: s.Feedback(),
	}
	if s.view == ViewStructured {
		if doc, ok := artifact.TryParse(s.kind, s.edited); ok {
			snap.Document = doc
		}
	}
	return snap
}

func (s *Session) parses(text string) bool {
	if !s.kind.IsStructured() {
		return false
	}
	_, ok := artifact.TryParse(s.kind, text)
	return ok
}

func (s *Session) requireContent() error {
	if !s.HasContent() {
		return apperrors.ErrNotFound.WithDetail("slot " + string(s.kind) + " has no content")
	}
	return nil
}

func (s *Session) notStructured() error {
	return apperrors.New(apperrors.CodeInvalidView, locale.Message(s.lang, locale.MsgNotStructured))
}

func (s *Session) writeClipboard(clip Clipboard, text, action string) (string, error) {
	if err := clip.WriteAll(text); err != nil {
		metrics.ArtifactActionTotal.WithLabelValues(string(s.kind), action, "failed").Inc()
		return "", apperrors.Wrap(err, apperrors.CodeInternalError, locale.Message(s.lang, locale.MsgUnknown))
	}
	s.setFeedback(FeedbackCopied)
	metrics.ArtifactActionTotal.WithLabelValues(string(s.kind), action, "success").Inc()
	return text, nil
}

func (s *Session) setFeedback(kind FeedbackKind) {
	s.feedback = Feedback{Kind: kind, ExpiresAt: s.now().Add(s.window)}
}
