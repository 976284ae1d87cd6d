package studio

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"veo-prompt-studio/internal/domain/entity"
	apperrors "veo-prompt-studio/pkg/errors"
	"veo-prompt-studio/pkg/logger"
	"veo-prompt-studio/pkg/metrics"
)

// Registry 内存会话表，闲置超过 TTL 的会话被清理
type Registry struct {
	cache    *gocache.Cache
	deps     Deps
	defaults Inputs
	lang     entity.Language
}

// NewRegistry 创建会话表
func NewRegistry(deps Deps, lang entity.Language, defaults Inputs, ttl, cleanup time.Duration) *Registry {
	c := gocache.New(ttl, cleanup)
	c.OnEvicted(func(id string, _ interface{}) {
		metrics.ActiveSessions.Dec()
		logger.Debug(context.Background(), "studio session evicted", "session_id", id)
	})
	return &Registry{cache: c, deps: deps, defaults: defaults, lang: lang}
}

// Create 创建新会话；language 为空时使用默认语言
func (r *Registry) Create(language string) *Session {
	lang := r.lang
	if language != "" {
		lang = entity.ParseLanguage(language)
	}
	s := NewSession(uuid.NewString(), lang, r.defaults, r.deps)
	r.cache.SetDefault(s.ID(), s)
	metrics.ActiveSessions.Inc()
	return s
}

// Get 获取会话并刷新闲置计时；已删除或过期的会话不会被重新写入
func (r *Registry) Get(id string) (*Session, error) {
	notFound := apperrors.ErrNotFound.WithDetail("session " + id)
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, notFound
	}
	s := v.(*Session)
	if err := r.cache.Replace(id, s, gocache.DefaultExpiration); err != nil {
		return nil, notFound
	}
	return s, nil
}

// Delete 删除会话
func (r *Registry) Delete(id string) {
	r.cache.Delete(id)
}

// Count 当前会话数
func (r *Registry) Count() int {
	return r.cache.ItemCount()
}
