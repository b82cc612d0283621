package config

import (
	"fmt"

	"github.com/rushteam/winekit/core"
	"github.com/rushteam/winekit/hub"
	"github.com/rushteam/winekit/pkg/conv"
	"github.com/rushteam/winekit/store"
)

// BuildStore 根据配置构建缓存后端。
//
// 支持的类型：
//   - "" / "memory"：store.MemoryStore（单进程）
//   - "redis"：store.RedisStore，options 支持 addr（默认 127.0.0.1:6379）、db（默认 0）
func BuildStore(cfg CacheConfig) (core.Store, error) {
	switch cfg.Type {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		addr := conv.ConfigGet(cfg.Options, "addr", "127.0.0.1:6379")
		db := conv.ConfigGetInt(cfg.Options, "db", 0)
		return store.NewRedisStore(addr, db)
	default:
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeNotSupported,
			fmt.Sprintf("config: unknown cache type %q (supported: memory, redis)", cfg.Type))
	}
}

// BuildLoader 根据配置构建模型加载器（GitHub Releases 后端）。
// Version / CacheRoot 为空时由 hub 从环境变量或默认值解析。
func BuildLoader(cfg HubConfig) (*hub.Loader, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeValidation,
			"config: hub.owner and hub.repo are required")
	}

	releases := hub.NewGitHubReleases(cfg.Owner, cfg.Repo)
	return hub.NewLoader(releases,
		hub.WithVersion(cfg.Version),
		hub.WithCacheRoot(cfg.CacheRoot),
		hub.WithAsset(cfg.Asset),
	), nil
}
