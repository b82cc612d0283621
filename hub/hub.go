// Package hub 负责把“请求的模型版本”解析为可用的本地制品文件：
// 命中本地缓存直接返回，未命中时从发布仓库下载并原子落盘。
package hub

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rushteam/winekit/core"
)

const (
	// DefaultAsset 是发布中的模型制品文件名
	DefaultAsset = "random_forest_model.json"

	// DefaultCacheRoot 是默认的本地缓存目录
	DefaultCacheRoot = ".model_cache"

	// EnvVersion 指定模型版本的环境变量（如 "v1.2.0"），为空表示 latest
	EnvVersion = "WINE_MODEL_VERSION"

	// EnvCacheRoot 覆盖缓存目录的环境变量
	EnvCacheRoot = "WINE_MODEL_CACHE"
)

// Loader 按版本解析/下载/缓存模型制品。
//
// 状态机：Resolving → CacheHit（终态）
//                  | CacheMiss → Downloading → Cached（终态）
//                              | DownloadFailed（终态）
//
// 设计约束：
//   - 缓存目录是显式配置（参数/环境变量），不是全局状态，测试可注入临时目录
//   - 缓存命中只看文件是否存在，不做校验和（已知并接受的限制）
//   - 写入使用 temp-file + rename，并发读者不会观察到截断的文件；
//     两个进程对同一版本并发下载会互相覆盖，但字节相同，结果无害
type Loader struct {
	store     core.ReleaseStore
	cacheRoot string
	version   string // "" 表示解析 latest
	asset     string
}

// Option 是 Loader 的可选配置。
type Option func(*Loader)

// WithVersion 显式指定版本标签，优先级高于 EnvVersion。
func WithVersion(tag string) Option {
	return func(l *Loader) {
		if tag != "" {
			l.version = tag
		}
	}
}

// WithCacheRoot 显式指定缓存目录，优先级高于 EnvCacheRoot。
func WithCacheRoot(dir string) Option {
	return func(l *Loader) {
		if dir != "" {
			l.cacheRoot = dir
		}
	}
}

// WithAsset 覆盖制品文件名。
func WithAsset(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.asset = name
		}
	}
}

// NewLoader 创建 Loader。
// 默认值：版本取 EnvVersion（为空则 latest），缓存目录取 EnvCacheRoot
// （为空则 DefaultCacheRoot），制品名取 DefaultAsset。
func NewLoader(store core.ReleaseStore, opts ...Option) *Loader {
	l := &Loader{
		store:     store,
		cacheRoot: DefaultCacheRoot,
		version:   os.Getenv(EnvVersion),
		asset:     DefaultAsset,
	}
	if dir := os.Getenv(EnvCacheRoot); dir != "" {
		l.cacheRoot = dir
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load 解析版本并返回本地模型文件路径（元数据 sidecar 在同目录，
// 路径为返回值 + ".meta.json"）。
//
// 错误语义：
//   - 版本不存在 → MODEL_NOT_FOUND
//   - 网络/传输失败 → DOWNLOAD_ERROR
//   - 缓存写入失败 → CACHE_WRITE_ERROR
//
// 不做自动重试；需要重试的调用方自行包裹。
func (l *Loader) Load(ctx context.Context) (string, error) {
	tag, err := l.resolveVersion(ctx)
	if err != nil {
		return "", err
	}

	// 缓存 key = 制品文件名 + 版本标签
	modelPath := filepath.Join(l.cacheRoot, l.asset+"_"+tag)
	metaPath := modelPath + ".meta.json"

	if fileExists(modelPath) && fileExists(metaPath) {
		return modelPath, nil // CacheHit
	}

	if err := os.MkdirAll(l.cacheRoot, 0o755); err != nil {
		return "", core.WrapDomainError(core.ModuleHub, core.ErrorCodeCacheWrite,
			fmt.Sprintf("hub: create cache root %s: %v", l.cacheRoot, err), err)
	}

	// 先下载 sidecar 再下载模型本体：模型文件最后就位，
	// 缓存命中检查以它为准时不会读到缺元数据的半套制品。
	if err := l.download(ctx, tag, l.asset+".meta.json", metaPath); err != nil {
		return "", err
	}
	if err := l.download(ctx, tag, l.asset, modelPath); err != nil {
		return "", err
	}
	return modelPath, nil // Cached
}

// resolveVersion 确定目标版本：显式标签，否则从发布快照解析 latest。
func (l *Loader) resolveVersion(ctx context.Context) (string, error) {
	if l.version != "" {
		return l.version, nil
	}

	releases, err := l.store.ListReleases(ctx)
	if err != nil {
		if core.IsDomainError(err) {
			return "", err
		}
		return "", core.WrapDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: list releases: %v", err), err)
	}

	tag, ok := core.LatestTag(releases)
	if !ok {
		return "", core.NewDomainError(core.ModuleHub, core.ErrorCodeModelNotFound,
			"hub: release store has no versioned release")
	}
	return tag, nil
}

// download 获取单个制品并原子写入 dst：
// 写临时文件，成功后 rename；任何失败都不会在 dst 留下部分写入的文件。
func (l *Loader) download(ctx context.Context, tag, name, dst string) error {
	rc, err := l.store.FetchAsset(ctx, tag, name)
	if err != nil {
		if core.IsDomainError(err) {
			return err
		}
		return core.WrapDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: fetch %s@%s: %v", name, tag, err), err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(l.cacheRoot, filepath.Base(dst)+".tmp-*")
	if err != nil {
		return core.WrapDomainError(core.ModuleHub, core.ErrorCodeCacheWrite,
			fmt.Sprintf("hub: create temp file: %v", err), err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return core.WrapDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: download %s@%s: %v", name, tag, err), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return core.WrapDomainError(core.ModuleHub, core.ErrorCodeCacheWrite,
			fmt.Sprintf("hub: flush temp file: %v", err), err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return core.WrapDomainError(core.ModuleHub, core.ErrorCodeCacheWrite,
			fmt.Sprintf("hub: commit cache entry %s: %v", dst, err), err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
