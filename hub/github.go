package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/winekit/core"
)

// GitHubReleases 是 GitHub Releases 后端的 core.ReleaseStore 实现。
//
// 接口：
//   - 列出发布：GET {api}/repos/{owner}/{repo}/releases
//   - 下载制品：GET {download}/{owner}/{repo}/releases/download/{tag}/{name}
//
// 只读消费，不需要认证（公开仓库）。
type GitHubReleases struct {
	owner string
	repo  string

	apiBase      string
	downloadBase string
	client       *http.Client
}

// GitHubOption 是 GitHubReleases 的可选配置。
type GitHubOption func(*GitHubReleases)

// WithHTTPClient 注入自定义 HTTP 客户端（超时、代理等）。
func WithHTTPClient(client *http.Client) GitHubOption {
	return func(g *GitHubReleases) {
		if client != nil {
			g.client = client
		}
	}
}

// WithBaseURLs 覆盖 API 与下载地址（测试注入 httptest server）。
func WithBaseURLs(apiBase, downloadBase string) GitHubOption {
	return func(g *GitHubReleases) {
		if apiBase != "" {
			g.apiBase = apiBase
		}
		if downloadBase != "" {
			g.downloadBase = downloadBase
		}
	}
}

// NewGitHubReleases 创建 GitHub Releases 客户端。
// 默认 30s 超时，与模型文件的体量匹配。
func NewGitHubReleases(owner, repo string, opts ...GitHubOption) *GitHubReleases {
	g := &GitHubReleases{
		owner:        owner,
		repo:         repo,
		apiBase:      "https://api.github.com",
		downloadBase: "https://github.com",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// githubRelease 是 GitHub API 的发布对象（只取需要的字段）。
type githubRelease struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []struct {
		Name string `json:"name"`
	} `json:"assets"`
}

// ListReleases 列出仓库的全部发布快照。
func (g *GitHubReleases) ListReleases(ctx context.Context) ([]core.Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases", g.apiBase, g.owner, g.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: list releases: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, core.NewDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: list releases: status=%d, body=%s", resp.StatusCode, body))
	}

	var raw []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, core.WrapDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: parse releases: %v", err), err)
	}

	releases := make([]core.Release, 0, len(raw))
	for _, r := range raw {
		rel := core.Release{TagName: r.TagName, PublishedAt: r.PublishedAt}
		for _, a := range r.Assets {
			rel.Assets = append(rel.Assets, a.Name)
		}
		releases = append(releases, rel)
	}
	return releases, nil
}

// FetchAsset 下载指定版本的制品内容。
// 版本或文件不存在（404）→ MODEL_NOT_FOUND；其他失败 → DOWNLOAD_ERROR。
func (g *GitHubReleases) FetchAsset(ctx context.Context, tag, name string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		g.downloadBase, g.owner, g.repo, tag, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: fetch %s@%s: %v", name, tag, err), err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, core.NewDomainError(core.ModuleHub, core.ErrorCodeModelNotFound,
			fmt.Sprintf("hub: release %s has no asset %s", tag, name))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, core.NewDomainError(core.ModuleHub, core.ErrorCodeDownload,
			fmt.Sprintf("hub: fetch %s@%s: status=%d, body=%s", name, tag, resp.StatusCode, body))
	}
}
