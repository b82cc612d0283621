package core

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"
)

// ReleaseStore 是模型发布仓库的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（hub）实现
//   - 只读消费：发布的制品按版本标签不可变
//
// 实现：
//   - hub.GitHubReleases 实现此接口（GitHub Releases）
//   - 测试中使用内存 fake 实现此接口
type ReleaseStore interface {
	// ListReleases 列出全部发布快照（用于解析 latest）
	ListReleases(ctx context.Context) ([]Release, error)

	// FetchAsset 按版本标签 + 文件名获取制品内容。
	// 版本不存在时返回 MODEL_NOT_FOUND，传输失败时返回 DOWNLOAD_ERROR。
	FetchAsset(ctx context.Context, tag, name string) (io.ReadCloser, error)
}

// Release 是一次发布的快照。
type Release struct {
	// TagName 版本标签，如 "v1.2.0"
	TagName string `json:"tag_name"`

	// PublishedAt 发布时间
	PublishedAt time.Time `json:"published_at"`

	// Assets 发布附带的制品文件名列表
	Assets []string `json:"assets"`
}

// Version 是解析后的语义化版本号 vMAJOR.MINOR.PATCH。
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion 解析 "v1.2.3" 形式的版本标签。
// 不符合 vMAJOR.MINOR.PATCH 形式时返回 (Version{}, false)。
func ParseVersion(tag string) (Version, bool) {
	s, ok := strings.CutPrefix(tag, "v")
	if !ok {
		return Version{}, false
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, false
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, true
}

// Less 按语义化版本号比较。
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// LatestTag 从发布快照中解析最新版本标签。
//
// 纯函数：只依赖传入的快照，不做任何网络调用，便于用 fake 测试。
// 规则：取合法 vMAJOR.MINOR.PATCH 标签中语义化版本最高的一个；
// 不合法的标签被忽略；没有合法标签时返回 ("", false)。
func LatestTag(releases []Release) (string, bool) {
	var (
		best    Version
		bestTag string
		found   bool
	)
	for _, r := range releases {
		v, ok := ParseVersion(r.TagName)
		if !ok {
			continue
		}
		if !found || best.Less(v) {
			best = v
			bestTag = r.TagName
			found = true
		}
	}
	return bestTag, found
}
