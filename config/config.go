// Package config 提供 winekit 的 YAML 配置加载与组件构建。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/winekit/core"
	"github.com/rushteam/winekit/train"
)

// Config 是 winekit 的完整配置结构（支持 YAML/JSON）。
type Config struct {
	// Dataset 训练数据来源
	Dataset DatasetConfig `yaml:"dataset" json:"dataset"`

	// Train 训练超参数（显式枚举，不使用松散的 kv 传参）
	Train train.Config `yaml:"train" json:"train"`

	// Hub 模型加载（发布仓库 + 本地缓存）
	Hub HubConfig `yaml:"hub" json:"hub"`

	// Cache 预测结果缓存后端
	Cache CacheConfig `yaml:"cache" json:"cache"`
}

// DatasetConfig 是训练数据来源配置。
type DatasetConfig struct {
	// Red / White 两个 CSV 文件路径（`;` 分隔，12 列 schema）
	Red   string `yaml:"red" json:"red"`
	White string `yaml:"white" json:"white"`

	// Filter 可选的 CEL 行过滤表达式（见 pkg/dsl）
	Filter string `yaml:"filter" json:"filter"`
}

// HubConfig 是模型加载配置。
type HubConfig struct {
	// Owner / Repo 发布仓库标识（GitHub）
	Owner string `yaml:"owner" json:"owner"`
	Repo  string `yaml:"repo" json:"repo"`

	// Version 版本标签，为空表示 latest（也可用 WINE_MODEL_VERSION 环境变量）
	Version string `yaml:"version" json:"version"`

	// CacheRoot 本地缓存目录，为空时取默认值（也可用 WINE_MODEL_CACHE 环境变量）
	CacheRoot string `yaml:"cache_root" json:"cache_root"`

	// Asset 制品文件名，为空时取默认值
	Asset string `yaml:"asset" json:"asset"`
}

// CacheConfig 是缓存后端配置。
// Type 为 memory / redis；Options 为后端特定配置（如 redis 的 addr/db）。
type CacheConfig struct {
	Type    string         `yaml:"type" json:"type"`
	Options map[string]any `yaml:"options" json:"options"`
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.WrapDomainError(core.ModuleConfig, core.ErrorCodeValidation,
			fmt.Sprintf("config: parse yaml: %v", err), err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := train.DefaultConfig()
	if c.Train.Trees <= 0 {
		c.Train.Trees = def.Trees
	}
	if c.Train.MinLeaf <= 0 {
		c.Train.MinLeaf = def.MinLeaf
	}
	if c.Train.Seed == 0 {
		c.Train.Seed = def.Seed
	}
}
