package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/winekit/core"
	"github.com/rushteam/winekit/train"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "winekit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeYAML(t, `
dataset:
  red: data/winequality-red.csv
  white: data/winequality-white.csv
  filter: 'type == "red"'
train:
  trees: 50
  max_depth: 8
  split_fraction: 0.2
  version: v1.0.0
hub:
  owner: acme
  repo: wine-model
  version: v1.0.0
cache:
  type: redis
  options:
    addr: 10.0.0.1:6379
    db: 2
`)

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Dataset.Red != "data/winequality-red.csv" {
		t.Errorf("dataset.red = %q", cfg.Dataset.Red)
	}
	if cfg.Dataset.Filter != `type == "red"` {
		t.Errorf("dataset.filter = %q", cfg.Dataset.Filter)
	}
	if cfg.Train.Trees != 50 || cfg.Train.MaxDepth != 8 || cfg.Train.SplitFraction != 0.2 {
		t.Errorf("train 配置不符: %+v", cfg.Train)
	}
	if cfg.Hub.Owner != "acme" || cfg.Hub.Repo != "wine-model" || cfg.Hub.Version != "v1.0.0" {
		t.Errorf("hub 配置不符: %+v", cfg.Hub)
	}
	if cfg.Cache.Type != "redis" {
		t.Errorf("cache.type = %q", cfg.Cache.Type)
	}
}

// TestLoadFromYAMLDefaults 缺省字段回填训练默认值。
func TestLoadFromYAMLDefaults(t *testing.T) {
	path := writeYAML(t, `
hub:
  owner: acme
  repo: wine-model
`)

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	def := train.DefaultConfig()
	if cfg.Train.Trees != def.Trees {
		t.Errorf("trees = %d, want 默认 %d", cfg.Train.Trees, def.Trees)
	}
	if cfg.Train.MinLeaf != def.MinLeaf {
		t.Errorf("min_leaf = %d, want 默认 %d", cfg.Train.MinLeaf, def.MinLeaf)
	}
	if cfg.Train.Seed != def.Seed {
		t.Errorf("seed = %d, want 默认 %d", cfg.Train.Seed, def.Seed)
	}
	// split_fraction 不回填：0 表示全量训练
	if cfg.Train.SplitFraction != 0 {
		t.Errorf("split_fraction = %v, want 0", cfg.Train.SplitFraction)
	}
}

func TestLoadFromYAMLErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("缺失文件应报错")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeYAML(t, "train: [not a map")
		_, err := LoadFromYAML(path)
		if !core.IsValidation(err) {
			t.Fatalf("期望 VALIDATION_ERROR，实际 %v", err)
		}
	})
}

func TestBuildStore(t *testing.T) {
	t.Run("default memory", func(t *testing.T) {
		s, err := BuildStore(CacheConfig{})
		if err != nil {
			t.Fatalf("构建失败: %v", err)
		}
		defer s.Close()
		if s.Name() != "memory" {
			t.Errorf("Name = %q, want memory", s.Name())
		}
	})

	t.Run("explicit memory", func(t *testing.T) {
		s, err := BuildStore(CacheConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("构建失败: %v", err)
		}
		defer s.Close()
		if s.Name() != "memory" {
			t.Errorf("Name = %q, want memory", s.Name())
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := BuildStore(CacheConfig{Type: "memcached"})
		if err == nil {
			t.Fatal("未知类型应报错")
		}
		if got := core.GetDomainError(err); got == nil || got.Code != core.ErrorCodeNotSupported {
			t.Fatalf("期望 NOT_SUPPORTED，实际 %v", err)
		}
	})
}

func TestBuildLoader(t *testing.T) {
	t.Run("requires owner and repo", func(t *testing.T) {
		_, err := BuildLoader(HubConfig{Owner: "acme"})
		if !core.IsValidation(err) {
			t.Fatalf("期望 VALIDATION_ERROR，实际 %v", err)
		}
		_, err = BuildLoader(HubConfig{Repo: "wine-model"})
		if !core.IsValidation(err) {
			t.Fatalf("期望 VALIDATION_ERROR，实际 %v", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		l, err := BuildLoader(HubConfig{Owner: "acme", Repo: "wine-model", Version: "v1.0.0"})
		if err != nil {
			t.Fatalf("构建失败: %v", err)
		}
		if l == nil {
			t.Fatal("Loader 为 nil")
		}
	})
}
