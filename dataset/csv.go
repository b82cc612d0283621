package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/winekit/core"
)

// LoadCSV 读取单个 `;` 分隔的葡萄酒数据集文件。
//
// 数据集 schema（UCI wine quality）：11 个理化指标列 + quality 列，
// 可选的 type 列为自由文本，原样保留；未知列被忽略。
// 特征列出现非数值内容时返回 VALIDATION_ERROR。
func LoadCSV(path string) ([]core.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeValidation,
			fmt.Sprintf("dataset: parse csv %s: %v", path, err), err)
	}
	if len(records) < 1 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeValidation,
			fmt.Sprintf("dataset: %s has no header row", path))
	}

	// 表头按列名映射，而不是按位置，容忍列顺序变化
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.Trim(strings.TrimSpace(h), `"`)
	}

	featureSet := make(map[string]struct{}, core.FeatureCount)
	for _, name := range core.FeatureNames {
		featureSet[name] = struct{}{}
	}

	samples := make([]core.Sample, 0, len(records)-1)
	for rowIdx, rec := range records[1:] {
		s := core.Sample{Features: make(map[string]float64, core.FeatureCount)}
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			col := header[i]
			switch {
			case col == "quality":
				q, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
				if err != nil {
					return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeValidation,
						fmt.Sprintf("dataset: row %d: non-numeric quality %q", rowIdx+2, cell))
				}
				s.Quality = q
				s.HasQuality = true
			case col == "type":
				s.Type = strings.TrimSpace(cell)
			default:
				if _, ok := featureSet[col]; !ok {
					continue
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
				if err != nil || math.IsNaN(v) {
					return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeValidation,
						fmt.Sprintf("dataset: row %d: non-numeric value %q for %q", rowIdx+2, cell, col))
				}
				s.Features[col] = v
			}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// LoadPair 并发读取红/白两个数据集文件并拼接。
// 与训练脚本的 red+white concat 语义一致；red 样本在前。
func LoadPair(redPath, whitePath string) ([]core.Sample, error) {
	var red, white []core.Sample

	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		red, err = LoadCSV(redPath)
		return err
	})
	eg.Go(func() error {
		var err error
		white, err = LoadCSV(whitePath)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	all := make([]core.Sample, 0, len(red)+len(white))
	all = append(all, red...)
	all = append(all, white...)
	return all, nil
}
