package predict

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/rushteam/winekit/core"
)

// CachedPredictor 在 Predictor 外层加一个 read-through 结果缓存。
//
// 使用场景：多实例部署（如多个 UI 副本共享一个 Redis）下复用相同输入的
// 预测结果。制品按版本不可变，因此缓存 key 带上模型版本即可保证正确性。
//
// 缓存是尽力而为的：读写失败不影响预测，只是退化为直接推理。
type CachedPredictor struct {
	predictor *Predictor
	store     core.Store
	ttl       int // 秒，0 表示不过期
}

// NewCachedPredictor 创建带缓存的 Predictor。
// store 可以是 store.MemoryStore（单进程）或 store.RedisStore（共享）。
func NewCachedPredictor(p *Predictor, s core.Store, ttlSeconds int) *CachedPredictor {
	return &CachedPredictor{predictor: p, store: s, ttl: ttlSeconds}
}

// Predict 先查缓存，未命中时推理并回写。
func (c *CachedPredictor) Predict(ctx context.Context, x core.FeatureVector) (*Prediction, error) {
	key := c.cacheKey(x)

	if data, err := c.store.Get(ctx, key); err == nil {
		var pred Prediction
		if err := json.Unmarshal(data, &pred); err == nil {
			return &pred, nil
		}
		// 缓存内容损坏时删掉并走推理
		_ = c.store.Delete(ctx, key)
	}

	pred, err := c.predictor.Predict(x)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(pred); err == nil {
		_ = c.store.Set(ctx, key, data, c.ttl)
	}
	return pred, nil
}

// cacheKey 由模型版本 + 特征向量的字节表示哈希而成。
func (c *CachedPredictor) cacheKey(x core.FeatureVector) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range x {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("winekit:pred:%s:%x", c.predictor.Meta().ModelVersion, h.Sum64())
}
