package filter

import (
	"context"

	"github.com/voizy/feedrec/core"
)

// ContentType 按请求指定的内容类型过滤候选（post / poll / repost）。
//
// 请求没有指定类型时全部放行，不做任何存储查询。
// 指定了类型时需要回查内容元数据，查不到元数据的候选直接过滤，
// 因为无法判断类型的内容不应该出现在类型受限的结果里。
type ContentType struct {
	Contents core.ContentRepository
}

func (f *ContentType) Name() string { return "filter.content_type" }

func (f *ContentType) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if rctx == nil || len(rctx.ContentTypes) == 0 {
		return false, nil
	}
	if f.Contents == nil {
		return false, nil
	}

	item, err := f.Contents.GetContent(ctx, c.ContentID)
	if err != nil || item == nil {
		return true, nil
	}

	itemType := item.Type()
	for _, t := range rctx.ContentTypes {
		if t == itemType {
			return false, nil
		}
	}
	return true, nil
}
