package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%s"
	PageKeyPrefix     = "page:%s"
	HomeKey           = "home"
	MenuKey           = "menu"
	CategoryKeyPrefix = "category:%s"
	TagKeyPrefix      = "tag:%s"
	RelatedKeyPrefix  = "post:%s:related"
)

const (
	PostTTL     = 10 * time.Minute
	PageTTL     = 10 * time.Minute
	HomeTTL     = 2 * time.Minute
	MenuTTL     = 10 * time.Minute
	TaxonomyTTL = 15 * time.Minute
	RelatedTTL  = 10 * time.Minute
)

func PostKey(slug string) string {
	return fmt.Sprintf(PostKeyPrefix, slug)
}

func PageKey(slug string) string {
	return fmt.Sprintf(PageKeyPrefix, slug)
}

func CategoryKey(slug string) string {
	return fmt.Sprintf(CategoryKeyPrefix, slug)
}

func TagKey(slug string) string {
	return fmt.Sprintf(TagKeyPrefix, slug)
}

func RelatedKey(slug string) string {
	return fmt.Sprintf(RelatedKeyPrefix, slug)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidatePost drops the cached post, its related list, and the
// aggregate views that may embed it.
func InvalidatePost(ctx context.Context, slug string) {
	Invalidate(ctx, PostKey(slug), RelatedKey(slug), HomeKey)
}

// InvalidatePage drops the cached page and the menu, which lists pages.
func InvalidatePage(ctx context.Context, slug string) {
	Invalidate(ctx, PageKey(slug), MenuKey)
}

func InvalidateCategory(ctx context.Context, slug string) {
	Invalidate(ctx, CategoryKey(slug))
}

func InvalidateTag(ctx context.Context, slug string) {
	Invalidate(ctx, TagKey(slug))
}
