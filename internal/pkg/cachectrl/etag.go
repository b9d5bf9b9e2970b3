package cachectrl

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/zeebo/xxh3"
)

// ETag returns a strong entity tag of the concatenated parts.
func ETag(parts ...[]byte) string {
	h := xxh3.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return `"` + strconv.FormatUint(h.Sum64(), 36) + `"`
}

// NotModified sets the ETag header and reports whether the client already
// holds etag, in which case the response status is set to 304.
func NotModified(ctx *fiber.Ctx, etag string) bool {
	ctx.Set(fiber.HeaderETag, etag)

	match := ctx.Get(fiber.HeaderIfNoneMatch)
	if match == "" {
		return false
	}
	for _, candidate := range strings.Split(match, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			ctx.Status(fiber.StatusNotModified)
			return true
		}
	}
	return false
}
