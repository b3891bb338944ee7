package resolver

// Popularity fudge factors. These are tuned heuristics, not measurements;
// keep them named so they can be adjusted and tested in one place.
const (
	popularityScale      = 100
	popularityMultiplier = 1.25
)

// Popularity derives a listener-count proxy from a video view count and a
// scraped listener count. With both sane it is the view/listener ratio scaled
// up; with views alone it is the inflated view count; with neither it is 0.
func Popularity(views, listeners int64) int64 {
	if views > 0 && listeners > 0 {
		return int64(float64(views) / float64(listeners) * popularityScale * popularityMultiplier)
	}
	if views > 0 {
		return int64(float64(views) * popularityMultiplier)
	}
	return 0
}
