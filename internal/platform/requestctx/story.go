package requestctx

import "context"

// storyIDContextKey is the context key for the session's current story.
type storyIDContextKey struct{}

// WithStoryID stores the currently selected story id in context.
func WithStoryID(ctx context.Context, storyID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, storyIDContextKey{}, storyID)
}

// StoryIDFromContext returns the selected story id, if any.
func StoryIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, _ := ctx.Value(storyIDContextKey{}).(string)
	return value, value != ""
}
