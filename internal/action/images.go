package action

import (
	"context"
	"fmt"
	"io"
)

// UploadCoachImage sends a coach photo to the image host and returns its URL
func (a *Actions) UploadCoachImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	return a.uploadImage(ctx, "upload coach image", filename, image)
}

// UploadSmokerImage sends a smoker photo to the image host and returns its URL
func (a *Actions) UploadSmokerImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	return a.uploadImage(ctx, "upload smoker image", filename, image)
}

func (a *Actions) uploadImage(ctx context.Context, action, filename string, image io.Reader) (string, error) {
	url, err := a.api.UploadImage(ctx, filename, image)
	if err != nil {
		return "", a.fail(action, fmt.Errorf("%w: %w", ErrImageUpload, err))
	}
	return url, nil
}
