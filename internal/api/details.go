package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

func (c *Client) fetchDetails(ctx context.Context, videoID string) (*playerResponse, *nextResponse, error) {
	var (
		player playerResponse
		next   nextResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.post(gctx, "player", map[string]any{
			"videoId":        videoID,
			"contentCheckOk": true,
			"racyCheckOk":    true,
		}, "", &player)
	})
	g.Go(func() error {
		return c.post(gctx, "next", map[string]string{"videoId": videoID}, "", &next)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return &player, &next, nil
}
