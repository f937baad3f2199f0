package accessclient

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"
)

// maxParallelDownloads ограничивает число одновременно открытых скачиваний.
const maxParallelDownloads = 4

// StreamOrdered скачивает urls параллельно и пишет их тела в w строго по порядку.
// Удобно для сборки файла из кусков, зарегистрированных по отдельности.
func StreamOrdered(ctx context.Context, c Client, urls []string, w io.Writer) (int64, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(streamCtx)
	sem := make(chan struct{}, maxParallelDownloads)

	readers := make([]*io.PipeReader, len(urls))
	writers := make([]*io.PipeWriter, len(urls))
	for idx := range urls {
		readers[idx], writers[idx] = io.Pipe()
	}

	// Слоты семафора берутся строго по порядку, иначе поздние части могли бы
	// занять все слоты и ждать писателя, который ещё читает раннюю часть.
	eg.Go(func() error {
		for idx, u := range urls {
			select {
			case sem <- struct{}{}:
			case <-egCtx.Done():
				for _, pw := range writers[idx:] {
					_ = pw.CloseWithError(egCtx.Err())
				}
				return egCtx.Err()
			}

			pw := writers[idx]
			eg.Go(func() error {
				defer func() { <-sem }()

				_, copyErr := c.Download(egCtx, u, pw)
				closeErr := pw.CloseWithError(copyErr)
				if copyErr != nil {
					return copyErr
				}
				return closeErr
			})
		}
		return nil
	})

	// Писатель: читает pipe'ы по порядку.
	var total int64
	for idx, reader := range readers {
		n, err := io.Copy(w, reader)
		total += n
		if err != nil {
			cancel()
			for _, pr := range readers[idx:] {
				_ = pr.CloseWithError(err)
			}

			waitErr := eg.Wait()
			if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
				return total, waitErr
			}
			return total, err
		}
		_ = reader.Close()
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return total, err
	}

	return total, nil
}
