package youtube

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// fetchInBatches partitions ids into chunks of at most size, issues one
// fetch per chunk concurrently, and merges the keyed results after every
// chunk has completed. A failed chunk is logged and contributes no entries;
// callers treat a missing key as metadata unavailable, not as an error.
func fetchInBatches[V any](
	ctx context.Context,
	logger zerolog.Logger,
	ids []string,
	size int,
	fetch func(context.Context, []string) (map[string]V, error),
) map[string]V {
	merged := make(map[string]V, len(ids))
	if len(ids) == 0 {
		return merged
	}
	if size < 1 {
		size = 1
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))

		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()

			results, err := fetch(ctx, chunk)
			if err != nil {
				logger.Warn().Err(err).Int("ids", len(chunk)).Msg("batch fetch failed")
				return
			}

			mu.Lock()
			for id, value := range results {
				merged[id] = value
			}
			mu.Unlock()
		}(ids[start:end])
	}

	wg.Wait()
	return merged
}

// uniqueStrings preserves first-seen order while dropping duplicates.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}
