package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// completer sends one prompt to a provider and returns the raw reply text.
type completer interface {
	provider() Provider
	complete(ctx context.Context, prompt string) (string, error)
}

// batchTranslator splits items into batches, one request each, and is
// shared by every provider.
type batchTranslator struct {
	completer completer
	options   Options
}

var _ ConcurrentTranslator = (*batchTranslator)(nil)

func newBatchTranslator(c completer, opts Options) *batchTranslator {
	return &batchTranslator{completer: c, options: opts}
}

// Provider reports which backend serves the requests.
func (t *batchTranslator) Provider() Provider {
	return t.completer.provider()
}

func (t *batchTranslator) batches(items []Item) [][]Item {
	size := t.options.batchSize()
	var batches [][]Item
	for i := 0; i < len(items); i += size {
		batches = append(batches, items[i:min(i+size, len(items))])
	}
	return batches
}

// Translate runs the batches one after another.
func (t *batchTranslator) Translate(ctx context.Context, items []Item) ([]Result, error) {
	var all []Result
	for i, batch := range t.batches(items) {
		results, err := t.translateBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", i, err)
		}
		all = append(all, results...)
	}
	sortResults(all)
	return all, nil
}

// TranslateWithConcurrency lets up to concurrency workers pull batches from
// a shared queue. The first failing batch cancels the rest.
func (t *batchTranslator) TranslateWithConcurrency(
	ctx context.Context,
	items []Item,
	concurrency int,
) ([]Result, error) {
	batches := t.batches(items)
	switch len(batches) {
	case 0:
		return []Result{}, nil
	case 1:
		return t.translateBatch(ctx, batches[0])
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		index   int
		results []Result
		err     error
	}

	work := make(chan int)
	done := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for w := 0; w < min(concurrency, len(batches)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				results, err := t.translateBatch(ctx, batches[idx])
				if err != nil {
					cancel()
				}
				done <- batchResult{index: idx, results: results, err: err}
			}
		}()
	}

	go func() {
		defer close(work)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	var (
		all      []Result
		firstErr error
	)
	for r := range done {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", r.index, r.err)
			}
			continue
		}
		all = append(all, r.results...)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(all) < len(items) {
		return nil, err
	}

	sortResults(all)
	return all, nil
}

func (t *batchTranslator) translateBatch(ctx context.Context, items []Item) ([]Result, error) {
	reply, err := t.completer.complete(ctx, BuildPrompt(t.options, items))
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if reply == "" {
		return nil, fmt.Errorf("no text in %s response", t.completer.provider())
	}
	return parseResults(reply, len(items))
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
}
