package meta

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ritzau/glytrait/pkg/glycan"
	"github.com/ritzau/glytrait/pkg/logging"
)

// BuildStructureTable computes the structure-mode meta-properties of every
// glycan. ids and structures are aligned by index. Glycans are classified
// concurrently; the first failure aborts the batch.
func BuildStructureTable(ctx context.Context, ids []string, structures []*glycan.Structure, siaLinkage bool) (*Table, error) {
	if len(ids) != len(structures) {
		return nil, fmt.Errorf("got %d glycan ids but %d structures", len(ids), len(structures))
	}
	calcs := structureProperties
	if siaLinkage {
		calcs = append(append([]structureProperty(nil), structureProperties...), structureLinkageProperties...)
	}

	props := make([]Property, len(calcs))
	for k, p := range calcs {
		props[k] = p.Property
	}
	return build(ctx, StructureMode, ids, props, func(i int) ([]any, error) {
		row := make([]any, len(calcs))
		for k, p := range calcs {
			v, err := p.calc(structures[i])
			if err != nil {
				return nil, err
			}
			row[k] = v
		}
		return row, nil
	})
}

// BuildCompositionTable computes the composition-mode meta-properties of
// every glycan. ids and compositions are aligned by index.
func BuildCompositionTable(ctx context.Context, ids []string, compositions []glycan.Composition, siaLinkage bool) (*Table, error) {
	if len(ids) != len(compositions) {
		return nil, fmt.Errorf("got %d glycan ids but %d compositions", len(ids), len(compositions))
	}
	calcs := compositionProperties
	if siaLinkage {
		calcs = append(append([]compositionProperty(nil), compositionProperties...), compositionLinkageProperties...)
	}

	props := make([]Property, len(calcs))
	for k, p := range calcs {
		props[k] = p.Property
	}
	return build(ctx, CompositionMode, ids, props, func(i int) ([]any, error) {
		row := make([]any, len(calcs))
		for k, p := range calcs {
			v, err := p.calc(compositions[i])
			if err != nil {
				return nil, err
			}
			row[k] = v
		}
		return row, nil
	})
}

// build fills a table row by row. Each row is computed by its own goroutine
// and written into its own slot, so row order follows ids.
func build(ctx context.Context, mode Mode, ids []string, props []Property, row func(i int) ([]any, error)) (*Table, error) {
	t, err := newTable(mode, ids, props)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values, err := row(i)
			if err != nil {
				return fmt.Errorf("glycan %s: %w", id, err)
			}
			rows[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, values := range rows {
		for k, v := range values {
			if err := t.columns[k].set(i, v); err != nil {
				return nil, fmt.Errorf("glycan %s: %w", ids[i], err)
			}
		}
	}
	logging.Debug("Built meta-property table", "mode", mode, "glycans", len(ids), "properties", len(props))
	return t, nil
}
