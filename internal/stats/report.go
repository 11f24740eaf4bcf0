// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/keypunch/internal/model"
	"github.com/verte-zerg/keypunch/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Displays []model.DisplayAggregate
	CharAggs []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	displays, err := st.ListDisplays(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(displays) > cfg.Last {
		displays = displays[len(displays)-cfg.Last:]
	}

	charAggs, err := st.CharTotalsForDisplays(ctx, displayIDs(displays))
	if err != nil {
		return Report{}, err
	}

	return Report{
		Displays: displays,
		CharAggs: charAggs,
	}, nil
}

func displayIDs(displays []model.DisplayAggregate) []int64 {
	ids := make([]int64, len(displays))
	for i, d := range displays {
		ids[i] = d.DisplayID
	}
	return ids
}
