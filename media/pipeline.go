package media

import (
	"errors"

	"github.com/rs/zerolog"
)

// Plan is the computed outcome of one batch before anything touches the disk
type Plan struct {
	Stills          []PlannedItem
	Videos          []PlannedItem
	Fallbacks       int
	Skipped         int
	ResolveFailures []*ItemError
	TraversalErrors TraversalErrors
}

// Items returns stills followed by videos
func (p *Plan) Items() []PlannedItem {
	items := make([]PlannedItem, 0, len(p.Stills)+len(p.Videos))
	items = append(items, p.Stills...)
	return append(items, p.Videos...)
}

// Pipeline wires scanning, resolution, sequencing and naming together.
// Each stage runs over the whole collection before the next starts.
type Pipeline struct {
	Resolver *Resolver
	Layout   Layout
	Logger   zerolog.Logger

	// OnResolve is called once per item after its timestamp resolution
	OnResolve func(item Item, res Resolution)
}

// Plan scans root and plans every classified file in it.
// A traversal error is returned together with the plan of everything that was reachable.
func (p *Pipeline) Plan(root string) (*Plan, error) {
	scan, err := Scan(root)
	var traversal TraversalErrors
	if err != nil && !errors.As(err, &traversal) {
		return nil, err
	}
	for _, te := range scan.Errors {
		p.Logger.Error().Err(te.Err).Str("path", te.Path).Msg("Cannot read directory")
	}

	plan := p.PlanScan(scan)
	if len(plan.TraversalErrors) > 0 {
		return plan, plan.TraversalErrors
	}
	return plan, nil
}

// PlanScan plans an already scanned batch
func (p *Pipeline) PlanScan(scan ScanResult) *Plan {
	plan := &Plan{Skipped: scan.Skipped, TraversalErrors: scan.Errors}

	stills := p.resolveAll(scan.Stills, plan)
	videos := p.resolveAll(scan.Videos, plan)

	sequencedStills := AssignSequence(stills)
	sequencedVideos := AssignSequence(videos)
	for ts, group := range Collisions(sequencedVideos) {
		p.Logger.Warn().Time("timestamp", ts).Int("count", len(group)).
			Msg("Videos share a capture second, only the ordinal prefix tells them apart")
	}

	plan.Stills = PlanStills(sequencedStills, p.Layout)
	plan.Videos = PlanVideos(sequencedVideos, p.Layout)
	return plan
}

func (p *Pipeline) resolveAll(items []Item, plan *Plan) []ResolvedItem {
	resolved := make([]ResolvedItem, 0, len(items))
	for _, item := range items {
		ri, res, err := p.Resolver.Apply(item)
		if p.OnResolve != nil {
			p.OnResolve(item, res)
		}

		var itemErr *ItemError
		if errors.As(err, &itemErr) {
			plan.ResolveFailures = append(plan.ResolveFailures, itemErr)
			p.Logger.Error().Err(itemErr.Err).Str("path", item.Path()).Msg("Cannot resolve capture time")
			continue
		}

		if res.Outcome == Fallback {
			plan.Fallbacks++
			p.Logger.Warn().Str("path", item.Path()).AnErr("reason", res.Reason).
				Time("timestamp", res.Time).Msg("Using fallback capture time")
		}
		resolved = append(resolved, ri)
	}
	return resolved
}
