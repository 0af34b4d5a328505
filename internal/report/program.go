package report

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// DefaultColourCount applies when the caller has not adjusted a design's
// colour count.
const DefaultColourCount = 2

type ProgramLine struct {
	Design      string   `json:"design"`
	Parties     []string `json:"parties"`
	TotalMeters float64  `json:"total_meters"`
	ColourCount int      `json:"colour_count"`
	LumpSet     int      `json:"lump_set"`
	Taka        int      `json:"taka"`
}

// Program builds the production program for a selection of entries. Per
// design: the distinct bill-to parties, and totalMeters as the sum over
// entries of each entry's largest single-shade quantity, not the sum of
// all shades. lumpSet = floor(totalMeters/100), taka = lumpSet * colours.
func (d *DefaultService) Program(ctx context.Context, entryIDs []int64, colourCounts map[string]int) ([]ProgramLine, error) {
	type acc struct {
		total   float64
		parties map[string]struct{}
	}
	byDesign := make(map[string]*acc)

	for _, id := range entryIDs {
		entry, err := d.store.GetEntry(ctx, id)
		if err != nil {
			slog.Error("Failed to load selected entry", "error", err, "entryID", id)
			return nil, err
		}
		o, err := d.store.GetOrder(ctx, entry.OrderID)
		if err != nil {
			return nil, err
		}
		party, err := d.store.GetParty(ctx, o.BillToID)
		if err != nil {
			return nil, err
		}

		a, ok := byDesign[entry.DesignCode]
		if !ok {
			a = &acc{parties: make(map[string]struct{})}
			byDesign[entry.DesignCode] = a
		}
		a.total += entry.Shades.MaxQuantity()
		a.parties[party.Name] = struct{}{}
	}

	lines := make([]ProgramLine, 0, len(byDesign))
	for design, a := range byDesign {
		colours := colourCounts[design]
		if colours <= 0 {
			colours = DefaultColourCount
		}
		lumpSet := int(math.Floor(a.total / 100))

		parties := make([]string, 0, len(a.parties))
		for p := range a.parties {
			parties = append(parties, p)
		}
		sort.Strings(parties)

		lines = append(lines, ProgramLine{
			Design:      design,
			Parties:     parties,
			TotalMeters: a.total,
			ColourCount: colours,
			LumpSet:     lumpSet,
			Taka:        lumpSet * colours,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Design < lines[j].Design })
	return lines, nil
}
