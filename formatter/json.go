package formatter

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/atoll101/tfnsw-realtime/stopfinder"
	"github.com/atoll101/tfnsw-realtime/utils"
)

// SortStops orders stops by display name, ties broken by id
func SortStops(stops []stopfinder.VerifiedStop) {
	cmp := utils.NewNameComparator()
	sort.SliceStable(stops, func(i, j int) bool {
		if c := cmp.Compare(stops[i].Name, stops[j].Name); c != 0 {
			return c < 0
		}
		return stops[i].ID < stops[j].ID
	})
}

// BuildJSON serializes stops as an indented JSON array. A nil or empty
// slice encodes as [].
func BuildJSON(stops []stopfinder.VerifiedStop) ([]byte, error) {
	if stops == nil {
		stops = []stopfinder.VerifiedStop{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stops); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
