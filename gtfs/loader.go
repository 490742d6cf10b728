package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/atoll101/tfnsw-realtime/utils"
)

// Parse decodes a stops export into a deduplicated record set sorted by name.
//
// raw may be a bare stops.txt document or a GTFS zip containing stops.txt.
// Rows are keyed by stop_id and a later row with the same id replaces an
// earlier one (last occurrence wins). The result is ordered by stop name
// under utils.NameComparator, ties broken by stop_id.
func Parse(raw []byte) ([]StopRecord, error) {
	if isZip(raw) {
		return parseZip(raw)
	}
	return ParseReader(bytes.NewReader(raw))
}

// ParseReader streams a stops.txt document row by row.
func ParseReader(r io.Reader) ([]StopRecord, error) {
	byID, err := consumeStops(r)
	if err != nil {
		return nil, err
	}
	return sortedStops(byID), nil
}

func isZip(raw []byte) bool {
	for m := mimetype.Detect(raw); m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

// parseZip locates stops.txt inside a GTFS bundle and consumes it.
func parseZip(raw []byte) ([]StopRecord, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	for _, f := range zr.File {
		if strings.ToLower(path.Base(f.Name)) != "stops.txt" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		defer rc.Close()
		return ParseReader(rc)
	}
	return nil, parseErrorf(0, "zip archive has no stops.txt")
}

func consumeStops(r io.Reader) (map[string]StopRecord, error) {
	csvr := csv.NewReader(r)
	csvr.ReuseRecord = true
	// Ragged rows and stray quotes in names are tolerated; short rows leave
	// the missing columns empty.
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true

	head, err := csvr.Read()
	if err == io.EOF {
		return nil, parseErrorf(0, "missing header row")
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}
	cols := map[string]int{}
	for i, h := range head {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := func(col string) int {
		if i, ok := cols[col]; ok {
			return i
		}
		return -1
	}
	sID := idx("stop_id")
	sN := idx("stop_name")
	sC := idx("stop_code")
	sLT := idx("location_type")
	sPS := idx("parent_station")
	if sID < 0 || sN < 0 {
		return nil, parseErrorf(1, "header must contain stop_id and stop_name")
	}

	field := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	stops := map[string]StopRecord{}
	for {
		row, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}
		rec := StopRecord{
			FeedID:        field(row, sID),
			Name:          field(row, sN),
			Code:          field(row, sC),
			LocationType:  field(row, sLT),
			ParentStation: field(row, sPS),
		}
		stops[rec.FeedID] = rec
	}
	return stops, nil
}

func sortedStops(byID map[string]StopRecord) []StopRecord {
	out := make([]StopRecord, 0, len(byID))
	for _, s := range byID {
		out = append(out, s)
	}
	cmp := utils.NewNameComparator()
	sort.Slice(out, func(i, j int) bool {
		if c := cmp.Compare(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].FeedID < out[j].FeedID
	})
	return out
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: err}
}
