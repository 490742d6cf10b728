/*
Package gtfs retrieves and parses the static GTFS stops export.

The package has two halves. Fetcher performs a single download (or local
read) of the raw document and refuses empty bodies. Parse turns the raw
bytes into an immutable, deduplicated record set.

# Basic Usage

	raw, err := gtfs.NewFetcher(nil).Fetch(ctx, cfg.Feed.StopsURL)
	if err != nil {
	    return err // *gtfs.FetchError
	}
	stops, err := gtfs.Parse(raw)
	if err != nil {
	    return err // *gtfs.ParseError
	}

# Input formats

Parse accepts either a bare stops.txt document or a full GTFS zip bundle; the
format is sniffed from the content, not from the file name. Only five columns
are consumed: stop_id, stop_name, stop_code, location_type and
parent_station. stop_id and stop_name must be present in the header.

# Duplicates

Rows are keyed by stop_id. When an id repeats, the later row replaces the
earlier one ("last occurrence wins"). The returned slice is sorted by
stop_name using the same collation as the compiled artifacts.

# Sharing

The returned slice is never mutated by this module and is safe to reuse
across every compiled mode.
*/
package gtfs
