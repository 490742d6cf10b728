package gtfs

// StopRecord is one row of stops.txt reduced to the columns the compiler consumes.
type StopRecord struct {
	FeedID        string `json:"stop_id"`
	Name          string `json:"stop_name"`
	Code          string `json:"stop_code"`
	LocationType  string `json:"location_type"`
	ParentStation string `json:"parent_station"`
}
