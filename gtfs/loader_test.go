package gtfs

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

const stopsFixture = `stop_id,stop_code,stop_name,stop_lat,stop_lon,location_type,parent_station,wheelchair_boarding
200070,,Town Hall Station,-33.873,151.206,1,,1
200060,,Central Station,-33.883,151.206,1,,1
2000322,2000322,Central Station Platform 22,-33.882,151.205,0,200060,1
`

func TestParse_SortedByName(t *testing.T) {
	stops, err := Parse([]byte(stopsFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(stops))
	}
	wantOrder := []string{"Central Station", "Central Station Platform 22", "Town Hall Station"}
	for i, name := range wantOrder {
		if stops[i].Name != name {
			t.Errorf("stops[%d].Name = %q, want %q", i, stops[i].Name, name)
		}
	}
	platform := stops[1]
	if platform.FeedID != "2000322" || platform.Code != "2000322" || platform.LocationType != "0" || platform.ParentStation != "200060" {
		t.Errorf("platform record = %+v", platform)
	}
}

// TestParse_LastOccurrenceWins pins the dedup policy: a repeated stop_id keeps the later row.
func TestParse_LastOccurrenceWins(t *testing.T) {
	doc := "stop_id,stop_name\n" +
		"200060,Central Old Name\n" +
		"200070,Town Hall Station\n" +
		"200060,Central Station\n"
	stops, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stops) != 2 {
		t.Fatalf("expected 2 unique stops, got %d: %+v", len(stops), stops)
	}
	for _, s := range stops {
		if s.FeedID == "200060" && s.Name != "Central Station" {
			t.Errorf("200060 kept %q, want the later row's name", s.Name)
		}
		if s.Name == "Central Old Name" {
			t.Error("earlier duplicate row survived")
		}
	}
}

func TestParse_OptionalColumnsAndBOM(t *testing.T) {
	doc := "\ufeffSTOP_ID, Stop_Name \n10101,Bondi Junction\n"
	stops, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(stops))
	}
	if stops[0].FeedID != "10101" || stops[0].Name != "Bondi Junction" {
		t.Errorf("record = %+v", stops[0])
	}
	if stops[0].Code != "" || stops[0].ParentStation != "" || stops[0].LocationType != "" {
		t.Errorf("absent columns should be empty, got %+v", stops[0])
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	stops, err := Parse([]byte("stop_id,stop_name\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stops) != 0 {
		t.Errorf("expected no stops, got %d", len(stops))
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"missing stop_id column", "id,stop_name\n1,Central\n"},
		{"missing stop_name column", "stop_id,name\n1,Central\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse kind, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestParse_LenientRows(t *testing.T) {
	doc := "stop_id,stop_name,parent_station\n" +
		"200060,Central Station\n" +
		"200070,Town Hall Station,\n" +
		"2000441,Circular Quay,,extra\n" +
		"200080,Central \"Grand\" Concourse,200060\n"
	stops, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := map[string]StopRecord{}
	for _, s := range stops {
		got[s.FeedID] = s
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 stops, got %d: %+v", len(got), stops)
	}
	if got["200060"].Name != "Central Station" || got["200060"].ParentStation != "" {
		t.Errorf("short row = %+v", got["200060"])
	}
	if got["2000441"].Name != "Circular Quay" {
		t.Errorf("long row = %+v", got["2000441"])
	}
	if got["200080"].Name != `Central "Grand" Concourse` || got["200080"].ParentStation != "200060" {
		t.Errorf("bare quotes = %+v", got["200080"])
	}
}

func TestParseReader_ReadFailure(t *testing.T) {
	r := io.MultiReader(strings.NewReader("stop_id,stop_name\n1,Central\n"), iotest.ErrReader(errors.New("connection reset")))
	_, err := ParseReader(r)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParse_ZipBundle(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"agency.txt":     "agency_id,agency_name\nTfNSW,Transport for NSW\n",
		"gtfs/Stops.txt": stopsFixture,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	stops, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse zip: %v", err)
	}
	if len(stops) != 3 || stops[0].FeedID != "200060" {
		t.Errorf("zip stops = %+v", stops)
	}
}

func TestParse_ZipWithoutStops(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("routes.txt")
	_, _ = w.Write([]byte("route_id\nT1\n"))
	_ = zw.Close()

	_, err := Parse(buf.Bytes())
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
