package stopfinder

// Product classes used by the Trip Planner to tag transport modes.
const (
	ProductTrain     = 1
	ProductMetro     = 2
	ProductLightRail = 4
	ProductBus       = 5
	ProductCoach     = 7
	ProductFerry     = 9
	ProductSchoolBus = 11
)

// Location kinds returned by the stop finder.
const (
	LocationStop = "stop"
)

// Response is the rapidJSON envelope returned by stop_finder
type Response struct {
	Version      string        `json:"version,omitempty"`
	Locations    []Location    `json:"locations"`
	ErrorDetails *ErrorDetails `json:"ErrorDetails,omitempty"`
}

// Location is one search candidate
type Location struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	DisassembledName string         `json:"disassembledName,omitempty"`
	Type             string         `json:"type"`
	MatchQuality     int            `json:"matchQuality,omitempty"`
	IsBest           bool           `json:"isBest,omitempty"`
	Parent           *Parent        `json:"parent,omitempty"`
	AssignedStops    []AssignedStop `json:"assignedStops,omitempty"`
}

// Parent describes the locality a stop belongs to
type Parent struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// AssignedStop is the physical stop behind a candidate
type AssignedStop struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	ProductClasses []int  `json:"productClasses"`
}

// ErrorDetails is the TfNSW error body
type ErrorDetails struct {
	TransactionID string `json:"TransactionId,omitempty"`
	Message       string `json:"Message"`
}

// VerifiedStop is a feed stop confirmed by the stop finder for one mode
type VerifiedStop struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Suburb string `json:"suburb"`
}

// DisplayName prefers the short (disassembled) name
func (l Location) DisplayName() string {
	if l.DisassembledName != "" {
		return l.DisassembledName
	}
	return l.Name
}

// Suburb returns the parent locality name, or ""
func (l Location) Suburb() string {
	if l.Parent == nil {
		return ""
	}
	return l.Parent.Name
}

// Serves reports whether the first assigned stop carries productClass
func (l Location) Serves(productClass int) bool {
	if len(l.AssignedStops) == 0 {
		return false
	}
	for _, pc := range l.AssignedStops[0].ProductClasses {
		if pc == productClass {
			return true
		}
	}
	return false
}
