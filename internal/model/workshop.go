package model

// EventTypeRegulars marks recurring classes that never get reminders.
const EventTypeRegulars = "regulars"

// Workshop mirrors the workshop document owned by the ingestion service.
// The pipeline only ever reads these.
type Workshop struct {
	UUID        string      `bson:"uuid" json:"uuid"`
	ArtistIDs   []string    `bson:"artist_id_list" json:"artist_id_list"`
	TimeEntries []TimeEntry `bson:"time_details" json:"time_details"`
	PricingInfo string      `bson:"pricing_info" json:"pricing_info"`
	SoldOut     bool        `bson:"is_sold_out" json:"is_sold_out"`
	EventType   string      `bson:"event_type" json:"event_type"`
}

// TimeEntry is a single scheduled occurrence of a workshop.
type TimeEntry struct {
	Year      int    `bson:"year" json:"year"`
	Month     int    `bson:"month" json:"month"`
	Day       int    `bson:"day" json:"day"`
	StartTime string `bson:"start_time" json:"start_time"`
	EndTime   string `bson:"end_time" json:"end_time"`
}

// placeholderArtistIDs are the values the ingestion side uses for
// "artist not yet assigned". They must never become a recipient key.
var placeholderArtistIDs = map[string]struct{}{
	"":    {},
	"TBA": {},
	"tba": {},
	"N/A": {},
	"n/a": {},
}

// ValidArtistIDs returns the workshop's artist ids with placeholders removed.
func (w *Workshop) ValidArtistIDs() []string {
	var out []string
	for _, id := range w.ArtistIDs {
		if _, skip := placeholderArtistIDs[id]; skip {
			continue
		}
		out = append(out, id)
	}
	return out
}

// SameSchedule reports whether two time-entry lists are identical,
// order included. Any difference counts as a schedule change.
func SameSchedule(a, b []TimeEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
