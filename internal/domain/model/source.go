// Package model contains the input records and output rows of the pipeline.
package model

// SongRecord is one song metadata document (song_data/*/*/*/*.json).
type SongRecord struct {
	NumSongs        int64    `json:"num_songs"`
	ArtistID        string   `json:"artist_id"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistName      string   `json:"artist_name"`
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	Duration        float64  `json:"duration"`
	Year            int64    `json:"year"`
}

// LogRecord is one user activity event (log_data/*.json, JSON lines).
type LogRecord struct {
	Artist        *string  `json:"artist"`
	Auth          string   `json:"auth"`
	FirstName     *string  `json:"firstName"`
	Gender        *string  `json:"gender"`
	ItemInSession int64    `json:"itemInSession"`
	LastName      *string  `json:"lastName"`
	Length        *float64 `json:"length"`
	Level         *string  `json:"level"`
	Location      *string  `json:"location"`
	Method        string   `json:"method"`
	Page          string   `json:"page"`
	Registration  *float64 `json:"registration"`
	SessionID     int64    `json:"sessionId"`
	Song          *string  `json:"song"`
	Status        int64    `json:"status"`
	TS            int64    `json:"ts"`
	UserAgent     *string  `json:"userAgent"`
	UserID        string   `json:"userId"`
}

// Key identifies the full record for deduplication.
func (r SongRecord) Key() string {
	var k keyBuilder
	k.int(r.NumSongs)
	k.str(r.ArtistID)
	k.optFloat(r.ArtistLatitude)
	k.optFloat(r.ArtistLongitude)
	k.optStr(r.ArtistLocation)
	k.str(r.ArtistName)
	k.str(r.SongID)
	k.str(r.Title)
	k.float(r.Duration)
	k.int(r.Year)
	return k.String()
}

// Key identifies the full record for deduplication.
func (r LogRecord) Key() string {
	var k keyBuilder
	k.optStr(r.Artist)
	k.str(r.Auth)
	k.optStr(r.FirstName)
	k.optStr(r.Gender)
	k.int(r.ItemInSession)
	k.optStr(r.LastName)
	k.optFloat(r.Length)
	k.optStr(r.Level)
	k.optStr(r.Location)
	k.str(r.Method)
	k.str(r.Page)
	k.optFloat(r.Registration)
	k.int(r.SessionID)
	k.optStr(r.Song)
	k.int(r.Status)
	k.int(r.TS)
	k.optStr(r.UserAgent)
	k.str(r.UserID)
	return k.String()
}
