package model

import "strconv"

// Output rows. Fields without a parquet tag are partition columns: they
// are encoded in the directory path (year=2018/month=11) and not in the file.

// Track is a row of the songs table, partitioned by year.
type Track struct {
	SongID   string  `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Title    string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8"`
	ArtistID string  `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year     int64   `json:"year"`
	Duration float64 `parquet:"name=duration, type=DOUBLE"`
}

// Artist is a row of the artists table.
type Artist struct {
	ArtistID  string   `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name      string   `parquet:"name=artist_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location  *string  `parquet:"name=artist_location, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Latitude  *float64 `parquet:"name=artist_latitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Longitude *float64 `parquet:"name=artist_longitude, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// User is a row of the users table.
type User struct {
	UserID    string  `parquet:"name=userId, type=BYTE_ARRAY, convertedtype=UTF8"`
	FirstName *string `parquet:"name=firstName, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	LastName  *string `parquet:"name=lastName, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Gender    *string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Level     *string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

// TimeBucket is a row of the time table, partitioned by year and month.
type TimeBucket struct {
	StartTime string `parquet:"name=start_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hour      int32  `parquet:"name=hour, type=INT32"`
	Day       int32  `parquet:"name=day, type=INT32"`
	Week      int32  `parquet:"name=week, type=INT32"`
	Month     int32  `json:"month"`
	Year      int32  `json:"year"`
}

// SongPlay is a row of the songplays fact table, partitioned by year and month.
// SongID and ArtistID are null when no song metadata matched the event.
type SongPlay struct {
	SongPlayID int64   `parquet:"name=songplay_id, type=INT64"`
	StartTime  string  `parquet:"name=start_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserID     string  `parquet:"name=userId, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level      *string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	SongID     *string `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ArtistID   *string `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	SessionID  int64   `parquet:"name=sessionId, type=INT64"`
	Location   *string `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	UserAgent  *string `parquet:"name=userAgent, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Year       int32   `json:"year"`
	Month      int32   `json:"month"`
}

// Key identifies the full row for deduplication.
func (t Track) Key() string {
	var k keyBuilder
	k.str(t.SongID)
	k.str(t.Title)
	k.str(t.ArtistID)
	k.int(t.Year)
	k.float(t.Duration)
	return k.String()
}

// PartitionValues returns the year partition.
func (t Track) PartitionValues() []string {
	return []string{strconv.FormatInt(t.Year, 10)}
}

// Key identifies the full row for deduplication.
func (a Artist) Key() string {
	var k keyBuilder
	k.str(a.ArtistID)
	k.str(a.Name)
	k.optStr(a.Location)
	k.optFloat(a.Latitude)
	k.optFloat(a.Longitude)
	return k.String()
}

// Key identifies the full row for deduplication.
func (u User) Key() string {
	var k keyBuilder
	k.str(u.UserID)
	k.optStr(u.FirstName)
	k.optStr(u.LastName)
	k.optStr(u.Gender)
	k.optStr(u.Level)
	return k.String()
}

// Key identifies the full row for deduplication.
func (t TimeBucket) Key() string {
	var k keyBuilder
	k.str(t.StartTime)
	k.int(int64(t.Hour))
	k.int(int64(t.Day))
	k.int(int64(t.Week))
	k.int(int64(t.Month))
	k.int(int64(t.Year))
	return k.String()
}

// PartitionValues returns the year and month partitions.
func (t TimeBucket) PartitionValues() []string {
	return []string{strconv.Itoa(int(t.Year)), strconv.Itoa(int(t.Month))}
}

// Key identifies the row without its synthetic id.
func (s SongPlay) Key() string {
	var k keyBuilder
	k.str(s.StartTime)
	k.str(s.UserID)
	k.optStr(s.Level)
	k.optStr(s.SongID)
	k.optStr(s.ArtistID)
	k.int(s.SessionID)
	k.optStr(s.Location)
	k.optStr(s.UserAgent)
	k.int(int64(s.Year))
	k.int(int64(s.Month))
	return k.String()
}

// PartitionValues returns the year and month partitions.
func (s SongPlay) PartitionValues() []string {
	return []string{strconv.Itoa(int(s.Year)), strconv.Itoa(int(s.Month))}
}
