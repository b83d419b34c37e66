// Package sampledata generates a synthetic song and log dataset laid out
// like the production one, for local runs and end to end tests.
package sampledata

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/songplays/internal/domain/model"
	"github.com/okian/songplays/internal/domain/transform"
)

const (
	idAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength        = 16
	songsPerArtist  = 3
	usersPerDataset = 25
	homonymEvery    = 20 // every n-th song reuses the title of the previous one
	unknownSongPct  = 10 // NextSong events naming a song outside the catalog
	nextSongPct     = 80
)

var (
	pages      = []string{"Home", "Logout", "Settings", "Help", "About"}
	firstNames = []string{"Kaylee", "Walter", "Ryan", "Jacob", "Lily", "Tegan", "Chloe", "Aleena", "Jayden", "Sara"}
	lastNames  = []string{"Summers", "Frye", "Smith", "Klein", "Koch", "Levine", "Cuevas", "Kirby", "Graves", "Johnson"}
	cities     = []string{"Phoenix-Mesa-Scottsdale, AZ", "San Francisco-Oakland-Hayward, CA", "Portland-South Portland, ME", "Lansing-East Lansing, MI", "Chicago-Naperville-Elgin, IL-IN-WI"}
	words      = []string{"Blue", "Night", "River", "Echo", "Summer", "Dream", "Fire", "Home", "Road", "Light", "Heart", "Stone"}
	agents     = []string{
		`"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/35.0.1916.153 Safari/537.36"`,
		`"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_4) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/36.0.1985.143 Safari/537.36"`,
		"Mozilla/5.0 (X11; Linux x86_64; rv:31.0) Gecko/20100101 Firefox/31.0",
	}
)

// Song is a generated song document and the track id naming its file.
type Song struct {
	TrackID string
	Record  model.SongRecord
}

// Day is the events of one daily log file.
type Day struct {
	Date   string
	Events []model.LogRecord
}

// Dataset is a generated song and log dataset.
type Dataset struct {
	Songs []Song
	Days  []Day
}

type user struct {
	id        string
	firstName string
	lastName  string
	gender    string
	level     string
	location  string
	agent     string
	reg       float64
}

// Generate builds a dataset from cfg. It is deterministic for a given seed.
func Generate(cfg Config) (Dataset, error) {
	if cfg.Songs < 1 || cfg.Events < 0 || cfg.Days < 1 {
		return Dataset{}, fmt.Errorf("%w: songs=%d events=%d days=%d", ErrInvalidConfig, cfg.Songs, cfg.Events, cfg.Days)
	}
	if cfg.Start.IsZero() {
		cfg.Start = DefaultConfig().Start
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	songs := generateSongs(rng, cfg.Songs)
	users := generateUsers(rng, usersPerDataset, cfg.Start)
	days := generateDays(rng, cfg, songs, users)
	return Dataset{Songs: songs, Days: days}, nil
}

func generateSongs(rng *rand.Rand, n int) []Song {
	songs := make([]Song, 0, n)
	var artistID, artistName string
	var lat, lon *float64
	var loc *string
	for i := 0; i < n; i++ {
		if i%songsPerArtist == 0 {
			artistID = "AR" + randomID(rng)
			artistName = title(rng, 2)
			lat, lon, loc = nil, nil, nil
			if rng.IntN(2) == 0 {
				la, lo := rng.Float64()*180-90, rng.Float64()*360-180
				city := cities[rng.IntN(len(cities))]
				lat, lon, loc = &la, &lo, &city
			}
		}

		name := title(rng, 1+rng.IntN(3))
		if i > 0 && i%homonymEvery == 0 {
			prev := songs[i-1].Record
			name, artistID, artistName = prev.Title, prev.ArtistID, prev.ArtistName
		}

		year := int64(0)
		if rng.IntN(3) > 0 {
			year = int64(1960 + rng.IntN(60))
		}
		songs = append(songs, Song{
			TrackID: "TR" + randomID(rng),
			Record: model.SongRecord{
				NumSongs:        1,
				ArtistID:        artistID,
				ArtistLatitude:  lat,
				ArtistLongitude: lon,
				ArtistLocation:  loc,
				ArtistName:      artistName,
				SongID:          "SO" + randomID(rng),
				Title:           name,
				Duration:        float64(int64((60+rng.Float64()*400)*1e5)) / 1e5,
				Year:            year,
			},
		})
	}
	return songs
}

func generateUsers(rng *rand.Rand, n int, start time.Time) []user {
	users := make([]user, 0, n)
	for i := 0; i < n; i++ {
		gender := "F"
		if rng.IntN(2) == 0 {
			gender = "M"
		}
		level := "free"
		if rng.IntN(4) == 0 {
			level = "paid"
		}
		users = append(users, user{
			id:        fmt.Sprintf("%d", i+2),
			firstName: firstNames[rng.IntN(len(firstNames))],
			lastName:  lastNames[rng.IntN(len(lastNames))],
			gender:    gender,
			level:     level,
			location:  cities[rng.IntN(len(cities))],
			agent:     agents[rng.IntN(len(agents))],
			reg:       float64(start.Add(-time.Duration(rng.IntN(90*24)) * time.Hour).UnixMilli()),
		})
	}
	return users
}

func generateDays(rng *rand.Rand, cfg Config, songs []Song, users []user) []Day {
	days := make([]Day, cfg.Days)
	for d := range days {
		days[d].Date = cfg.Start.AddDate(0, 0, d).Format(transform.DateLayout)
	}

	for i := 0; i < cfg.Events; i++ {
		d := i % cfg.Days
		day := cfg.Start.AddDate(0, 0, d)
		u := users[rng.IntN(len(users))]
		// upgrades happen mid-month, so users appear with both levels
		if d > cfg.Days/2 && rng.IntN(10) == 0 {
			u.level = "paid"
		}
		ts := day.UnixMilli() + rng.Int64N(24*60*60*1000)
		days[d].Events = append(days[d].Events, event(rng, u, ts, songs, len(days[d].Events)))
	}
	return days
}

func event(rng *rand.Rand, u user, ts int64, songs []Song, item int) model.LogRecord {
	e := model.LogRecord{
		Auth:          "Logged In",
		FirstName:     &u.firstName,
		Gender:        &u.gender,
		ItemInSession: int64(item),
		LastName:      &u.lastName,
		Level:         &u.level,
		Location:      &u.location,
		Method:        "GET",
		Page:          pages[rng.IntN(len(pages))],
		Registration:  &u.reg,
		SessionID:     int64(ts/3_600_000) % 1000,
		Status:        200,
		TS:            ts,
		UserAgent:     &u.agent,
		UserID:        u.id,
	}
	if rng.IntN(100) >= nextSongPct {
		return e
	}

	e.Page = transform.ActionNextSong
	e.Method = "PUT"
	if rng.IntN(100) < unknownSongPct {
		artist, song, length := title(rng, 2), title(rng, 2), 60+rng.Float64()*300
		e.Artist, e.Song, e.Length = &artist, &song, &length
		return e
	}
	s := songs[rng.IntN(len(songs))].Record
	artist, song, length := s.ArtistName, s.Title, s.Duration
	e.Artist, e.Song, e.Length = &artist, &song, &length
	return e
}

func randomID(rng *rand.Rand) string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[rng.IntN(len(idAlphabet))]
	}
	return string(b)
}

func title(rng *rand.Rand, n int) string {
	s := words[rng.IntN(len(words))]
	for i := 1; i < n; i++ {
		s += " " + words[rng.IntN(len(words))]
	}
	return s
}
