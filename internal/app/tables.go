package service

import (
	"github.com/okian/songplays/internal/adapters/parquet"
	"github.com/okian/songplays/internal/domain/model"
)

// Output table names.
const (
	TableSongs     = "songs"
	TableArtists   = "artists"
	TableUsers     = "users"
	TableTime      = "time"
	TableSongPlays = "songplays"
)

var (
	songsTable = parquet.Table[model.Track]{
		Name:        TableSongs,
		PartitionBy: []string{"year"},
		Partition:   model.Track.PartitionValues,
	}
	artistsTable = parquet.Table[model.Artist]{Name: TableArtists}
	usersTable   = parquet.Table[model.User]{Name: TableUsers}
	timeTable    = parquet.Table[model.TimeBucket]{
		Name:        TableTime,
		PartitionBy: []string{"year", "month"},
		Partition:   model.TimeBucket.PartitionValues,
	}
	songPlaysTable = parquet.Table[model.SongPlay]{
		Name:        TableSongPlays,
		PartitionBy: []string{"year", "month"},
		Partition:   model.SongPlay.PartitionValues,
	}
)
