package models

// Explicit join models so the upsert path can write association rows with
// ON CONFLICT DO NOTHING. The composite unique index is what makes repeated
// links a no-op instead of a duplicate.

type GameGenre struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID  int64 `json:"game_id" gorm:"not null;uniqueIndex:idx_game_genre"`
	GenreID int64 `json:"genre_id" gorm:"not null;uniqueIndex:idx_game_genre"`
}

func (GameGenre) TableName() string {
	return "game_genres"
}

type GamePlatform struct {
	ID         int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID     int64 `json:"game_id" gorm:"not null;uniqueIndex:idx_game_platform"`
	PlatformID int64 `json:"platform_id" gorm:"not null;uniqueIndex:idx_game_platform"`
}

func (GamePlatform) TableName() string {
	return "game_platforms"
}

type GameStore struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID  int64 `json:"game_id" gorm:"not null;uniqueIndex:idx_game_store"`
	StoreID int64 `json:"store_id" gorm:"not null;uniqueIndex:idx_game_store"`
}

func (GameStore) TableName() string {
	return "game_stores"
}

type GameTag struct {
	ID     int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID int64 `json:"game_id" gorm:"not null;uniqueIndex:idx_game_tag"`
	TagID  int64 `json:"tag_id" gorm:"not null;uniqueIndex:idx_game_tag"`
}

func (GameTag) TableName() string {
	return "game_tags"
}
