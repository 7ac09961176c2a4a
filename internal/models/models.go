package models

const DefaultAvatar = "default.png"

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name         string  `gorm:"not null"                         json:"name"`
	Email        string  `gorm:"unique;not null"                  json:"email"`
	PasswordHash string  `gorm:"not null"                         json:"-"`
	Avatar       string  `gorm:"not null;default:default.png"     json:"avatar"`
	Role         string  `gorm:"not null;default:user"            json:"role"`
	RefreshToken *string `json:"-"`
}

// PublicUser is the projection of a User that is safe to return to
// clients: no password hash, no refresh token.
type PublicUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}

type Review struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint   `gorm:"index;not null"           json:"user_id"`
	MovieID   string `gorm:"index;not null"           json:"movie_id"`
	Content   string `gorm:"not null"                 json:"content"`
	CreatedAt int64  `gorm:"autoCreateTime"           json:"created_at"`
	UpdatedAt int64  `gorm:"autoUpdateTime"           json:"updated_at"`
}

type Rating struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"                json:"id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_rating_user_movie" json:"user_id"`
	MovieID string `gorm:"not null;uniqueIndex:idx_rating_user_movie" json:"movie_id"`
	Score   uint   `gorm:"not null;check:score BETWEEN 1 AND 10"   json:"score"`
}

type Bookmark struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"                    json:"id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_bookmark_user_movie" json:"user_id"`
	MovieID  string `gorm:"not null;uniqueIndex:idx_bookmark_user_movie" json:"movie_id"`
	Category string `gorm:"not null"                                    json:"category"`
}

type Watched struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"                   json:"id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_watched_user_movie" json:"user_id"`
	MovieID string `gorm:"not null;uniqueIndex:idx_watched_user_movie" json:"movie_id"`
}
