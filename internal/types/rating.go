package types

// Rating has a composite primary key: at most one rating per (user, movie)
// pair. Submitting again overwrites the stored value.
type Rating struct {
	UserID  int     `gorm:"column:user_id;primaryKey" json:"userId"`
	MovieID int     `gorm:"column:movie_id;primaryKey" json:"movieId"`
	Value   float32 `gorm:"column:rating;not null" json:"rating"`
}

func (Rating) TableName() string {
	return "ratings"
}
