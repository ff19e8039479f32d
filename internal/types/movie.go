package types

// Movie rows are created by the seeding process and read-only to the service.
// Year, Genre, Cast and Photo are nullable in the catalog source, so they map
// to pointers here.
type Movie struct {
	ID    int     `gorm:"column:id;primaryKey" json:"id"`
	Title string  `gorm:"column:title;not null" json:"title"`
	Year  *int    `gorm:"column:year" json:"year"`
	Genre *string `gorm:"column:genre" json:"genre"`
	Cast  *string `gorm:"column:cast" json:"cast"`
	Photo *string `gorm:"column:photo" json:"photo"`
}

func (Movie) TableName() string {
	return "movies"
}
