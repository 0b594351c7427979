package storage

// Input column names, in the order the source dataset uses
const (
	ColShowID      = "show_id"
	ColType        = "type"
	ColTitle       = "title"
	ColDirector    = "director"
	ColCast        = "cast"
	ColCountry     = "country"
	ColDateAdded   = "date_added"
	ColReleaseYear = "release_year"
	ColRating      = "rating"
	ColDuration    = "duration"
	ColListedIn    = "listed_in"
	ColDescription = "description"
)

// InputColumns must all be present in a source header
var InputColumns = []string{
	ColShowID, ColType, ColTitle, ColDirector, ColCast, ColCountry,
	ColDateAdded, ColReleaseYear, ColRating, ColDuration, ColListedIn, ColDescription,
}

// OutputColumns is the fixed projection written by CSVWriter
var OutputColumns = []string{
	ColShowID, ColType, ColTitle, ColDirector, ColCast, ColCountry,
	ColDateAdded, ColReleaseYear, ColRating, ColDuration, ColListedIn, ColDescription,
	"year_added", "month_added", "month_name", "year_month",
	"duration_minutes", "num_seasons", "primary_country", "primary_genre",
	"genres", "decade",
}
