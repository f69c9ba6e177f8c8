package models

// MovieTicketCount is the number of issued tickets for one movie title.
type MovieTicketCount struct {
	MovieTitle string `bun:"movie_title" json:"movie_title"`
	Count      int    `bun:"count" json:"count"`
}
