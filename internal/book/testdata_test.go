package book

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func fields(title, category string) Fields {
	return Fields{
		Title:          title,
		Author:         "Author of " + title,
		Publisher:      "Penguin",
		ISBN:           "978-0-00-000000-0",
		Classification: "FIC",
		Category:       category,
		PageCount:      320,
		Price:          decimal.RequireFromString("12.50"),
	}
}

// twelveBooks returns a catalog with 7 Fiction titles among 12 books, stored
// in an order unrelated to the titles.
func twelveBooks() []Book {
	seed := []Fields{
		fields("Moby Dick", "Fiction"),
		fields("A Brief History of Time", "Science"),
		fields("Dracula", "Fiction"),
		fields("Wuthering Heights", "Fiction"),
		fields("Cosmos", "Science"),
		fields("Beloved", "Fiction"),
		fields("Sapiens", "History"),
		fields("Emma", "Fiction"),
		fields("The Prince", "Politics"),
		fields("Anna Karenina", "Fiction"),
		fields("SPQR", "History"),
		fields("Frankenstein", "Fiction"),
	}
	books := make([]Book, len(seed))
	for i, f := range seed {
		books[i] = Book{ID: int64(i + 1), Fields: f}
	}
	return books
}

func titles(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func ids(books []Book) []int64 {
	out := make([]int64, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func numbered(n int, category string) []Fields {
	out := make([]Fields, n)
	for i := range out {
		out[i] = fields(fmt.Sprintf("Book %02d", n-i), category)
	}
	return out
}
