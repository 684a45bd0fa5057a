package book

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
)

type demoEntry struct {
	title, author, publisher, isbn, class, category string
	pages                                           int
	price                                           string
}

var demoEntries = []demoEntry{
	{"Pride and Prejudice", "Jane Austen", "Penguin Classics", "978-0141439518", "823.7", "Fiction", 480, "9.99"},
	{"Moby Dick", "Herman Melville", "Penguin Classics", "978-0142437247", "813.3", "Fiction", 720, "14.50"},
	{"Frankenstein", "Mary Shelley", "Penguin Classics", "978-0141439471", "823.7", "Fiction", 352, "8.99"},
	{"Dracula", "Bram Stoker", "Penguin Classics", "978-0141439846", "823.8", "Fiction", 488, "10.99"},
	{"Wuthering Heights", "Emily Bronte", "Penguin Classics", "978-0141439556", "823.8", "Fiction", 416, "9.49"},
	{"Anna Karenina", "Leo Tolstoy", "Penguin Classics", "978-0143035008", "891.73", "Fiction", 864, "18.00"},
	{"The Odyssey", "Homer", "Penguin Classics", "978-0140268867", "883.01", "Poetry", 560, "16.00"},
	{"Leaves of Grass", "Walt Whitman", "Oxford", "978-0199539512", "811.3", "Poetry", 624, "12.95"},
	{"The Waste Land", "T. S. Eliot", "Norton", "978-0393974997", "821.912", "Poetry", 160, "11.25"},
	{"A Brief History of Time", "Stephen Hawking", "Bantam", "978-0553380163", "523.1", "Science", 212, "18.99"},
	{"On the Origin of Species", "Charles Darwin", "Penguin Classics", "978-0140439120", "576.8", "Science", 480, "13.00"},
	{"Cosmos", "Carl Sagan", "Ballantine", "978-0345539434", "520", "Science", 432, "17.00"},
	{"The Selfish Gene", "Richard Dawkins", "Oxford", "978-0198788607", "591.5", "Science", 544, "15.95"},
	{"SPQR", "Mary Beard", "Liveright", "978-1631492228", "937", "History", 608, "19.95"},
	{"The Guns of August", "Barbara Tuchman", "Ballantine", "978-0345476098", "940.4", "History", 640, "18.00"},
	{"Guns, Germs, and Steel", "Jared Diamond", "Norton", "978-0393354324", "303.4", "History", 528, "19.95"},
	{"The Prince", "Niccolo Machiavelli", "Penguin Classics", "978-0140449150", "320.1", "Politics", 176, "7.99"},
	{"The Republic", "Plato", "Penguin Classics", "978-0140455113", "321.07", "Philosophy", 416, "11.00"},
	{"Meditations", "Marcus Aurelius", "Modern Library", "978-0812968255", "188", "Philosophy", 256, "12.00"},
	{"Thus Spoke Zarathustra", "Friedrich Nietzsche", "Penguin Classics", "978-0140441185", "193", "Philosophy", 352, "13.00"},
	{"The Art of Computer Programming", "Donald Knuth", "Addison-Wesley", "978-0201896831", "005.1", "Technology", 672, "74.99"},
	{"The C Programming Language", "Brian Kernighan", "Prentice Hall", "978-0131103627", "005.13", "Technology", 272, "59.99"},
	{"The Go Programming Language", "Alan Donovan", "Addison-Wesley", "978-0134190440", "005.13", "Technology", 400, "39.99"},
	{"Structure and Interpretation of Computer Programs", "Harold Abelson", "MIT Press", "978-0262510875", "005.13", "Technology", 657, "55.00"},
}

// DemoCatalog returns a small catalog of well-known titles across several
// categories.
func DemoCatalog() []Fields {
	out := make([]Fields, len(demoEntries))
	for i, e := range demoEntries {
		out[i] = Fields{
			Title:          e.title,
			Author:         e.author,
			Publisher:      e.publisher,
			ISBN:           e.isbn,
			Classification: e.class,
			Category:       e.category,
			PageCount:      e.pages,
			Price:          decimal.RequireFromString(e.price),
		}
	}
	return out
}

var (
	generatedCategories = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	generatedPublishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley", "Elsevier"}
	generatedWords      = []string{"Journey", "Discovery", "Adventure", "Mystery", "Secret", "Legacy", "Revolution", "Evolution", "Innovation", "Future"}
)

// GenerateCatalog returns n synthetic books for load testing.
func GenerateCatalog(n int, rng *rand.Rand) []Fields {
	out := make([]Fields, n)
	for i := range out {
		category := generatedCategories[rng.Intn(len(generatedCategories))]
		out[i] = Fields{
			Title:          fmt.Sprintf("%s %s %d", generatedWords[rng.Intn(len(generatedWords))], category, i+1),
			Author:         fmt.Sprintf("Author %d", rng.Intn(500)+1),
			Publisher:      generatedPublishers[rng.Intn(len(generatedPublishers))],
			ISBN:           fmt.Sprintf("978-%010d", i+1),
			Classification: fmt.Sprintf("%03d", rng.Intn(1000)),
			Category:       category,
			PageCount:      100 + rng.Intn(800),
			Price:          decimal.New(int64(499+rng.Intn(5000)), -2),
		}
	}
	return out
}
