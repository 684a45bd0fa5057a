package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/cart"
	"bookstore/internal/platform/bookstoreapi"
	"bookstore/internal/platform/logger"
	"bookstore/internal/storefront"
)

type options struct {
	apiURL     string
	pageSize   int
	page       int
	sorted     bool
	categories []string
	addAll     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.apiURL, "api", envOr("BOOKSTORE_API_URL", "http://localhost:8080"), "Catalog API base URL")
	flag.IntVar(&opts.pageSize, "page-size", book.DefaultPageSize, "Books per page")
	flag.IntVar(&opts.page, "page", book.DefaultPage, "Page to show")
	flag.BoolVar(&opts.sorted, "sorted", true, "Sort by title")
	flag.Func("category", "Category filter (repeatable)", func(v string) error {
		opts.categories = append(opts.categories, v)
		return nil
	})
	flag.BoolVar(&opts.addAll, "add-all", false, "Add every listed book to a cart and print it")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "bookstore-shop", Format: "console", Output: os.Stderr})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := bookstoreapi.NewClient(bookstoreapi.Options{
		BaseURL:    opts.apiURL,
		RPS:        5,
		MaxRetries: bookstoreapi.DefaultMaxRetries,
	})
	if err := run(ctx, client, opts, os.Stdout); err != nil {
		logg.Error(ctx, "shop failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, fetcher storefront.Fetcher, opts options, out io.Writer) error {
	ctrl := storefront.NewController(fetcher, opts.pageSize)
	if err := ctrl.LoadCategories(ctx); err != nil {
		return err
	}
	if err := ctrl.SetSorted(ctx, opts.sorted); err != nil {
		return err
	}
	if len(opts.categories) > 0 {
		if err := ctrl.SetCategories(ctx, opts.categories); err != nil {
			return err
		}
	}
	if opts.page != 1 {
		if err := ctrl.GoToPage(ctx, opts.page); err != nil {
			return fmt.Errorf("page %d: %w", opts.page, err)
		}
	}

	state := ctrl.State()
	render(out, state)

	if opts.addAll {
		var c cart.Cart
		for _, b := range state.Books {
			if err := c.Add(cart.Item{BookID: b.ID, Title: b.Title, Price: b.Price, Quantity: 1}); err != nil {
				return err
			}
		}
		renderCart(out, c)
	}
	return nil
}

func render(out io.Writer, s storefront.State) {
	fmt.Fprintf(out, "Categories: %s\n", strings.Join(s.Categories, ", "))
	if len(s.SelectedCategories) > 0 {
		fmt.Fprintf(out, "Filter: %s\n", strings.Join(s.SelectedCategories, ", "))
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tPRICE")
	for _, b := range s.Books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Category, b.Price.StringFixed(2))
	}
	_ = tw.Flush()

	prev, next := "[prev]", "[next]"
	if !s.CanPrev() {
		prev = " prev "
	}
	if !s.CanNext() {
		next = " next "
	}
	fmt.Fprintf(out, "%s Page %d of %d (%d books) %s\n", prev, s.Page, s.NumPages, s.Count, next)
}

func renderCart(out io.Writer, c cart.Cart) {
	fmt.Fprintf(out, "Cart: %d items, total %s\n", c.Quantity(), c.Total().StringFixed(2))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
