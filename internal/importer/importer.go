package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gelataria/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// Kind names the layout of an import file.
type Kind string

const (
	KindProducts   Kind = "products"
	KindCategories Kind = "categories"
)

// DetectKind inspects the header row. Product files carry a price column.
func DetectKind(r io.Reader) (Kind, error) {
	headers, err := csv.NewReader(bufio.NewReader(r)).Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	idx := headerIndex(headers)
	if _, ok := idx["price"]; ok {
		return KindProducts, nil
	}
	if _, ok := idx["slug"]; ok {
		return KindCategories, nil
	}
	return "", errors.New("unrecognised csv layout")
}

// CSVImporter reads catalog CSV files and upserts rows keyed by slug.
//
// Product files: slug,name,description,price,category,image_url,available,featured,allergens
// where category is a category slug and allergens are separated by ';'.
// Category files: slug,name,description.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
	categoryIDs  map[string]string
}

func NewCSVImporter(r io.Reader, repo ProductWriter, categoryRepo CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:       csvr,
		productRepo:  repo,
		categoryRepo: categoryRepo,
		categoryIDs:  make(map[string]string),
	}
}

// Run parses CSV rows and upserts products or categories, depending on the
// header row. It returns the number of rows saved.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	_, isProducts := index["price"]
	if isProducts && i.productRepo == nil {
		return 0, errors.New("product repository unavailable")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if pick(record, index, "slug") == "" {
			continue
		}

		if isProducts {
			err = i.saveProduct(ctx, record, index)
		} else {
			_, err = i.saveCategory(ctx, categoryFromRow(record, index))
		}
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, record []string, index map[string]int) error {
	slug := strings.ToLower(pick(record, index, "slug"))
	name := pick(record, index, "name")
	if name == "" {
		return fmt.Errorf("product %q: name is required", slug)
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return fmt.Errorf("product %q: invalid price %q", slug, pick(record, index, "price"))
	}

	p := domain.Product{
		Slug:        slug,
		Name:        name,
		Description: pick(record, index, "description"),
		Price:       price.Round(2),
		ImageURL:    pick(record, index, "image_url"),
		Available:   parseBool(pick(record, index, "available"), true),
		Featured:    parseBool(pick(record, index, "featured"), false),
		Allergens:   splitList(pick(record, index, "allergens")),
	}

	if catSlug := strings.ToLower(pick(record, index, "category")); catSlug != "" {
		id, err := i.categoryID(ctx, catSlug)
		if err != nil {
			return err
		}
		p.CategoryID = &id
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", slug, err)
	}
	return nil
}

// categoryID upserts the category once per run and remembers its id.
func (i *CSVImporter) categoryID(ctx context.Context, slug string) (string, error) {
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	if i.categoryRepo == nil {
		return "", fmt.Errorf("category %q: category repository unavailable", slug)
	}
	c, err := i.saveCategory(ctx, domain.Category{Slug: slug, Name: titleFromSlug(slug)})
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (i *CSVImporter) saveCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if i.categoryRepo == nil {
		return nil, errors.New("category repository unavailable")
	}
	if c.Name == "" {
		c.Name = titleFromSlug(c.Slug)
	}
	saved, err := i.categoryRepo.Upsert(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("upsert category %q: %w", c.Slug, err)
	}
	i.categoryIDs[saved.Slug] = saved.ID
	return saved, nil
}

func categoryFromRow(record []string, index map[string]int) domain.Category {
	return domain.Category{
		Slug:        strings.ToLower(pick(record, index, "slug")),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
	}
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func parseBool(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
