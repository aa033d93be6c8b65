package importer

import (
	"context"
	"strings"
	"testing"

	"gelataria/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

type stubCategoryRepo struct {
	items []domain.Category
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	c.ID = "cat-" + c.Slug
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_RunProducts(t *testing.T) {
	csvData := `slug,name,description,price,category,image_url,available,featured,allergens
pistachio,Pistachio,Sicilian pistachio,3.5,cremosos,https://example.com/pistachio.jpg,true,true,milk;nuts
lemon-sorbet,Lemon Sorbet,,2.8,sorbets,,,,
,,,,,,,,
stracciatella,Stracciatella,,3.25,cremosos,,false,,milk`

	repo := &stubProductRepo{}
	catRepo := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, catRepo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	first := repo.items[0]
	if first.Slug != "pistachio" || first.Price.StringFixed(2) != "3.50" || !first.Available || !first.Featured {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if len(first.Allergens) != 2 || first.Allergens[1] != "nuts" {
		t.Fatalf("expected allergens split on ';', got %v", first.Allergens)
	}
	if first.CategoryID == nil || *first.CategoryID != "cat-cremosos" {
		t.Fatalf("expected category id, got %v", first.CategoryID)
	}
	if !repo.items[1].Available || repo.items[1].Featured || len(repo.items[1].Allergens) != 0 {
		t.Fatalf("expected defaults on second product, got %+v", repo.items[1])
	}
	if repo.items[2].Available {
		t.Fatalf("expected third product unavailable")
	}
	// cremosos is upserted once and reused
	if len(catRepo.items) != 2 {
		t.Fatalf("expected 2 category upserts, got %d", len(catRepo.items))
	}
	if catRepo.items[1].Name != "Sorbets" {
		t.Fatalf("expected title-cased category name, got %q", catRepo.items[1].Name)
	}
}

func TestCSVImporter_RejectsBadPrice(t *testing.T) {
	csvData := `slug,name,price
vanilla,Vanilla,abc`
	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}, &stubCategoryRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for invalid price")
	}
}

func TestCSVImporter_RunCategoriesFile(t *testing.T) {
	csvData := `slug,name,description
sorbets,Sorbets,Dairy-free fruit ices
gelados-cremosos,,
`
	catRepo := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), nil, catRepo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 categories imported, got %d", count)
	}
	if catRepo.items[0].Description != "Dairy-free fruit ices" {
		t.Fatalf("unexpected first category %+v", catRepo.items[0])
	}
	if catRepo.items[1].Name != "Gelados Cremosos" {
		t.Fatalf("expected name from slug, got %q", catRepo.items[1].Name)
	}
}

func TestDetectKind(t *testing.T) {
	productCSV := `slug,name,price
vanilla,Vanilla,2.50`
	categoryCSV := `slug,name
sorbets,Sorbets`

	kind, err := DetectKind(strings.NewReader(productCSV))
	if err != nil {
		t.Fatalf("detect product kind: %v", err)
	}
	if kind != KindProducts {
		t.Fatalf("expected product kind, got %s", kind)
	}

	kind, err = DetectKind(strings.NewReader(categoryCSV))
	if err != nil {
		t.Fatalf("detect category kind: %v", err)
	}
	if kind != KindCategories {
		t.Fatalf("expected category kind, got %s", kind)
	}

	if _, err := DetectKind(strings.NewReader("foo,bar\n1,2")); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}
